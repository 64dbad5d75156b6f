package repositories

import (
	"context"

	"shop-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository scopes every line lookup by the owning user id; there is no
// bare find-line-by-id.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// FindByUser loads the user's cart with its lines and their products.
func (r *CartRepository) FindByUser(ctx context.Context, userID int) (*models.Cart, error) {
	cart := &models.Cart{}
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.id")
		}).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(cart).Error
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// GetOrCreate returns the user's cart, inserting it first if needed. A
// concurrent creator loses the insert silently and both read the same row.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID int) (*models.Cart, error) {
	db := r.db.WithContext(ctx)

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&models.Cart{UserID: userID}).Error
	if err != nil {
		return nil, err
	}

	cart := &models.Cart{}
	if err := db.Where("user_id = ?", userID).First(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem inserts the line or, if the product is already in the cart, adds
// quantity to the existing line.
func (r *CartRepository) AddItem(ctx context.Context, cartID, productID, quantity int) error {
	item := &models.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(item).Error
}

// FindOwnedItem finds a line by id only if it belongs to userID's cart.
func (r *CartRepository) FindOwnedItem(ctx context.Context, userID, itemID int) (*models.CartItem, error) {
	item := &models.CartItem{}
	err := r.db.WithContext(ctx).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		Preload("Product").
		First(item).Error
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, item *models.CartItem, quantity int) error {
	return r.db.WithContext(ctx).Model(item).Update("quantity", quantity).Error
}

// RemoveOwnedItem deletes a line of userID's cart, returning
// gorm.ErrRecordNotFound when no such line exists for that user.
func (r *CartRepository) RemoveOwnedItem(ctx context.Context, userID, itemID int) error {
	db := r.db.WithContext(ctx)
	owned := db.Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)

	result := db.Where("id = ? AND cart_id IN (?)", itemID, owned).Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CartRepository) ClearItems(ctx context.Context, cartID int) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

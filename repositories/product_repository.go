package repositories

import (
	"context"

	"shop-api/models"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) FindByID(ctx context.Context, id int) (*models.Product, error) {
	product := &models.Product{}
	if err := r.db.WithContext(ctx).First(product, id).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindAll lists products, restricted to one company when companyID is set.
func (r *ProductRepository) FindAll(ctx context.Context, companyID *int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Order("id")
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}

	products := []models.Product{}
	err := query.Find(&products).Error
	return products, err
}

// DecrementStock subtracts quantity only while enough stock remains. It
// reports false when the guard rejected the update.
func (r *ProductRepository) DecrementStock(ctx context.Context, productID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

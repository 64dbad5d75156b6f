package services

import (
	"context"
	"errors"
	"fmt"

	"shop-api/models"
	"shop-api/repositories"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const checkoutMessage = "Purchase completed successfully"

type CartService struct {
	db          *gorm.DB
	cartRepo    *repositories.CartRepository
	productRepo *repositories.ProductRepository
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{
		db:          db,
		cartRepo:    repositories.NewCartRepository(db),
		productRepo: repositories.NewProductRepository(db),
	}
}

func (s *CartService) GetCart(ctx context.Context, userID int) ([]models.CartLineResponse, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return toCartLines(cart.Items), nil
}

// AddItem merges quantity into the existing line for the product, or adds a
// new line. Stock is not checked until checkout.
func (s *CartService) AddItem(ctx context.Context, userID int, req models.AddCartItemRequest) ([]models.CartLineResponse, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("load product: %w", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		carts := repositories.NewCartRepository(tx)

		cart, err := carts.GetOrCreate(ctx, userID)
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			// the token outlived its account
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("resolve cart: %w", err)
		}
		err = carts.AddItem(ctx, cart.ID, req.ProductID, req.Quantity)
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("add item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

// UpdateQuantity overwrites the quantity of one of the caller's lines.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID, quantity int) (*models.CartLineResponse, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.cartRepo.FindOwnedItem(ctx, userID, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load cart item: %w", err)
	}

	if err := s.cartRepo.UpdateQuantity(ctx, item, quantity); err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	item.Quantity = quantity

	line := toCartLine(*item)
	return &line, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int) error {
	err := s.cartRepo.RemoveOwnedItem(ctx, userID, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCartItemNotFound
	}
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

// Checkout validates every line against stock, then decrements stock and
// empties the cart in one transaction. Any failure leaves stock and cart
// untouched.
func (s *CartService) Checkout(ctx context.Context, userID int) (*models.CheckoutResponse, error) {
	total := decimal.Zero

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		carts := repositories.NewCartRepository(tx)
		products := repositories.NewProductRepository(tx)

		cart, err := carts.FindByUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmptyCart
		}
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		for _, item := range cart.Items {
			if item.Product.Stock < item.Quantity {
				return &InsufficientStockError{Product: item.Product.Name}
			}
		}

		for _, item := range cart.Items {
			ok, err := products.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			// Another checkout took the stock after validation.
			if !ok {
				return &InsufficientStockError{Product: item.Product.Name}
			}
			total = total.Add(lineSubtotal(item))
		}

		if err := carts.ClearItems(ctx, cart.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &models.CheckoutResponse{
		Message: checkoutMessage,
		Total:   total,
	}, nil
}

func lineSubtotal(item models.CartItem) decimal.Decimal {
	return item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

func toCartLine(item models.CartItem) models.CartLineResponse {
	return models.CartLineResponse{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductName: item.Product.Name,
		Quantity:    item.Quantity,
		Price:       item.Product.Price,
		Subtotal:    lineSubtotal(item),
	}
}

func toCartLines(items []models.CartItem) []models.CartLineResponse {
	lines := make([]models.CartLineResponse, 0, len(items))
	for _, item := range items {
		lines = append(lines, toCartLine(item))
	}
	return lines
}

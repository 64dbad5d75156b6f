package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"shop-api/models"
	"shop-api/repositories"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Bounds of the numeric(12,2) price and integer stock columns.
var maxPrice = decimal.New(1, 10)

const maxStock = math.MaxInt32

type ProductService struct {
	productRepo *repositories.ProductRepository
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{
		productRepo: repositories.NewProductRepository(db),
	}
}

func (s *ProductService) GetAllProducts(ctx context.Context, filter models.ProductFilter) ([]models.ProductResponse, error) {
	products, err := s.productRepo.FindAll(ctx, filter.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	result := make([]models.ProductResponse, 0, len(products))
	for _, p := range products {
		result = append(result, toProductResponse(p))
	}
	return result, nil
}

func (s *ProductService) GetProductByID(ctx context.Context, id int) (*models.ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}

	resp := toProductResponse(*product)
	return &resp, nil
}

// CreateProduct stores a product owned by companyID, which always comes from
// the caller's identity.
func (s *ProductService) CreateProduct(ctx context.Context, companyID int, req models.CreateProductRequest) (*models.ProductResponse, error) {
	price, err := validatePrice(req.Price)
	if err != nil {
		return nil, err
	}
	if req.Stock < 0 || req.Stock > maxStock {
		return nil, ErrInvalidProduct
	}

	product := &models.Product{
		Name:      req.Name,
		Price:     price,
		Stock:     req.Stock,
		CompanyID: companyID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		// the token outlived its company account
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	resp := toProductResponse(*product)
	return &resp, nil
}

// validatePrice accepts prices the column stores exactly and returns them
// normalised to two decimals.
func validatePrice(price *decimal.Decimal) (decimal.Decimal, error) {
	if price == nil || price.IsNegative() || price.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, ErrInvalidProduct
	}
	rounded := price.Round(2)
	if !rounded.Equal(*price) {
		return decimal.Zero, ErrInvalidProduct
	}
	return rounded, nil
}

func toProductResponse(p models.Product) models.ProductResponse {
	return models.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CompanyID: p.CompanyID,
	}
}

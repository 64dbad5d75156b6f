package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"shop-api/middleware"
	"shop-api/models"
	"shop-api/services"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService *services.ProductService
}

func NewProductController(productService *services.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// @Summary Get all products
// @Description List products, optionally only those of one company
// @Tags Products
// @Produce json
// @Param company_id query int false "Owning company ID"
// @Success 200 {object} models.Response{data=[]models.ProductResponse}
// @Failure 400 {object} models.ErrorResponse
// @Router /products [get]
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	var filter models.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBadRequest(c, "Invalid company filter", err)
		return
	}
	// camelCase spelling is accepted for older clients
	if filter.CompanyID == nil && c.Query("companyId") != "" {
		companyID, err := strconv.Atoi(c.Query("companyId"))
		if err != nil || companyID < 1 {
			respondBadRequest(c, "Invalid company filter", fmt.Errorf("companyId %q", c.Query("companyId")))
			return
		}
		filter.CompanyID = &companyID
	}

	products, err := ctrl.productService.GetAllProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to retrieve products")
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Products retrieved successfully",
		Data:    products,
	})
}

// @Summary Get product by ID
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response{data=models.ProductResponse}
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondBadRequest(c, "Invalid product ID", err)
		return
	}

	product, err := ctrl.productService.GetProductByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve product")
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Product retrieved successfully",
		Data:    product,
	})
}

// @Summary Create product
// @Description Create a product owned by the calling company
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateProductRequest true "Product"
// @Success 201 {object} models.Response{data=models.ProductResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /products [post]
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	companyID, _ := middleware.CurrentUserID(c)

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err)
		return
	}

	product, err := ctrl.productService.CreateProduct(c.Request.Context(), companyID, req)
	if err != nil {
		respondError(c, err, "Failed to create product")
		return
	}

	c.Header("Location", fmt.Sprintf("/products/%d", product.ID))
	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

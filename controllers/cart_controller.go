package controllers

import (
	"net/http"

	"shop-api/middleware"
	"shop-api/models"
	"shop-api/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService *services.CartService
}

func NewCartController(cartService *services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// @Summary Get cart
// @Description Lines of the caller's cart with subtotals
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=[]models.CartLineResponse}
// @Failure 404 {object} models.ErrorResponse
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	lines, err := ctrl.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve cart")
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart retrieved successfully",
		Data:    lines,
	})
}

// @Summary Add product to cart
// @Description Adds quantity to the existing line for the product or creates a new line
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.AddCartItemRequest true "Product and quantity"
// @Success 200 {object} models.Response{data=[]models.CartLineResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cart [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err)
		return
	}

	lines, err := ctrl.cartService.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to add item to cart")
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Item added to cart",
		Data:    lines,
	})
}

// @Summary Update cart line quantity
// @Description Overwrites the quantity of a line in the caller's cart
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param itemId path int true "Cart item ID"
// @Param request body models.UpdateCartItemRequest true "New quantity"
// @Success 200 {object} models.Response{data=models.CartLineResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/{itemId} [put]
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	itemID, err := paramID(c, "itemId")
	if err != nil {
		respondBadRequest(c, "Invalid item ID", err)
		return
	}

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err)
		return
	}

	line, err := ctrl.cartService.UpdateQuantity(c.Request.Context(), userID, itemID, req.Quantity)
	if err != nil {
		respondError(c, err, "Failed to update cart item")
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart item updated",
		Data:    line,
	})
}

// @Summary Remove cart line
// @Tags Cart
// @Security BearerAuth
// @Param itemId path int true "Cart item ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/{itemId} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	itemID, err := paramID(c, "itemId")
	if err != nil {
		respondBadRequest(c, "Invalid item ID", err)
		return
	}

	if err := ctrl.cartService.RemoveItem(c.Request.Context(), userID, itemID); err != nil {
		respondError(c, err, "Failed to remove cart item")
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Checkout
// @Description Validates stock for every line, decrements it, and empties the cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=models.CheckoutResponse}
// @Failure 400 {object} models.ErrorResponse
// @Router /cart/checkout [post]
func (ctrl *CartController) Checkout(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	receipt, err := ctrl.cartService.Checkout(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to checkout")
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: receipt.Message,
		Data:    receipt,
	})
}

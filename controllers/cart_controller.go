package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"thrift-market/models"
	"thrift-market/services"
)

type CartController struct {
	cartService *services.CartService
}

func NewCartController(cartService *services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// GetCart godoc
// @Summary Get current cart
// @Description Get the caller's cart, created lazily on first access
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID := c.GetInt("user_id")

	cart, err := ctrl.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "Cart retrieved successfully", Data: cart})
}

// AddItem godoc
// @Summary Add item to cart
// @Description Add a product to the cart; repeated adds merge quantities
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.AddCartItemRequest true "Item"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Invalid request"})
		return
	}

	if err := ctrl.cartService.AddItem(c.Request.Context(), userID, req.ProductID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "Item added to cart"})
}

// UpdateItem godoc
// @Summary Update cart item quantity
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Cart item ID"
// @Param request body models.UpdateCartItemRequest true "Quantity"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/items/{id} [put]
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	userID := c.GetInt("user_id")
	itemID, _ := strconv.Atoi(c.Param("id"))

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Invalid request"})
		return
	}

	if err := ctrl.cartService.UpdateItem(c.Request.Context(), userID, itemID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "Cart item updated successfully"})
}

// RemoveItem godoc
// @Summary Remove item from cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param id path int true "Cart item ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/items/{id} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	userID := c.GetInt("user_id")
	itemID, _ := strconv.Atoi(c.Param("id"))

	if err := ctrl.cartService.RemoveItem(c.Request.Context(), userID, itemID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "Item removed from cart"})
}

// Clear godoc
// @Summary Clear cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart [delete]
func (ctrl *CartController) Clear(c *gin.Context) {
	userID := c.GetInt("user_id")

	if err := ctrl.cartService.Clear(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "Cart cleared"})
}

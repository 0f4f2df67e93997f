package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"thrift-market/models"
	"thrift-market/services"
)

type OrderController struct {
	orderService *services.OrderService
}

func NewOrderController(orderService *services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// CreateOrder godoc
// @Summary Create order from cart
// @Description Convert the caller's cart into an order atomically; prices are frozen at purchase
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /orders [post]
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	userID := c.GetInt("user_id")

	order, err := ctrl.orderService.CreateOrder(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(201, models.Response{Success: true, Message: "Order created successfully", Data: order})
}

// GetOrders godoc
// @Summary List own orders
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} models.PaginationResponse
// @Router /orders [get]
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	userID := c.GetInt("user_id")
	page, limit := getPaginationParams(c, 20)

	resp, err := ctrl.orderService.GetOrders(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, resp)
}

// GetOrder godoc
// @Summary Get a single order
// @Description Buyer-scoped: other users' orders read as not found
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{id} [get]
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID := c.GetInt("user_id")
	orderID, _ := strconv.Atoi(c.Param("id"))

	order, err := ctrl.orderService.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "Order retrieved successfully", Data: order})
}

// UpdateStatus godoc
// @Summary Update order status
// @Description Allowed for sellers with at least one product line in the order
// @Tags Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body models.UpdateOrderStatusRequest true "New status"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{id}/status [put]
func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	userID := c.GetInt("user_id")
	orderID, _ := strconv.Atoi(c.Param("id"))

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, models.ErrorResponse{Success: false, Message: "Status is required"})
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(c.Request.Context(), userID, orderID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, models.Response{Success: true, Message: "Order status updated successfully", Data: order})
}

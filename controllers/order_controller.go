package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskman-app/taskman-api/middleware"
	"github.com/taskman-app/taskman-api/models"
	"github.com/taskman-app/taskman-api/services"
)

// OrderController exposes order intake over HTTP.
type OrderController struct {
	orders *services.OrderService
}

// NewOrderController creates an order controller using the given intake
// service.
func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// SubmitOrderRequest represents the request body for submitting a cart
type SubmitOrderRequest struct {
	OrderItems []models.OrderItem `json:"orderItems" binding:"required"`
}

// SubmitOrder handles POST /api/v1/orders - submits a guest's cart
func (oc *OrderController) SubmitOrder(c *gin.Context) {
	guestID, err := middleware.GetUserID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	role, err := middleware.GetUserRole(c)
	if err != nil || role != models.RoleGuest {
		respondErrorEnvelope(c, http.StatusForbidden, "FORBIDDEN", "Only guests can place orders")
		return
	}

	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	order, err := oc.orders.Submit(guestID, req.OrderItems)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListMyOrders handles GET /api/v1/orders - lists the caller's orders
func (oc *OrderController) ListMyOrders(c *gin.Context) {
	guestID, err := middleware.GetUserID(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	orders, err := oc.orders.ListByCreator(guestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"results": orders},
	})
}

package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

type OrderHandler struct {
	useCase domain.OrderUseCase
	log     *logrus.Logger
}

func NewOrderHandler(uc domain.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *OrderHandler) RegisterRoutes(router gin.IRouter, authRequired gin.HandlerFunc) {
	orders := router.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("/:orderNumber", h.GetOrderByNumber)
		orders.GET("", authRequired, h.ListOrders)
		orders.PATCH("/:orderNumber/status", authRequired, h.UpdateOrderStatus)
	}
}

type createOrderRequest struct {
	Order domain.OrderDraft  `json:"order"`
	Items []domain.OrderLine `json:"items"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var requestBody createOrderRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for create order: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	receipt, err := h.useCase.CreateOrder(requestBody.Order, requestBody.Items)
	if err != nil {
		h.log.Warnf("Failed to create order: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), clientMessage(err))
		return
	}

	h.log.Infof("Order %s created via API", receipt.OrderNumber)
	SuccessResponse(c, http.StatusCreated, "Order created successfully", receipt)
}

func (h *OrderHandler) GetOrderByNumber(c *gin.Context) {
	orderNumber := c.Param("orderNumber")

	order, err := h.useCase.GetOrder(orderNumber)
	if err != nil {
		h.log.Debugf("Failed to get order '%s': %v", orderNumber, err)
		ErrorResponse(c, mapErrorToStatus(err), clientMessage(err))
		return
	}

	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.useCase.ListOrders()
	if err != nil {
		h.log.Errorf("Failed to list orders: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), clientMessage(err))
		return
	}

	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	idStr := c.Param("orderNumber")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid order ID parameter for status update: %s", idStr)
		ErrorResponse(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var updateRequest struct {
		Status *domain.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&updateRequest); err != nil {
		h.log.Warnf("Failed to bind JSON for update order %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if updateRequest.Status == nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: 'status' field is required")
		return
	}

	updatedOrder, err := h.useCase.UpdateStatus(id, *updateRequest.Status)
	if err != nil {
		h.log.Warnf("Failed to update status for order %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), clientMessage(err))
		return
	}

	h.log.Infof("Order %d status updated to '%s' via API", updatedOrder.ID, updatedOrder.Status)
	SuccessResponse(c, http.StatusOK, "Order status updated successfully", updatedOrder)
}

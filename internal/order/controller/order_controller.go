package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"organicshop/internal/dto"
	apperrors "organicshop/internal/errors"
)

type OrderService interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.CreateOrderResult, error)
	GetOrder(ctx context.Context, id uint) (*dto.OrderDetail, error)
	ListOrders(ctx context.Context) ([]dto.OrderSummary, error)
	UpdateStatus(ctx context.Context, id uint, req dto.UpdateStatusRequest) error
	UpdatePaymentStatus(ctx context.Context, req dto.UpdatePaymentRequest) error
}

type OrderController struct {
	service OrderService
	logger  *zap.Logger
}

func NewOrderController(service OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{
		service: service,
		logger:  logger,
	}
}

type createOrderResponse struct {
	OrderID     uint   `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Message     string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger()

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		writeJSON(w, c.logger, http.StatusBadRequest, errorResponse{Error: "request body must be valid JSON"})
		return
	}

	result, err := c.service.CreateOrder(r.Context(), req)
	if err != nil {
		c.handleServiceError(w, err, "Failed to create order", logger)
		return
	}

	writeJSON(w, c.logger, http.StatusCreated, createOrderResponse{
		OrderID:     result.OrderID,
		OrderNumber: result.OrderNumber,
		Message:     "Order created successfully",
	})
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger()

	orders, err := c.service.ListOrders(r.Context())
	if err != nil {
		c.handleServiceError(w, err, "Failed to fetch orders", logger)
		return
	}

	if orders == nil {
		orders = []dto.OrderSummary{}
	}
	writeJSON(w, c.logger, http.StatusOK, orders)
}

func (c *OrderController) GetByID(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger()

	id, ok := c.orderIDFromPath(w, r, logger)
	if !ok {
		return
	}

	order, err := c.service.GetOrder(r.Context(), id)
	if err != nil {
		c.handleServiceError(w, err, "Failed to fetch order", logger)
		return
	}

	writeJSON(w, c.logger, http.StatusOK, order)
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger()

	id, ok := c.orderIDFromPath(w, r, logger)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		writeJSON(w, c.logger, http.StatusBadRequest, errorResponse{Error: "request body must be valid JSON"})
		return
	}

	if err := c.service.UpdateStatus(r.Context(), id, req); err != nil {
		c.handleServiceError(w, err, "Failed to update order status", logger)
		return
	}

	writeJSON(w, c.logger, http.StatusOK, messageResponse{Message: "Order status updated successfully"})
}

func (c *OrderController) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger()

	var req dto.UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		writeJSON(w, c.logger, http.StatusBadRequest, errorResponse{Error: "request body must be valid JSON"})
		return
	}

	if err := c.service.UpdatePaymentStatus(r.Context(), req); err != nil {
		c.handleServiceError(w, err, "Failed to update payment status", logger)
		return
	}

	writeJSON(w, c.logger, http.StatusOK, messageResponse{Message: "Payment status updated successfully"})
}

func (c *OrderController) requestLogger() *zap.Logger {
	return c.logger.With(zap.String("traceId", uuid.New().String()))
}

func (c *OrderController) orderIDFromPath(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uint, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		logger.Warn("invalid order id in path", zap.String("id", idStr))
		writeJSON(w, c.logger, http.StatusBadRequest, errorResponse{Error: "order id must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}

// handleServiceError maps typed service errors onto the wire contract.
// Internal detail never reaches the response body; the fallback message
// is all a caller sees of an unexpected failure.
func (c *OrderController) handleServiceError(w http.ResponseWriter, err error, fallback string, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		writeJSON(w, c.logger, http.StatusBadRequest, errorResponse{Error: ve.Message})
		return
	}

	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		writeJSON(w, c.logger, http.StatusNotFound, errorResponse{Error: nfe.Message})
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	writeJSON(w, c.logger, http.StatusInternalServerError, errorResponse{Error: fallback})
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

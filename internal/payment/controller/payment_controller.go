package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"organicshop/internal/dto"
	apperrors "organicshop/internal/errors"
)

type PaymentService interface {
	CreateGatewayOrder(ctx context.Context, req dto.CreateGatewayOrderRequest) (*dto.GatewayOrderResponse, error)
	VerifyAndRecordPayment(ctx context.Context, req dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error)
}

type PaymentController struct {
	service PaymentService
	logger  *zap.Logger
}

func NewPaymentController(service PaymentService, logger *zap.Logger) *PaymentController {
	return &PaymentController{
		service: service,
		logger:  logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *PaymentController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger()

	var req dto.CreateGatewayOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body must be valid JSON"})
		return
	}

	order, err := c.service.CreateGatewayOrder(r.Context(), req)
	if err != nil {
		c.handleServiceError(w, err, "Failed to create payment order", logger)
		return
	}

	c.writeJSON(w, http.StatusOK, order)
}

// Verify answers the checkout's signature check. A mismatch is a
// definitive verified:false with 400, never a 500: the request worked,
// the proof did not.
func (c *PaymentController) Verify(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger()

	var req dto.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body must be valid JSON"})
		return
	}

	result, err := c.service.VerifyAndRecordPayment(r.Context(), req)
	if err != nil {
		if _, ok := apperrors.IsVerificationError(err); ok {
			c.writeJSON(w, http.StatusBadRequest, dto.VerifyPaymentResponse{
				Verified: false,
				Error:    "Payment verification failed",
			})
			return
		}
		c.handleServiceError(w, err, "Failed to verify payment", logger)
		return
	}

	c.writeJSON(w, http.StatusOK, result)
}

func (c *PaymentController) requestLogger() *zap.Logger {
	return c.logger.With(zap.String("traceId", uuid.New().String()))
}

func (c *PaymentController) handleServiceError(w http.ResponseWriter, err error, fallback string, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Message})
		return
	}

	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		c.writeJSON(w, http.StatusNotFound, errorResponse{Error: nfe.Message})
		return
	}

	if ge, ok := apperrors.IsGatewayConfigError(err); ok {
		logger.Error("gateway configuration missing", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: ge.Message})
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: fallback})
}

func (c *PaymentController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"organicshop/internal/domain"
	"organicshop/internal/dto"
	apperrors "organicshop/internal/errors"
	"organicshop/internal/payment/gateway"
	"organicshop/internal/payment/signature"
)

// PaymentRecorder is the slice of the order repository the payment
// flow needs: reconciling a verified payment onto its order.
type PaymentRecorder interface {
	UpdatePaymentByRazorpayOrderID(ctx context.Context, razorpayOrderID, paymentStatus string, razorpayPaymentID *string) error
}

type PaymentService struct {
	gateway   gateway.Gateway
	orders    PaymentRecorder
	keyID     string
	keySecret string
	logger    *zap.Logger
}

func NewPaymentService(gw gateway.Gateway, orders PaymentRecorder, keyID, keySecret string, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		gateway:   gw,
		orders:    orders,
		keyID:     keyID,
		keySecret: keySecret,
		logger:    logger,
	}
}

func (s *PaymentService) checkCredentials() error {
	if s.keyID == "" || s.keySecret == "" {
		return apperrors.NewGatewayConfigError("razorpay configuration is missing, check RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET")
	}
	return nil
}

// CreateGatewayOrder registers a payment order with the gateway for
// client-side checkout. The amount is converted to the currency's
// minor unit before the remote call. Missing credentials fail fast,
// before anything leaves the process.
func (s *PaymentService) CreateGatewayOrder(ctx context.Context, req dto.CreateGatewayOrderRequest) (*dto.GatewayOrderResponse, error) {
	if err := s.checkCredentials(); err != nil {
		return nil, err
	}

	if req.Amount <= 0 {
		return nil, apperrors.NewValidationError("valid amount is required")
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	amountMinor := int64(math.Round(req.Amount * 100))
	receipt := fmt.Sprintf("receipt_%d", time.Now().UnixMilli())

	order, err := s.gateway.CreateOrder(ctx, amountMinor, currency, receipt)
	if err != nil {
		s.logger.Error("gateway order creation failed",
			zap.Int64("amountMinor", amountMinor), zap.String("currency", currency), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to create payment order", err)
	}

	s.logger.Info("gateway order created",
		zap.String("razorpayOrderId", order.OrderID),
		zap.Int64("amountMinor", order.Amount),
		zap.String("currency", order.Currency),
	)

	return &dto.GatewayOrderResponse{
		OrderID:  order.OrderID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Key:      s.keyID,
	}, nil
}

// VerifyAndRecordPayment checks the gateway's signature and, only on a
// match, marks the order completed via its gateway correlation id. A
// mismatch mutates nothing. Calling this twice with the same valid
// signature re-applies the same values and is safe.
func (s *PaymentService) VerifyAndRecordPayment(ctx context.Context, req dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	if err := s.checkCredentials(); err != nil {
		return nil, err
	}

	ok, err := signature.Verify(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, s.keySecret)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Warn("payment signature mismatch",
			zap.String("razorpayOrderId", req.RazorpayOrderID),
			zap.String("razorpayPaymentId", req.RazorpayPaymentID),
		)
		return nil, apperrors.NewVerificationError("payment verification failed")
	}

	// Record the completion on the matching order. Checkout can verify
	// before the storefront order exists; authenticity does not depend
	// on it, so a missing order is logged, not failed.
	paymentID := req.RazorpayPaymentID
	if err := s.orders.UpdatePaymentByRazorpayOrderID(ctx, req.RazorpayOrderID, domain.PaymentStatusCompleted, &paymentID); err != nil {
		if _, ok := apperrors.IsNotFoundError(err); !ok {
			return nil, err
		}
		s.logger.Warn("verified payment has no matching order yet",
			zap.String("razorpayOrderId", req.RazorpayOrderID))
	}

	s.logger.Info("payment verified and recorded",
		zap.String("razorpayOrderId", req.RazorpayOrderID),
		zap.String("razorpayPaymentId", req.RazorpayPaymentID),
	)

	return &dto.VerifyPaymentResponse{
		Verified:          true,
		Message:           "Payment verified successfully",
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
	}, nil
}

package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"organicshop/internal/domain"
	"organicshop/internal/dto"
	apperrors "organicshop/internal/errors"
)

type OrderRepository interface {
	Create(ctx context.Context, order domain.Order, items []domain.OrderItem) (uint, error)
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	FindItemsByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatusFields(ctx context.Context, id uint, update domain.StatusUpdate) error
	UpdatePaymentByRazorpayOrderID(ctx context.Context, razorpayOrderID, paymentStatus string, razorpayPaymentID *string) error
}

type OrderService struct {
	repo   OrderRepository
	logger *zap.Logger
}

func NewOrderService(repo OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:   repo,
		logger: logger,
	}
}

// CreateOrder validates the request, generates the order number and
// persists the order with its items in one atomic write. The declared
// total_amount is stored as supplied and is NOT recomputed from the
// item subtotals; callers can lie about the total. Known weakness,
// kept deliberately (see DESIGN.md). There is no idempotency key
// either: a retried request creates a second order.
func (s *OrderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.CreateOrderResult, error) {
	if err := validateCreateOrderRequest(req); err != nil {
		return nil, err
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = domain.PaymentMethodRazorpay
	}

	var razorpayOrderID *string
	if req.RazorpayOrderID != "" {
		razorpayOrderID = &req.RazorpayOrderID
	}

	order := domain.Order{
		OrderNumber:     generateOrderNumber(),
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		TotalAmount:     req.TotalAmount,
		PaymentMethod:   paymentMethod,
		RazorpayOrderID: razorpayOrderID,
	}

	items := make([]domain.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal,
		}
	}

	orderID, err := s.repo.Create(ctx, order, items)
	if err != nil {
		s.logger.Error("order creation failed",
			zap.String("orderNumber", order.OrderNumber), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order created",
		zap.Uint("orderId", orderID),
		zap.String("orderNumber", order.OrderNumber),
		zap.String("paymentMethod", paymentMethod),
		zap.Int("itemCount", len(items)),
		zap.Float64("totalAmount", order.TotalAmount),
	)

	return &dto.CreateOrderResult{
		OrderID:     orderID,
		OrderNumber: order.OrderNumber,
	}, nil
}

func validateCreateOrderRequest(req dto.CreateOrderRequest) error {
	var details []apperrors.ValidationDetail

	required := []struct {
		field string
		value string
	}{
		{"customer_name", req.CustomerName},
		{"customer_email", req.CustomerEmail},
		{"customer_phone", req.CustomerPhone},
		{"customer_address", req.CustomerAddress},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   f.field,
				Message: f.field + " is required",
			})
		}
	}

	if req.TotalAmount <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "total_amount",
			Message: "total_amount must be greater than zero",
		})
	}

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "order must contain at least one item",
		})
	}

	for idx, item := range req.Items {
		if item.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].product_id", idx),
				Message: "product_id must be a positive integer",
			})
		}
		if item.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].quantity", idx),
				Message: "quantity must be at least 1",
			})
		}
		if item.Price < 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].price", idx),
				Message: "price must be non-negative",
			})
		}
	}

	if req.PaymentMethod != "" && !domain.ValidPaymentMethod(req.PaymentMethod) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "payment_method",
			Message: "payment_method must be one of: razorpay, cod",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

const orderNumberAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// generateOrderNumber builds ORD-<unix millis>-<9 random base36 chars,
// uppercased>. Uniqueness is probabilistic; the unique index on
// order_number is the final backstop.
func generateOrderNumber() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[rand.Intn(len(orderNumberAlphabet))]
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), strings.ToUpper(string(suffix)))
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*dto.OrderDetail, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.FindItemsByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &dto.OrderDetail{
		OrderSummary: toOrderSummary(*order),
		Items:        make([]dto.OrderItemDetail, len(items)),
	}
	detail.ItemCount = len(items)
	for i, item := range items {
		detail.Items[i] = dto.OrderItemDetail{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal,
		}
	}

	return detail, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]dto.OrderSummary, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.OrderSummary, len(orders))
	for i, order := range orders {
		summaries[i] = toOrderSummary(order)
	}

	return summaries, nil
}

func toOrderSummary(order domain.Order) dto.OrderSummary {
	return dto.OrderSummary{
		ID:                order.ID,
		OrderNumber:       order.OrderNumber,
		CustomerName:      order.CustomerName,
		CustomerEmail:     order.CustomerEmail,
		CustomerPhone:     order.CustomerPhone,
		CustomerAddress:   order.CustomerAddress,
		TotalAmount:       order.TotalAmount,
		PaymentMethod:     order.PaymentMethod,
		PaymentStatus:     order.PaymentStatus,
		OrderStatus:       order.OrderStatus,
		RazorpayOrderID:   order.RazorpayOrderID,
		RazorpayPaymentID: order.RazorpayPaymentID,
		ItemCount:         order.ItemCount,
		CreatedAt:         order.CreatedAt,
	}
}

// UpdateStatus applies the operator-driven partial update. Both status
// axes are independent; any combination is accepted as long as each
// supplied value belongs to its enum. Concurrent updates to the same
// order are last-write-wins.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, req dto.UpdateStatusRequest) error {
	var (
		update  domain.StatusUpdate
		details []apperrors.ValidationDetail
	)

	if req.OrderStatus != "" {
		if !domain.ValidOrderStatus(req.OrderStatus) {
			details = append(details, apperrors.ValidationDetail{
				Field:   "order_status",
				Message: "order_status must be one of: pending, processing, shipped, delivered, cancelled",
			})
		}
		update.OrderStatus = &req.OrderStatus
	}

	if req.PaymentStatus != "" {
		if !domain.ValidPaymentStatus(req.PaymentStatus) {
			details = append(details, apperrors.ValidationDetail{
				Field:   "payment_status",
				Message: "payment_status must be one of: pending, completed, failed",
			})
		}
		update.PaymentStatus = &req.PaymentStatus
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	if update.Empty() {
		return apperrors.NewValidationError("no fields to update")
	}

	if err := s.repo.UpdateStatusFields(ctx, id, update); err != nil {
		return err
	}

	s.logger.Info("order status updated",
		zap.Uint("orderId", id),
		zap.Stringp("orderStatus", update.OrderStatus),
		zap.Stringp("paymentStatus", update.PaymentStatus),
	)

	return nil
}

// UpdatePaymentStatus is the direct-set path the checkout success
// callback uses after the signature has been verified independently.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, req dto.UpdatePaymentRequest) error {
	var details []apperrors.ValidationDetail
	if req.RazorpayOrderID == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "razorpay_order_id",
			Message: "razorpay_order_id is required",
		})
	}
	if req.PaymentStatus == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "payment_status",
			Message: "payment_status is required",
		})
	} else if !domain.ValidPaymentStatus(req.PaymentStatus) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "payment_status",
			Message: "payment_status must be one of: pending, completed, failed",
		})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	var razorpayPaymentID *string
	if req.RazorpayPaymentID != "" {
		razorpayPaymentID = &req.RazorpayPaymentID
	}

	if err := s.repo.UpdatePaymentByRazorpayOrderID(ctx, req.RazorpayOrderID, req.PaymentStatus, razorpayPaymentID); err != nil {
		return err
	}

	s.logger.Info("payment status updated",
		zap.String("razorpayOrderId", req.RazorpayOrderID),
		zap.String("paymentStatus", req.PaymentStatus),
	)

	return nil
}

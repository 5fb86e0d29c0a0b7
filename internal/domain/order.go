package domain

import "time"

type Order struct {
	ID                uint
	OrderNumber       string
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	CustomerAddress   string
	TotalAmount       float64
	PaymentMethod     string
	PaymentStatus     string
	OrderStatus       string
	RazorpayOrderID   *string
	RazorpayPaymentID *string
	CreatedAt         time.Time

	// ItemCount is populated only by the dashboard listing query.
	ItemCount int
}

const (
	PaymentMethodRazorpay = "razorpay"
	PaymentMethodCOD      = "cod"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodRazorpay || m == PaymentMethodCOD
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// StatusUpdate carries the optional fields of a partial status update.
// A nil field is left untouched by the repository.
type StatusUpdate struct {
	OrderStatus   *string
	PaymentStatus *string
}

func (u StatusUpdate) Empty() bool {
	return u.OrderStatus == nil && u.PaymentStatus == nil
}

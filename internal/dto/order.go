package dto

import "time"

type CreateOrderRequest struct {
	CustomerName    string           `json:"customer_name"`
	CustomerEmail   string           `json:"customer_email"`
	CustomerPhone   string           `json:"customer_phone"`
	CustomerAddress string           `json:"customer_address"`
	Items           []OrderItemInput `json:"items"`
	TotalAmount     float64          `json:"total_amount"`
	RazorpayOrderID string           `json:"razorpay_order_id"`
	PaymentMethod   string           `json:"payment_method"`
}

type OrderItemInput struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Subtotal  float64 `json:"subtotal"`
}

type CreateOrderResult struct {
	OrderID     uint   `json:"order_id"`
	OrderNumber string `json:"order_number"`
}

// OrderSummary is the dashboard listing row: the order without its
// items, plus the item count.
type OrderSummary struct {
	ID                uint      `json:"id"`
	OrderNumber       string    `json:"order_number"`
	CustomerName      string    `json:"customer_name"`
	CustomerEmail     string    `json:"customer_email"`
	CustomerPhone     string    `json:"customer_phone"`
	CustomerAddress   string    `json:"customer_address"`
	TotalAmount       float64   `json:"total_amount"`
	PaymentMethod     string    `json:"payment_method"`
	PaymentStatus     string    `json:"payment_status"`
	OrderStatus       string    `json:"order_status"`
	RazorpayOrderID   *string   `json:"razorpay_order_id"`
	RazorpayPaymentID *string   `json:"razorpay_payment_id"`
	ItemCount         int       `json:"item_count"`
	CreatedAt         time.Time `json:"created_at"`
}

type OrderDetail struct {
	OrderSummary
	Items []OrderItemDetail `json:"items"`
}

type OrderItemDetail struct {
	ID        uint    `json:"id"`
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Subtotal  float64 `json:"subtotal"`
}

// UpdateStatusRequest is the admin partial update. Absent or empty
// fields are left untouched; at least one must be supplied.
type UpdateStatusRequest struct {
	OrderStatus   string `json:"order_status"`
	PaymentStatus string `json:"payment_status"`
}

type UpdatePaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	PaymentStatus     string `json:"payment_status"`
}

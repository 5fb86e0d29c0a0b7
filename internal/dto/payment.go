package dto

type CreateGatewayOrderRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// GatewayOrder is the remote payment order as reported by the gateway.
type GatewayOrder struct {
	OrderID  string
	Amount   int64
	Currency string
}

// GatewayOrderResponse carries everything the storefront needs to open
// the client-side checkout: the gateway order and the public key id.
type GatewayOrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Key      string `json:"key"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type VerifyPaymentResponse struct {
	Verified          bool   `json:"verified"`
	Message           string `json:"message,omitempty"`
	RazorpayOrderID   string `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string `json:"razorpay_payment_id,omitempty"`
	Error             string `json:"error,omitempty"`
}

package gateway

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"organicshop/internal/dto"
)

type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
	}
}

// CreateOrder registers the payment order with Razorpay. The SDK does
// not take a context; the ctx parameter satisfies the Gateway port.
func (g *RazorpayGateway) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string) (*dto.GatewayOrder, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("creating razorpay order: %w", err)
	}

	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		return nil, fmt.Errorf("razorpay order response missing id")
	}

	order := &dto.GatewayOrder{
		OrderID:  orderID,
		Amount:   amountMinor,
		Currency: currency,
	}
	if amount, ok := body["amount"].(float64); ok {
		order.Amount = int64(amount)
	}
	if cur, ok := body["currency"].(string); ok {
		order.Currency = cur
	}

	return order, nil
}

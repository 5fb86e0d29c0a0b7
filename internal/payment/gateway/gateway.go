package gateway

import (
	"context"

	"organicshop/internal/dto"
)

// Gateway is the outbound payment-provider port. The service talks to
// this interface; tests swap in a fake without touching the network.
type Gateway interface {
	// CreateOrder registers a payment order with the provider. The
	// amount is in the currency's minor unit.
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*dto.GatewayOrder, error)
}

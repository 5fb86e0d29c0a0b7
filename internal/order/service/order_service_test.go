package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"organicshop/internal/domain"
	"organicshop/internal/dto"
	apperrors "organicshop/internal/errors"
)

// Mock implementations

type mockOrderRepository struct {
	CreateFunc                         func(ctx context.Context, order domain.Order, items []domain.OrderItem) (uint, error)
	FindByIDFunc                       func(ctx context.Context, id uint) (*domain.Order, error)
	FindItemsByOrderIDFunc             func(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
	ListFunc                           func(ctx context.Context) ([]domain.Order, error)
	UpdateStatusFieldsFunc             func(ctx context.Context, id uint, update domain.StatusUpdate) error
	UpdatePaymentByRazorpayOrderIDFunc func(ctx context.Context, razorpayOrderID, paymentStatus string, razorpayPaymentID *string) error
}

func (m *mockOrderRepository) Create(ctx context.Context, order domain.Order, items []domain.OrderItem) (uint, error) {
	return m.CreateFunc(ctx, order, items)
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockOrderRepository) FindItemsByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	return m.FindItemsByOrderIDFunc(ctx, orderID)
}

func (m *mockOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	return m.ListFunc(ctx)
}

func (m *mockOrderRepository) UpdateStatusFields(ctx context.Context, id uint, update domain.StatusUpdate) error {
	return m.UpdateStatusFieldsFunc(ctx, id, update)
}

func (m *mockOrderRepository) UpdatePaymentByRazorpayOrderID(ctx context.Context, razorpayOrderID, paymentStatus string, razorpayPaymentID *string) error {
	return m.UpdatePaymentByRazorpayOrderIDFunc(ctx, razorpayOrderID, paymentStatus, razorpayPaymentID)
}

func validCreateRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		CustomerName:    "John Doe",
		CustomerEmail:   "john@example.com",
		CustomerPhone:   "1234567890",
		CustomerAddress: "123 Main St",
		TotalAmount:     360.00,
		PaymentMethod:   domain.PaymentMethodCOD,
		Items: []dto.OrderItemInput{
			{ProductID: 1, Quantity: 2, Price: 180.00, Subtotal: 360.00},
		},
	}
}

func TestCreateOrder_Success(t *testing.T) {
	var captured struct {
		order domain.Order
		items []domain.OrderItem
	}
	repo := &mockOrderRepository{
		CreateFunc: func(ctx context.Context, order domain.Order, items []domain.OrderItem) (uint, error) {
			captured.order = order
			captured.items = items
			return 42, nil
		},
	}
	svc := NewOrderService(repo, zap.NewNop())

	result, err := svc.CreateOrder(context.Background(), validCreateRequest())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, uint(42), result.OrderID)
	assert.Equal(t, captured.order.OrderNumber, result.OrderNumber)
	assert.Equal(t, "John Doe", captured.order.CustomerName)
	assert.Equal(t, domain.PaymentMethodCOD, captured.order.PaymentMethod)
	assert.Equal(t, 360.00, captured.order.TotalAmount)
	assert.Nil(t, captured.order.RazorpayOrderID)
	require.Len(t, captured.items, 1)
	assert.Equal(t, 1, captured.items[0].ProductID)
	assert.Equal(t, 2, captured.items[0].Quantity)
	assert.Equal(t, 180.00, captured.items[0].Price)
	assert.Equal(t, 360.00, captured.items[0].Subtotal)
}

func TestCreateOrder_DefaultsToRazorpayMethod(t *testing.T) {
	var capturedMethod string
	repo := &mockOrderRepository{
		CreateFunc: func(ctx context.Context, order domain.Order, items []domain.OrderItem) (uint, error) {
			capturedMethod = order.PaymentMethod
			return 1, nil
		},
	}
	svc := NewOrderService(repo, zap.NewNop())

	req := validCreateRequest()
	req.PaymentMethod = ""
	req.RazorpayOrderID = "order_abc"

	_, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentMethodRazorpay, capturedMethod)
}

func TestCreateOrder_CarriesGatewayOrderID(t *testing.T) {
	var captured *string
	repo := &mockOrderRepository{
		CreateFunc: func(ctx context.Context, order domain.Order, items []domain.OrderItem) (uint, error) {
			captured = order.RazorpayOrderID
			return 1, nil
		},
	}
	svc := NewOrderService(repo, zap.NewNop())

	req := validCreateRequest()
	req.RazorpayOrderID = "order_abc"

	_, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "order_abc", *captured)
}

func TestCreateOrder_ValidationFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.CreateOrderRequest)
		field  string
	}{
		{"missing name", func(r *dto.CreateOrderRequest) { r.CustomerName = "" }, "customer_name"},
		{"missing email", func(r *dto.CreateOrderRequest) { r.CustomerEmail = "" }, "customer_email"},
		{"missing phone", func(r *dto.CreateOrderRequest) { r.CustomerPhone = "  " }, "customer_phone"},
		{"missing address", func(r *dto.CreateOrderRequest) { r.CustomerAddress = "" }, "customer_address"},
		{"zero total", func(r *dto.CreateOrderRequest) { r.TotalAmount = 0 }, "total_amount"},
		{"empty items", func(r *dto.CreateOrderRequest) { r.Items = nil }, "items"},
		{"zero quantity", func(r *dto.CreateOrderRequest) { r.Items[0].Quantity = 0 }, "items[0].quantity"},
		{"bad product id", func(r *dto.CreateOrderRequest) { r.Items[0].ProductID = 0 }, "items[0].product_id"},
		{"negative price", func(r *dto.CreateOrderRequest) { r.Items[0].Price = -1 }, "items[0].price"},
		{"unknown payment method", func(r *dto.CreateOrderRequest) { r.PaymentMethod = "stripe" }, "payment_method"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repoCalled := false
			repo := &mockOrderRepository{
				CreateFunc: func(ctx context.Context, order domain.Order, items []domain.OrderItem) (uint, error) {
					repoCalled = true
					return 0, nil
				},
			}
			svc := NewOrderService(repo, zap.NewNop())

			req := validCreateRequest()
			tc.mutate(&req)

			result, err := svc.CreateOrder(context.Background(), req)
			assert.Nil(t, result)
			require.Error(t, err)
			assert.False(t, repoCalled, "validation failure must not reach the repository")

			ve, ok := apperrors.IsValidationError(err)
			require.True(t, ok)

			found := false
			for _, d := range ve.Details {
				if d.Field == tc.field {
					found = true
				}
			}
			assert.True(t, found, "expected a detail for field %s, got %v", tc.field, ve.Details)
		})
	}
}

func TestCreateOrder_RepositoryFailurePropagates(t *testing.T) {
	repoErr := errors.New("connection lost")
	repo := &mockOrderRepository{
		CreateFunc: func(ctx context.Context, order domain.Order, items []domain.OrderItem) (uint, error) {
			return 0, repoErr
		},
	}
	svc := NewOrderService(repo, zap.NewNop())

	result, err := svc.CreateOrder(context.Background(), validCreateRequest())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, repoErr)
}

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{13,}-[A-Z0-9]{9}$`)

func TestGenerateOrderNumber_Format(t *testing.T) {
	number := generateOrderNumber()
	assert.Regexp(t, orderNumberPattern, number)
}

func TestGenerateOrderNumber_Uniqueness(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		number := generateOrderNumber()
		_, dup := seen[number]
		require.False(t, dup, "duplicate order number %s after %d generations", number, i)
		seen[number] = struct{}{}
	}
}

func TestGetOrder_ReturnsItems(t *testing.T) {
	repo := &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return &domain.Order{ID: id, OrderNumber: "ORD-1-AAAAAAAAA", OrderStatus: domain.OrderStatusPending, PaymentStatus: domain.PaymentStatusPending}, nil
		},
		FindItemsByOrderIDFunc: func(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
			return []domain.OrderItem{
				{ID: 1, OrderID: orderID, ProductID: 1, Quantity: 2, Price: 180.00, Subtotal: 360.00},
				{ID: 2, OrderID: orderID, ProductID: 3, Quantity: 1, Price: 50.00, Subtotal: 50.00},
			}, nil
		},
	}
	svc := NewOrderService(repo, zap.NewNop())

	detail, err := svc.GetOrder(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, uint(7), detail.ID)
	assert.Equal(t, 2, detail.ItemCount)
	require.Len(t, detail.Items, 2)
	assert.Equal(t, 360.00, detail.Items[0].Subtotal)
	assert.Equal(t, 50.00, detail.Items[1].Subtotal)
}

func TestGetOrder_NotFound(t *testing.T) {
	repo := &mockOrderRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return nil, apperrors.NewNotFoundError("order with id 99 not found")
		},
	}
	svc := NewOrderService(repo, zap.NewNop())

	detail, err := svc.GetOrder(context.Background(), 99)
	assert.Nil(t, detail)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestUpdateStatus_NoFields(t *testing.T) {
	repoCalled := false
	repo := &mockOrderRepository{
		UpdateStatusFieldsFunc: func(ctx context.Context, id uint, update domain.StatusUpdate) error {
			repoCalled = true
			return nil
		},
	}
	svc := NewOrderService(repo, zap.NewNop())

	err := svc.UpdateStatus(context.Background(), 1, dto.UpdateStatusRequest{})
	require.Error(t, err)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
	assert.False(t, repoCalled)
}

func TestUpdateStatus_InvalidValues(t *testing.T) {
	repo := &mockOrderRepository{
		UpdateStatusFieldsFunc: func(ctx context.Context, id uint, update domain.StatusUpdate) error {
			t.Fatal("repository must not be reached")
			return nil
		},
	}
	svc := NewOrderService(repo, zap.NewNop())

	err := svc.UpdateStatus(context.Background(), 1, dto.UpdateStatusRequest{OrderStatus: "SHIPPED"})
	require.Error(t, err)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)

	err = svc.UpdateStatus(context.Background(), 1, dto.UpdateStatusRequest{PaymentStatus: "paid"})
	require.Error(t, err)
	_, ok = apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestUpdateStatus_PartialUpdatePassesOnlySuppliedField(t *testing.T) {
	var captured domain.StatusUpdate
	repo := &mockOrderRepository{
		UpdateStatusFieldsFunc: func(ctx context.Context, id uint, update domain.StatusUpdate) error {
			captured = update
			return nil
		},
	}
	svc := NewOrderService(repo, zap.NewNop())

	err := svc.UpdateStatus(context.Background(), 1, dto.UpdateStatusRequest{OrderStatus: domain.OrderStatusShipped})
	require.NoError(t, err)
	require.NotNil(t, captured.OrderStatus)
	assert.Equal(t, domain.OrderStatusShipped, *captured.OrderStatus)
	assert.Nil(t, captured.PaymentStatus)
}

func TestUpdateStatus_BothAxes(t *testing.T) {
	var captured domain.StatusUpdate
	repo := &mockOrderRepository{
		UpdateStatusFieldsFunc: func(ctx context.Context, id uint, update domain.StatusUpdate) error {
			captured = update
			return nil
		},
	}
	svc := NewOrderService(repo, zap.NewNop())

	// The two axes are independent; no combination is rejected.
	err := svc.UpdateStatus(context.Background(), 1, dto.UpdateStatusRequest{
		OrderStatus:   domain.OrderStatusDelivered,
		PaymentStatus: domain.PaymentStatusPending,
	})
	require.NoError(t, err)
	require.NotNil(t, captured.OrderStatus)
	require.NotNil(t, captured.PaymentStatus)
	assert.Equal(t, domain.OrderStatusDelivered, *captured.OrderStatus)
	assert.Equal(t, domain.PaymentStatusPending, *captured.PaymentStatus)
}

func TestUpdatePaymentStatus_RequiredFields(t *testing.T) {
	repo := &mockOrderRepository{
		UpdatePaymentByRazorpayOrderIDFunc: func(ctx context.Context, razorpayOrderID, paymentStatus string, razorpayPaymentID *string) error {
			t.Fatal("repository must not be reached")
			return nil
		},
	}
	svc := NewOrderService(repo, zap.NewNop())

	err := svc.UpdatePaymentStatus(context.Background(), dto.UpdatePaymentRequest{PaymentStatus: domain.PaymentStatusCompleted})
	require.Error(t, err)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)

	err = svc.UpdatePaymentStatus(context.Background(), dto.UpdatePaymentRequest{RazorpayOrderID: "order_abc"})
	require.Error(t, err)
	_, ok = apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestUpdatePaymentStatus_Idempotent(t *testing.T) {
	type recorded struct {
		status    string
		paymentID *string
	}
	var states []recorded
	repo := &mockOrderRepository{
		UpdatePaymentByRazorpayOrderIDFunc: func(ctx context.Context, razorpayOrderID, paymentStatus string, razorpayPaymentID *string) error {
			states = append(states, recorded{status: paymentStatus, paymentID: razorpayPaymentID})
			return nil
		},
	}
	svc := NewOrderService(repo, zap.NewNop())

	req := dto.UpdatePaymentRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_xyz",
		PaymentStatus:     domain.PaymentStatusCompleted,
	}

	require.NoError(t, svc.UpdatePaymentStatus(context.Background(), req))
	require.NoError(t, svc.UpdatePaymentStatus(context.Background(), req))

	// Applying twice re-applies the identical values.
	require.Len(t, states, 2)
	assert.Equal(t, states[0].status, states[1].status)
	assert.Equal(t, *states[0].paymentID, *states[1].paymentID)
}

func TestUpdatePaymentStatus_NotFoundPropagates(t *testing.T) {
	repo := &mockOrderRepository{
		UpdatePaymentByRazorpayOrderIDFunc: func(ctx context.Context, razorpayOrderID, paymentStatus string, razorpayPaymentID *string) error {
			return apperrors.NewNotFoundError("order for gateway order order_missing not found")
		},
	}
	svc := NewOrderService(repo, zap.NewNop())

	err := svc.UpdatePaymentStatus(context.Background(), dto.UpdatePaymentRequest{
		RazorpayOrderID: "order_missing",
		PaymentStatus:   domain.PaymentStatusCompleted,
	})
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestListOrders_MapsSummaries(t *testing.T) {
	rzp := "order_abc"
	repo := &mockOrderRepository{
		ListFunc: func(ctx context.Context) ([]domain.Order, error) {
			return []domain.Order{
				{ID: 2, OrderNumber: "ORD-2-BBBBBBBBB", ItemCount: 3, RazorpayOrderID: &rzp},
				{ID: 1, OrderNumber: "ORD-1-AAAAAAAAA", ItemCount: 1},
			}, nil
		},
	}
	svc := NewOrderService(repo, zap.NewNop())

	summaries, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, uint(2), summaries[0].ID)
	assert.Equal(t, 3, summaries[0].ItemCount)
	assert.Equal(t, &rzp, summaries[0].RazorpayOrderID)
	assert.Nil(t, summaries[1].RazorpayOrderID)
}

package service

import (
	"context"
	"errors"
	"testing"

	"joulaa/internal/checkout"
	"joulaa/internal/model"
	"joulaa/internal/payment"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderCreator struct {
	mock.Mock
}

func (m *MockOrderCreator) CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreateOrderResponse), args.Error(1)
}

func (m *MockOrderCreator) GetOrder(ctx context.Context, id uuid.UUID) (*model.OrderWithItems, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderWithItems), args.Error(1)
}

func (m *MockOrderCreator) GetOrdersByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderWithItems, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderWithItems), args.Error(1)
}

func (m *MockOrderCreator) GetAllOrders(ctx context.Context) ([]model.AdminOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AdminOrder), args.Error(1)
}

var _ OrderService = (*MockOrderCreator)(nil)

func TestCheckoutService_CreatePaymentIntent(t *testing.T) {
	ctx := context.Background()
	amount := decimal.NewFromFloat(185.99)

	gateway := new(MockPaymentGateway)
	orders := new(MockOrderRepository)
	service := NewCheckoutService(gateway, orders, new(MockOrderCreator), zerolog.Nop())

	gateway.On("CreateIntent", ctx, amount).Return(&payment.Intent{
		ID:           "pi_123",
		ClientSecret: "pi_123_secret_abc",
		Status:       payment.IntentStatusRequiresPaymentMethod,
		Amount:       amount,
	}, nil)

	intent, err := service.CreatePaymentIntent(ctx, amount)

	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret_abc", intent.ClientSecret)

	gateway.AssertExpectations(t)
}

func TestCheckoutService_CreatePaymentIntent_InvalidAmount(t *testing.T) {
	ctx := context.Background()

	gateway := new(MockPaymentGateway)
	service := NewCheckoutService(gateway, new(MockOrderRepository), new(MockOrderCreator), zerolog.Nop())

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		intent, err := service.CreatePaymentIntent(ctx, amount)

		require.Error(t, err)
		assert.Equal(t, model.ErrInvalidAmount, err)
		assert.Nil(t, intent)
	}

	gateway.AssertNotCalled(t, "CreateIntent")
}

func TestCheckoutService_CreatePaymentIntent_GatewayRejection(t *testing.T) {
	ctx := context.Background()
	amount := decimal.NewFromFloat(50)

	gateway := new(MockPaymentGateway)
	service := NewCheckoutService(gateway, new(MockOrderRepository), new(MockOrderCreator), zerolog.Nop())

	gatewayErr := errors.New("card network unavailable")
	gateway.On("CreateIntent", ctx, amount).Return(nil, gatewayErr)

	intent, err := service.CreatePaymentIntent(ctx, amount)

	require.Error(t, err)
	assert.Nil(t, intent)

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodePaymentInitFailed, domainErr.Code)
	assert.ErrorIs(t, err, gatewayErr)
}

func TestCheckoutService_ConfirmReturn_MissingSecret(t *testing.T) {
	ctx := context.Background()

	service := NewCheckoutService(new(MockPaymentGateway), new(MockOrderRepository), new(MockOrderCreator), zerolog.Nop())

	result, err := service.ConfirmReturn(ctx, "", nil)

	require.Error(t, err)
	assert.Nil(t, result)

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeMissingField, domainErr.Code)
}

func TestCheckoutService_ConfirmReturn_MalformedSecret(t *testing.T) {
	ctx := context.Background()

	gateway := new(MockPaymentGateway)
	service := NewCheckoutService(gateway, new(MockOrderRepository), new(MockOrderCreator), zerolog.Nop())

	result, err := service.ConfirmReturn(ctx, "not-a-client-secret", nil)

	require.Error(t, err)
	assert.Nil(t, result)

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeInvalidClientSecret, domainErr.Code)

	gateway.AssertNotCalled(t, "RetrieveIntentByClientSecret")
}

func TestCheckoutService_ConfirmReturn_SucceededAttachesOrder(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	gateway := new(MockPaymentGateway)
	orders := new(MockOrderRepository)
	service := NewCheckoutService(gateway, orders, new(MockOrderCreator), zerolog.Nop())

	gateway.On("RetrieveIntentByClientSecret", ctx, "pi_123_secret_abc").
		Return(&payment.Intent{ID: "pi_123", Status: payment.IntentStatusSucceeded}, nil)
	orders.On("GetByPaymentIntentID", ctx, "pi_123").
		Return(&model.Order{ID: orderID, PaymentIntentID: "pi_123"}, []model.OrderItem{}, nil)

	result, err := service.ConfirmReturn(ctx, "pi_123_secret_abc", nil)

	require.NoError(t, err)
	assert.Equal(t, checkout.StateSucceeded, result.Status)
	require.NotNil(t, result.OrderID)
	assert.Equal(t, orderID, *result.OrderID)
	assert.Equal(t, "Payment succeeded", result.Message)
}

func TestCheckoutService_ConfirmReturn_SucceededCreatesOrderFromPayload(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	orderReq := validRequest()
	orderReq.PaymentIntentID = ""

	gateway := new(MockPaymentGateway)
	orders := new(MockOrderRepository)
	creator := new(MockOrderCreator)
	service := NewCheckoutService(gateway, orders, creator, zerolog.Nop())

	gateway.On("RetrieveIntentByClientSecret", ctx, "pi_123_secret_abc").
		Return(&payment.Intent{ID: "pi_123", Status: payment.IntentStatusSucceeded}, nil)
	creator.On("CreateOrder", ctx, mock.MatchedBy(func(req *model.CreateOrderRequest) bool {
		return req.PaymentIntentID == "pi_123"
	})).Return(&model.CreateOrderResponse{Success: true, OrderID: orderID, Message: "order created"}, nil)

	result, err := service.ConfirmReturn(ctx, "pi_123_secret_abc", orderReq)

	require.NoError(t, err)
	assert.Equal(t, checkout.StateSucceeded, result.Status)
	require.NotNil(t, result.OrderID)
	assert.Equal(t, orderID, *result.OrderID)

	orders.AssertNotCalled(t, "GetByPaymentIntentID")
	creator.AssertExpectations(t)
}

func TestCheckoutService_ConfirmReturn_SucceededBeforeOrderRecorded(t *testing.T) {
	ctx := context.Background()

	gateway := new(MockPaymentGateway)
	orders := new(MockOrderRepository)
	service := NewCheckoutService(gateway, orders, new(MockOrderCreator), zerolog.Nop())

	gateway.On("RetrieveIntentByClientSecret", ctx, "pi_123_secret_abc").
		Return(&payment.Intent{ID: "pi_123", Status: payment.IntentStatusSucceeded}, nil)
	orders.On("GetByPaymentIntentID", ctx, "pi_123").Return(nil, nil, nil)

	result, err := service.ConfirmReturn(ctx, "pi_123_secret_abc", nil)

	require.NoError(t, err)
	assert.Equal(t, checkout.StateSucceeded, result.Status)
	assert.Nil(t, result.OrderID)
}

func TestCheckoutService_ConfirmReturn_NonTerminalStates(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		status      payment.IntentStatus
		wantState   checkout.State
		wantMessage string
	}{
		{payment.IntentStatusProcessing, checkout.StateProcessing, "Your payment is processing"},
		{payment.IntentStatusRequiresPaymentMethod, checkout.StateRequiresPaymentMethod, "Your payment was not successful, please try again"},
		{payment.IntentStatusCanceled, checkout.StateFailed, "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			gateway := new(MockPaymentGateway)
			orders := new(MockOrderRepository)
			service := NewCheckoutService(gateway, orders, new(MockOrderCreator), zerolog.Nop())

			gateway.On("RetrieveIntentByClientSecret", ctx, "pi_123_secret_abc").
				Return(&payment.Intent{ID: "pi_123", Status: tt.status}, nil)

			result, err := service.ConfirmReturn(ctx, "pi_123_secret_abc", nil)

			require.NoError(t, err)
			assert.Equal(t, tt.wantState, result.Status)
			assert.Equal(t, tt.wantMessage, result.Message)
			assert.Nil(t, result.OrderID)

			orders.AssertNotCalled(t, "GetByPaymentIntentID")
		})
	}
}

func TestCheckoutService_ConfirmReturn_GatewayError(t *testing.T) {
	ctx := context.Background()

	gateway := new(MockPaymentGateway)
	service := NewCheckoutService(gateway, new(MockOrderRepository), new(MockOrderCreator), zerolog.Nop())

	gateway.On("RetrieveIntentByClientSecret", ctx, "pi_123_secret_abc").
		Return(nil, errors.New("not found"))

	result, err := service.ConfirmReturn(ctx, "pi_123_secret_abc", nil)

	require.Error(t, err)
	assert.Nil(t, result)

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeInternalError, domainErr.Code)
}

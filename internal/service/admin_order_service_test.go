package service

import (
	"context"
	"testing"

	"kiranakart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAdminService(orderRepo *MockOrderRepository, dispatcher *MockDispatcher) AdminOrderService {
	return NewAdminOrderService(orderRepo, dispatcher, zerolog.Nop())
}

func TestAdminOrderService_List_Pagination(t *testing.T) {
	ctx := context.Background()

	mockOrderRepo := new(MockOrderRepository)
	orders := []model.Order{*unpaidOrder(uuid.New(), 460), *unpaidOrder(uuid.New(), 630)}
	mockOrderRepo.On("List", ctx, (*model.OrderStatus)(nil), 20, 20).Return(orders, 45, nil)

	svc := newAdminService(mockOrderRepo, new(MockDispatcher))

	page, err := svc.List(ctx, 2, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 45, page.Total)
	assert.Len(t, page.Orders, 2)
}

func TestAdminOrderService_List_ClampsLimit(t *testing.T) {
	ctx := context.Background()

	mockOrderRepo := new(MockOrderRepository)
	mockOrderRepo.On("List", ctx, (*model.OrderStatus)(nil), 100, 0).Return([]model.Order{}, 0, nil)

	svc := newAdminService(mockOrderRepo, new(MockDispatcher))

	_, err := svc.List(ctx, 0, 5000, nil)
	require.NoError(t, err)
	mockOrderRepo.AssertExpectations(t)
}

func TestAdminOrderService_List_StatusFilter(t *testing.T) {
	ctx := context.Background()

	mockOrderRepo := new(MockOrderRepository)
	shipped := model.OrderStatusShipped
	mockOrderRepo.On("List", ctx, &shipped, 20, 0).Return([]model.Order{}, 0, nil)

	svc := newAdminService(mockOrderRepo, new(MockDispatcher))

	_, err := svc.List(ctx, 1, 20, &shipped)
	require.NoError(t, err)
}

func TestAdminOrderService_List_InvalidStatus(t *testing.T) {
	ctx := context.Background()

	mockOrderRepo := new(MockOrderRepository)
	svc := newAdminService(mockOrderRepo, new(MockDispatcher))

	bogus := model.OrderStatus("teleported")
	_, err := svc.List(ctx, 1, 20, &bogus)

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeValidation, domainErr.Code)
	mockOrderRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminOrderService_UpdateStatus_Success(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	order := unpaidOrder(uuid.New(), 460)

	mockOrderRepo := new(MockOrderRepository)
	mockDispatcher := new(MockDispatcher)
	mockTx := new(MockTx)

	shipped := *order
	shipped.Status = model.OrderStatusShipped

	mockOrderRepo.On("GetByID", ctx, order.ID).Return(order, nil).Once()
	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("UpdateStatus", ctx, mockTx, order.ID, model.OrderStatusShipped, &adminID).Return(nil)
	mockOrderRepo.On("AppendStatusHistory", ctx, mockTx, order.ID, mock.MatchedBy(func(c model.StatusChange) bool {
		return c.Status == model.OrderStatusShipped && c.UpdatedBy == adminID
	})).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)
	mockOrderRepo.On("GetByID", ctx, order.ID).Return(&shipped, nil).Once()
	mockDispatcher.On("Send", mock.Anything, "9876543210", mock.Anything, mock.Anything).Return(notifyResult(true)).Maybe()

	svc := newAdminService(mockOrderRepo, mockDispatcher)

	updated, err := svc.UpdateStatus(ctx, adminID, order.ID, model.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, updated.Status)
	assert.True(t, mockTx.committed)
	mockOrderRepo.AssertExpectations(t)
}

func TestAdminOrderService_UpdateStatus_InvalidStatus(t *testing.T) {
	ctx := context.Background()

	mockOrderRepo := new(MockOrderRepository)
	svc := newAdminService(mockOrderRepo, new(MockDispatcher))

	_, err := svc.UpdateStatus(ctx, uuid.New(), uuid.New(), model.OrderStatus("lost"))

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeValidation, domainErr.Code)
	mockOrderRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAdminOrderService_UpdateStatus_OrderNotFound(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	mockOrderRepo := new(MockOrderRepository)
	mockOrderRepo.On("GetByID", ctx, orderID).Return(nil, nil)

	svc := newAdminService(mockOrderRepo, new(MockDispatcher))

	_, err := svc.UpdateStatus(ctx, uuid.New(), orderID, model.OrderStatusShipped)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
	mockOrderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestAdminOrderService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	mockOrderRepo := new(MockOrderRepository)
	mockOrderRepo.On("GetByID", ctx, orderID).Return(nil, nil)

	svc := newAdminService(mockOrderRepo, new(MockDispatcher))

	_, err := svc.GetByID(ctx, orderID)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

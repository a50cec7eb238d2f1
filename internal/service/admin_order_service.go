package service

import (
	"context"
	"fmt"
	"time"

	"kiranakart/internal/model"
	"kiranakart/internal/notify"
	"kiranakart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// adminOrderService implements AdminOrderService.
type adminOrderService struct {
	orderRepo  repository.OrderRepository
	dispatcher notify.Dispatcher
	logger     zerolog.Logger
}

// NewAdminOrderService creates a new admin order service.
func NewAdminOrderService(
	orderRepo repository.OrderRepository,
	dispatcher notify.Dispatcher,
	logger zerolog.Logger,
) AdminOrderService {
	return &adminOrderService{
		orderRepo:  orderRepo,
		dispatcher: dispatcher,
		logger:     logger.With().Str("service", "admin-order").Logger(),
	}
}

// List retrieves a page of orders.
func (s *adminOrderService) List(ctx context.Context, page, limit int, status *model.OrderStatus) (*model.OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if status != nil && !model.ValidOrderStatus(*status) {
		return nil, model.NewValidationError("invalid status filter: %s", *status)
	}

	offset := (page - 1) * limit
	orders, total, err := s.orderRepo.List(ctx, status, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	pages := (total + limit - 1) / limit

	return &model.OrderPage{
		Orders: orders,
		Page:   page,
		Pages:  pages,
		Total:  total,
	}, nil
}

// GetByID retrieves any order.
func (s *adminOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus overrides an order's status. Back-office tooling may jump to
// any status; the history row records the admin who did it.
func (s *adminOrderService) UpdateStatus(ctx context.Context, adminID, orderID uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, model.NewValidationError("valid status required: pending, confirmed, shipped, delivered, cancelled")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.UpdateStatus(ctx, tx, orderID, status, &adminID); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if err = s.orderRepo.AppendStatusHistory(ctx, tx, orderID, model.StatusChange{
		Status:    status,
		At:        time.Now(),
		UpdatedBy: adminID,
	}); err != nil {
		return nil, fmt.Errorf("failed to record status change: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("admin_id", adminID.String()).
		Str("from", string(order.Status)).
		Str("to", string(status)).
		Msg("order status updated by admin")

	dispatchAsync(s.logger, s.dispatcher, order.NotificationPhone(""),
		notify.TemplateOrderStatus, []string{
			orderID.String(),
			string(status),
		})

	updated, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	return updated, nil
}

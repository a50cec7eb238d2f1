package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"kiranakart/internal/model"
	"kiranakart/internal/notify"
	"kiranakart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	maxItemQuantity = 99

	// Free shipping above this items total; flat fee below it.
	freeShippingThreshold = 500.0
	flatShippingFee       = 40.0
	taxRate               = 0.05
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	dispatcher  notify.Dispatcher
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	dispatcher notify.Dispatcher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		dispatcher:  dispatcher,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// computePricing derives the frozen order pricing from its line items.
func computePricing(items []model.OrderItem) (itemsPrice, shippingPrice, taxPrice, totalPrice float64) {
	for _, item := range items {
		itemsPrice += item.Price * float64(item.Quantity)
	}

	if itemsPrice > freeShippingThreshold {
		shippingPrice = 0
	} else {
		shippingPrice = flatShippingFee
	}

	taxPrice = math.Round(itemsPrice * taxRate)
	totalPrice = itemsPrice + taxPrice + shippingPrice
	return
}

// Create freezes a cart into a priced, pending order.
func (s *orderService) Create(ctx context.Context, userID uuid.UUID, req *model.OrderRequest) (*model.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	// Snapshot every line from the current catalogue. Name, price and image are
	// frozen here; later product edits must not alter this order.
	ids := make([]string, 0, len(req.Items))
	for _, line := range req.Items {
		ids = append(ids, line.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	catalogue := make(map[string]model.Product, len(products))
	for _, p := range products {
		catalogue[p.ID] = p
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, found := catalogue[line.ProductID]
		if !found || !product.IsActive {
			s.logger.Warn().Str("product_id", line.ProductID).Msg("product not found for order")
			return nil, model.NewDomainError(model.ErrCodeNotFound, fmt.Sprintf("Product not found: %s", line.ProductID))
		}
		if product.Stock < line.Quantity {
			s.logger.Warn().
				Str("product_id", line.ProductID).
				Int("stock", product.Stock).
				Int("requested", line.Quantity).
				Msg("insufficient stock for order")
			return nil, model.NewDomainError(model.ErrCodeInsufficientStock, fmt.Sprintf("Insufficient stock for %s", product.Name))
		}

		items = append(items, model.OrderItem{
			ID:        uuid.New(),
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			Price:     product.Price,
			Image:     product.Image,
		})
	}

	itemsPrice, shippingPrice, taxPrice, totalPrice := computePricing(items)

	now := time.Now()
	order := &model.Order{
		ID:              uuid.New(),
		UserID:          userID,
		ShippingAddress: req.ShippingAddress,
		ItemsPrice:      itemsPrice,
		TaxPrice:        taxPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      totalPrice,
		Status:          model.OrderStatusPending,
		IsPaid:          false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	order.Items = items

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = s.orderRepo.AppendStatusHistory(ctx, tx, order.ID, model.StatusChange{
		Status:    model.OrderStatusPending,
		At:        now,
		UpdatedBy: userID,
	}); err != nil {
		return nil, fmt.Errorf("failed to record order status: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Int("item_count", len(items)).
		Float64("total_price", totalPrice).
		Msg("order created successfully")

	return order, nil
}

// ListMine retrieves the caller's orders.
func (s *orderService) ListMine(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves one of the caller's orders.
func (s *orderService) GetByID(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if order.OwnerID() != userID {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("caller", userID.String()).
			Msg("order access denied")
		return nil, model.ErrNotOrderOwner
	}

	return order, nil
}

// Cancel cancels an unpaid order.
func (s *orderService) Cancel(ctx context.Context, userID, orderID uuid.UUID, fallbackPhone string) (*model.Order, error) {
	order, err := s.GetByID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.IsPaid {
		return nil, model.ErrCannotCancelPaid
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.UpdateStatus(ctx, tx, orderID, model.OrderStatusCancelled, nil); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	if err = s.orderRepo.AppendStatusHistory(ctx, tx, orderID, model.StatusChange{
		Status:    model.OrderStatusCancelled,
		At:        time.Now(),
		UpdatedBy: userID,
	}); err != nil {
		return nil, fmt.Errorf("failed to record cancellation: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("user_id", userID.String()).
		Msg("order cancelled")

	dispatchAsync(s.logger, s.dispatcher, order.NotificationPhone(fallbackPhone),
		notify.TemplateOrderCancelled, []string{
			orderID.String(),
			"Your order has been cancelled successfully.",
		})

	order.Status = model.OrderStatusCancelled
	return order, nil
}

// validateOrderRequest validates the order request.
func validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewValidationError("order request is required")
	}

	if len(req.Items) == 0 {
		return model.NewValidationError("order must contain at least one item")
	}

	for i, item := range req.Items {
		if item.ProductID == "" {
			return model.NewValidationError("item %d: product ID is required", i)
		}
		if item.Quantity < 1 || item.Quantity > maxItemQuantity {
			return model.NewValidationError("item %d: quantity must be between 1 and %d", i, maxItemQuantity)
		}
	}

	addr := req.ShippingAddress
	switch {
	case addr.Name == "":
		return model.NewValidationError("shipping address: name is required")
	case addr.Phone == "":
		return model.NewValidationError("shipping address: phone is required")
	case addr.Street == "":
		return model.NewValidationError("shipping address: street is required")
	case addr.City == "":
		return model.NewValidationError("shipping address: city is required")
	case addr.Pincode == "":
		return model.NewValidationError("shipping address: pincode is required")
	}

	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"kiranakart/internal/gateway"
	"kiranakart/internal/model"
	"kiranakart/internal/notify"
	"kiranakart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// minAmountMinor is the gateway floor: 100 paise (₹1).
const minAmountMinor = 100

// paymentService implements PaymentService. It is the only writer of the
// paid/captured transition and owns its idempotency guarantees.
type paymentService struct {
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	productRepo repository.ProductRepository
	gateway     gateway.Gateway
	dispatcher  notify.Dispatcher
	logger      zerolog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	productRepo repository.ProductRepository,
	gw gateway.Gateway,
	dispatcher notify.Dispatcher,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		productRepo: productRepo,
		gateway:     gw,
		dispatcher:  dispatcher,
		logger:      logger.With().Str("service", "payment").Logger(),
	}
}

// CreateIntent creates a gateway payment intent for an unpaid order.
func (s *paymentService) CreateIntent(ctx context.Context, userID, orderID uuid.UUID) (*model.PaymentIntentResponse, error) {
	order, err := s.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.IsPaid {
		return nil, model.ErrAlreadyPaid
	}

	amountMinor := int64(math.Round(order.TotalPrice * 100))
	if amountMinor < minAmountMinor {
		return nil, model.ErrAmountTooLow
	}

	gwOrder, err := s.gateway.CreateOrder(ctx, amountMinor, orderID.String())
	if err != nil {
		if errors.Is(err, gateway.ErrNotConfigured) {
			s.logger.Warn().Msg("payment intent requested but gateway is not configured")
			return nil, model.ErrGatewayUnavailable
		}
		var rejected *gateway.RejectedError
		if errors.As(err, &rejected) {
			return nil, model.NewDomainError(model.ErrCodeGatewayRejected, rejected.Description)
		}
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("gateway intent creation failed")
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	now := time.Now()
	payment := &model.Payment{
		ID:             uuid.New(),
		OrderID:        order.ID,
		UserID:         userID,
		GatewayOrderID: gwOrder.ID,
		Amount:         order.TotalPrice,
		Status:         model.PaymentStatusCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment attempt: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("gateway_order_id", gwOrder.ID).
		Int64("amount_minor", amountMinor).
		Msg("payment intent created")

	return &model.PaymentIntentResponse{
		GatewayOrderID: gwOrder.ID,
		Amount:         amountMinor,
		Currency:       "INR",
		KeyID:          s.gateway.KeyID(),
	}, nil
}

// Verify checks the callback signature and commits the paid transition.
//
// The signature check runs before any lookup so an invalid callback can learn
// nothing and mutate nothing. The commit itself is a single transaction whose
// idempotency rests on two conditional updates: payment status = created and
// order is_paid = FALSE. A duplicate callback, a client retry, a concurrent
// verification, or a callback arriving after the sweeper failed the payment
// all fall into the not-captured branch and return the order without touching
// stock or re-firing notifications.
func (s *paymentService) Verify(ctx context.Context, userID uuid.UUID, fallbackPhone string, req *model.VerifyPaymentRequest) (*model.Order, error) {
	if req.GatewayOrderID == "" || req.GatewayPaymentID == "" || req.GatewaySignature == "" {
		return nil, model.NewValidationError("razorpay_order_id, razorpay_payment_id and razorpay_signature are required")
	}

	if !s.gateway.VerifySignature(req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature) {
		s.logger.Warn().
			Str("gateway_order_id", req.GatewayOrderID).
			Msg("payment signature verification failed")
		return nil, model.ErrVerificationFailed
	}

	payment, err := s.paymentRepo.GetByGatewayOrderID(ctx, req.GatewayOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	if payment == nil {
		return nil, model.ErrPaymentNotFound
	}

	order, err := s.orderRepo.GetByID(ctx, payment.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrPaymentNotFound
	}
	if order.OwnerID() != userID {
		s.logger.Warn().
			Str("order_id", order.ID.String()).
			Str("caller", userID.String()).
			Msg("payment verification denied")
		return nil, model.ErrNotOrderOwner
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to verify payment: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	captured, err := s.paymentRepo.Capture(ctx, tx, req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature)
	if err != nil {
		return nil, fmt.Errorf("failed to capture payment: %w", err)
	}

	if !captured {
		// Already captured by an earlier call, or the sweeper failed the
		// payment first. Either way this call commits nothing.
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
		}
		return order, nil
	}

	paidAt := time.Now()
	result := model.PaymentResult{
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		GatewaySignature: req.GatewaySignature,
	}

	marked, err := s.orderRepo.MarkPaid(ctx, tx, order.ID, result, paidAt)
	if err != nil {
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}

	// The order may have been paid through a different payment attempt; stock
	// is decremented exactly once, with the is_paid transition.
	if marked {
		if err = s.orderRepo.AppendStatusHistory(ctx, tx, order.ID, model.StatusChange{
			Status:    model.OrderStatusConfirmed,
			At:        paidAt,
			UpdatedBy: userID,
		}); err != nil {
			return nil, fmt.Errorf("failed to record payment confirmation: %w", err)
		}

		for _, item := range order.Items {
			if err = s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return nil, fmt.Errorf("failed to decrement stock: %w", err)
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to verify payment: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("gateway_order_id", req.GatewayOrderID).
		Str("gateway_payment_id", req.GatewayPaymentID).
		Bool("order_transition", marked).
		Msg("payment captured")

	if marked {
		dispatchAsync(s.logger, s.dispatcher, order.NotificationPhone(fallbackPhone),
			notify.TemplateOrderSuccess, []string{
				order.ID.String(),
				itemsSummary(order.Items),
				fmt.Sprintf("₹%.2f", order.TotalPrice),
				addressSummary(order.ShippingAddress),
			})
	}

	updated, err := s.orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	return updated, nil
}

// NotifyFailure sends a best-effort payment-failure message. The Payment row
// created at intent time stays at created; the sweeper expires it later.
func (s *paymentService) NotifyFailure(ctx context.Context, userID, orderID uuid.UUID, fallbackPhone, failureMessage string) (notify.Result, error) {
	order, err := s.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return notify.Result{}, err
	}

	phone := order.NotificationPhone(fallbackPhone)
	if phone == "" {
		return notify.Result{Skipped: true}, nil
	}

	if failureMessage == "" {
		failureMessage = "Payment failed. Please try again."
	}

	res := s.dispatcher.Send(ctx, phone, notify.TemplateOrderFailure, []string{
		order.ID.String(),
		failureMessage,
	})
	if res.Err != nil {
		s.logger.Warn().
			Err(res.Err).
			Str("order_id", orderID.String()).
			Msg("payment failure notification failed")
	}

	return res, nil
}

// ownedOrder loads an order and enforces ownership.
func (s *paymentService) ownedOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if order.OwnerID() != userID {
		return nil, model.ErrNotOrderOwner
	}
	return order, nil
}

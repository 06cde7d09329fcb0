// File: services/settlement/engine.go
package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staybook/database"
	bookingRepo "staybook/database/repository/booking"
	catalogRepo "staybook/database/repository/catalog"
	orderRepo "staybook/database/repository/order"
	paymentRepo "staybook/database/repository/payment"
	"staybook/models"
	"staybook/services/gateway"
	"staybook/services/inventory"
	"staybook/services/order"
	"staybook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Result reports a settled payment.
type Result struct {
	PaymentID        string `json:"paymentId"`
	OrderID          string `json:"orderId"`
	BookingID        string `json:"bookingId"`
	BookingReference string `json:"bookingReference"`
	RoomsBooked      int    `json:"roomsBooked"`
}

// Engine converts a verified, paid order into a permanent booking, exactly
// once per external payment reference.
type Engine interface {
	Verify(ctx context.Context, gatewayOrderRef, gatewayPaymentRef, signature string) (*Result, error)
}

// DefaultEngine implements Engine.
type DefaultEngine struct {
	Orders   orderRepo.OrderRepository
	Bookings bookingRepo.BookingRepository
	Payments paymentRepo.PaymentRepository
	Catalog  catalogRepo.CatalogRepository
	Holds    inventory.HoldManager
	Gateway  gateway.Adapter
	Tx       database.TxRunner
	Clock    utils.Clock
	Logger   *zap.Logger

	cache settledCache
}

// NewEngine wires a settlement engine. cacheClient may be nil to disable the
// redis fast path.
func NewEngine(
	orders orderRepo.OrderRepository,
	bookings bookingRepo.BookingRepository,
	payments paymentRepo.PaymentRepository,
	catalog catalogRepo.CatalogRepository,
	holds inventory.HoldManager,
	gw gateway.Adapter,
	tx database.TxRunner,
	clock utils.Clock,
	logger *zap.Logger,
	cacheClient *redis.Client,
) *DefaultEngine {
	return &DefaultEngine{
		Orders:   orders,
		Bookings: bookings,
		Payments: payments,
		Catalog:  catalog,
		Holds:    holds,
		Gateway:  gw,
		Tx:       tx,
		Clock:    clock,
		Logger:   logger,
		cache:    settledCache{client: cacheClient, ttl: 24 * time.Hour, logger: logger},
	}
}

func (e *DefaultEngine) Verify(ctx context.Context, gatewayOrderRef, gatewayPaymentRef, signature string) (*Result, error) {
	// Fast-path idempotency check, outside any transaction: a payment
	// reference that already produced a booking returns it immediately.
	if cached := e.cache.Get(ctx, gatewayPaymentRef); cached != nil {
		return cached, nil
	}
	if existing, err := e.settledResult(ctx, gatewayPaymentRef); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	o, err := e.Orders.FindByGatewayOrderRef(ctx, gatewayOrderRef)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("order for gateway ref %s: %w", gatewayOrderRef, models.ErrNotFound)
	}

	// Defense in depth: the stored contact fields were validated at checkout,
	// but a row that went bad since must not settle.
	if o.GuestName == "" || o.GuestPhone == "" || !order.ValidEmail(o.GuestEmail) {
		return nil, fmt.Errorf("order %s has malformed guest contact: %w", o.ID, models.ErrValidation)
	}

	switch o.Status {
	case models.OrderStatusSuccess:
		// A concurrent verify settled this order between our fast-path check
		// and the load above.
		return e.resultForSettledOrder(ctx, o)
	case models.OrderStatusFailed:
		return nil, fmt.Errorf("order %s already failed: %w", o.ID, models.ErrConflict)
	}

	now := e.Clock.Now()
	if o.Expired(now) {
		settled, err := e.failOrder(ctx, o)
		if err != nil {
			return nil, err
		}
		if settled != nil {
			// A concurrent verify won the race and settled before we could
			// fail the order; its booking stands.
			return e.resultForSettledOrder(ctx, settled)
		}
		return nil, fmt.Errorf("hold expired — rooms released: %w", models.ErrConflict)
	}

	if !e.Gateway.VerifySignature(gatewayOrderRef, gatewayPaymentRef, signature) {
		// Terminal for this order: the client must start a new checkout. A
		// lost race means another call already settled or failed the order;
		// either way this signature is still rejected.
		if _, err := e.failOrder(ctx, o); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("payment signature rejected for order %s: %w", o.ID, models.ErrSignatureMismatch)
	}

	var result *Result
	err = e.Tx.WithTx(ctx, func(txCtx context.Context) error {
		settled, err := e.settle(txCtx, o, gatewayPaymentRef, signature, now)
		if err != nil {
			return err
		}
		result = settled
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.cache.Put(ctx, gatewayPaymentRef, *result)
	e.Logger.Info("payment settled",
		zap.String("orderId", result.OrderID),
		zap.String("bookingId", result.BookingID),
		zap.String("bookingReference", result.BookingReference),
		zap.Int("roomsBooked", result.RoomsBooked))
	return result, nil
}

// settle runs inside one transaction; no intermediate state is observable.
func (e *DefaultEngine) settle(ctx context.Context, o *models.Order, gatewayPaymentRef, signature string, now time.Time) (*Result, error) {
	// Re-read under the transaction: two verifies can race past the
	// fast-path check; only one settles.
	fresh, err := e.Orders.FindByID(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, fmt.Errorf("order %s vanished mid-settlement: %w", o.ID, models.ErrInternalInvariant)
	}
	if fresh.Status == models.OrderStatusSuccess {
		return e.resultForSettledOrder(ctx, fresh)
	}

	// Second idempotency guard, authoritative because it runs inside the
	// transaction.
	if existing, err := e.settledResult(ctx, gatewayPaymentRef); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	if err := e.Orders.MarkSuccess(ctx, o.ID, gatewayPaymentRef, signature, now); err != nil {
		if errors.Is(err, models.ErrConflict) {
			// Lost the race inside the window between the re-read above and
			// the conditional update.
			latest, ferr := e.Orders.FindByID(ctx, o.ID)
			if ferr != nil {
				return nil, ferr
			}
			if latest != nil && latest.Status == models.OrderStatusSuccess {
				return e.resultForSettledOrder(ctx, latest)
			}
		}
		return nil, err
	}

	held, err := e.Holds.ActiveHoldCount(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	if held == 0 {
		// The expiry check would have fired first for a lapsed lease, so a
		// verified order without holds means the engine lost track of them.
		return nil, fmt.Errorf("order %s has no holds to finalize: %w", o.ID, models.ErrInternalInvariant)
	}

	booking := aggregateBooking(o, utils.NewBookingReference(now), now)
	snapshot, err := e.policySnapshot(ctx, o.PropertyID)
	if err != nil {
		return nil, err
	}
	booking.Policy = snapshot
	if err := e.Bookings.Insert(ctx, booking); err != nil {
		return nil, err
	}

	// Cells flip to booked only after the booking row exists.
	if _, err := e.Holds.FinalizeHold(ctx, o.ID, booking.ID); err != nil {
		return nil, err
	}

	record := models.PaymentRecord{
		ID:                uuid.New().String(),
		GatewayPaymentRef: gatewayPaymentRef,
		GatewayOrderRef:   o.GatewayOrderRef,
		Amount:            o.Amount,
		Currency:          o.Currency,
		BookingID:         booking.ID,
		CreatedAt:         now,
	}
	switch o.Payer.Kind {
	case models.PayerUser:
		record.UserID = o.Payer.ID
	case models.PayerAgent:
		record.AgentID = o.Payer.ID
	default:
		record.GuestEmail = o.Payer.ID
	}
	if err := e.Payments.Insert(ctx, record); err != nil {
		return nil, err
	}

	return &Result{
		PaymentID:        record.ID,
		OrderID:          o.ID,
		BookingID:        booking.ID,
		BookingReference: booking.Reference,
		RoomsBooked:      booking.Rooms,
	}, nil
}

// failOrder atomically releases the order's holds and marks it FAILED. The
// mark is conditional on the order still being PENDING; when a concurrent
// call already settled it, the transaction aborts (keeping the booked cells
// intact) and the settled order is returned for the caller to dispatch on.
func (e *DefaultEngine) failOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	err := e.Tx.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := e.Holds.ReleaseHold(txCtx, o.ID); err != nil {
			return err
		}
		return e.Orders.MarkFailed(txCtx, o.ID, e.Clock.Now())
	})
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, models.ErrConflict) {
		return nil, err
	}
	fresh, ferr := e.Orders.FindByID(ctx, o.ID)
	if ferr != nil {
		return nil, ferr
	}
	if fresh == nil {
		return nil, fmt.Errorf("order %s vanished mid-failure: %w", o.ID, models.ErrInternalInvariant)
	}
	if fresh.Status == models.OrderStatusSuccess {
		return fresh, nil
	}
	// Already FAILED: another call released the holds first.
	return nil, nil
}

// settledResult returns the result for an already-recorded payment
// reference, or nil when the payment is unknown.
func (e *DefaultEngine) settledResult(ctx context.Context, gatewayPaymentRef string) (*Result, error) {
	record, err := e.Payments.FindByGatewayPaymentRef(ctx, gatewayPaymentRef)
	if err != nil {
		return nil, err
	}
	if record == nil || record.BookingID == "" {
		return nil, nil
	}
	booking, err := e.Bookings.FindByID(ctx, record.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("payment %s points at missing booking %s: %w",
			gatewayPaymentRef, record.BookingID, models.ErrInternalInvariant)
	}
	return &Result{
		PaymentID:        record.ID,
		OrderID:          booking.OrderID,
		BookingID:        booking.ID,
		BookingReference: booking.Reference,
		RoomsBooked:      booking.Rooms,
	}, nil
}

// resultForSettledOrder resolves the booking of an order already marked
// SUCCESS (the narrower double-verify race).
func (e *DefaultEngine) resultForSettledOrder(ctx context.Context, o *models.Order) (*Result, error) {
	booking, err := e.Bookings.FindByOrderID(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("settled order %s has no booking: %w", o.ID, models.ErrInternalInvariant)
	}
	record, err := e.Payments.FindByGatewayPaymentRef(ctx, o.GatewayPaymentRef)
	if err != nil {
		return nil, err
	}
	result := &Result{
		OrderID:          o.ID,
		BookingID:        booking.ID,
		BookingReference: booking.Reference,
		RoomsBooked:      booking.Rooms,
	}
	if record != nil {
		result.PaymentID = record.ID
	}
	return result, nil
}

// policySnapshot copies the property's current cancellation policy by value.
// Store errors abort the settlement so a retry can capture the real policy;
// only a property with no policy configured settles with an empty snapshot.
func (e *DefaultEngine) policySnapshot(ctx context.Context, propertyID string) (models.PolicySnapshot, error) {
	property, err := e.Catalog.GetProperty(ctx, propertyID)
	if err != nil {
		return models.PolicySnapshot{}, fmt.Errorf("loading property %s for policy snapshot: %w", propertyID, err)
	}
	if property == nil || property.PolicyID == "" {
		return models.PolicySnapshot{}, nil
	}
	policy, err := e.Catalog.GetPolicy(ctx, property.PolicyID)
	if err != nil {
		return models.PolicySnapshot{}, fmt.Errorf("loading policy %s for snapshot: %w", property.PolicyID, err)
	}
	if policy == nil {
		e.Logger.Warn("cancellation policy missing at settlement",
			zap.String("propertyId", propertyID),
			zap.String("policyId", property.PolicyID))
		return models.PolicySnapshot{}, nil
	}
	return policy.Snapshot(), nil
}

// aggregateBooking folds the order's line selections into a single booking.
func aggregateBooking(o *models.Order, reference string, now time.Time) models.Booking {
	var rooms, guests, children int
	lines := make([]models.BookingLineSelection, len(o.Lines))
	for i, line := range o.Lines {
		rooms += line.Rooms
		guests += line.Guests
		children += line.Children
		lines[i] = models.BookingLineSelection{
			RoomTypeID:   line.RoomTypeID,
			RoomTypeName: line.RoomTypeName,
			RoomIDs:      line.RoomIDs,
			Rooms:        line.Rooms,
			Guests:       line.Guests,
			Children:     line.Children,
			Dates:        line.Dates,
			MealPlanID:   line.MealPlanID,
			Price:        line.Price,
			Tax:          line.Tax,
			TotalPrice:   line.TotalPrice,
		}
	}
	return models.Booking{
		ID:            uuid.New().String(),
		Reference:     reference,
		OrderID:       o.ID,
		PropertyID:    o.PropertyID,
		CheckIn:       o.CheckIn,
		CheckOut:      o.CheckOut,
		Rooms:         rooms,
		Guests:        guests,
		Children:      children,
		TotalAmount:   o.Amount,
		Currency:      o.Currency,
		PaymentStatus: models.PaymentStatusPaid,
		Status:        models.BookingStatusConfirmed,
		Lines:         lines,
		CreatedAt:     now,
	}
}

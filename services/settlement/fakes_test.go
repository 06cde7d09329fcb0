package settlement

import (
	"context"
	"fmt"
	"time"

	"staybook/models"
	"staybook/services/gateway"
)

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeOrderRepo struct {
	orders map[string]*models.Order
	// staleReads forces FindByGatewayOrderRef to report the order as still
	// PENDING for that many calls, mimicking a read that raced a concurrent
	// settlement.
	staleReads int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*models.Order)}
}

func (r *fakeOrderRepo) Insert(_ context.Context, o models.Order) error {
	r.orders[o.ID] = &o
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id string) (*models.Order, error) {
	if o, ok := r.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeOrderRepo) FindByGatewayOrderRef(_ context.Context, ref string) (*models.Order, error) {
	for _, o := range r.orders {
		if o.GatewayOrderRef == ref {
			cp := *o
			if r.staleReads > 0 {
				r.staleReads--
				cp.Status = models.OrderStatusPending
			}
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) MarkSuccess(_ context.Context, id, paymentRef, signature string, now time.Time) error {
	o, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %s missing", id)
	}
	if o.Status != models.OrderStatusPending {
		return fmt.Errorf("order %s is not pending: %w", id, models.ErrConflict)
	}
	o.Status = models.OrderStatusSuccess
	o.GatewayPaymentRef = paymentRef
	o.GatewaySignature = signature
	o.UpdatedAt = now
	return nil
}

func (r *fakeOrderRepo) MarkFailed(_ context.Context, id string, now time.Time) error {
	o, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %s missing", id)
	}
	if o.Status != models.OrderStatusPending {
		return fmt.Errorf("order %s is not pending: %w", id, models.ErrConflict)
	}
	o.Status = models.OrderStatusFailed
	o.UpdatedAt = now
	return nil
}

func (r *fakeOrderRepo) FindExpiredPending(_ context.Context, now time.Time, limit int64) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.orders {
		if o.Status == models.OrderStatusPending && now.After(o.ExpiresAt) && int64(len(out)) < limit {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) EnsureIndexes() error { return nil }

type fakeBookingRepo struct {
	bookings map[string]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) Insert(_ context.Context, b models.Booking) error {
	for _, existing := range r.bookings {
		if existing.OrderID == b.OrderID {
			return fmt.Errorf("booking already exists for order %s: %w", b.OrderID, models.ErrConflict)
		}
	}
	r.bookings[b.ID] = &b
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id string) (*models.Booking, error) {
	if b, ok := r.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindByOrderID(_ context.Context, orderID string) (*models.Booking, error) {
	for _, b := range r.bookings {
		if b.OrderID == orderID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) EnsureIndexes() error { return nil }

type fakePaymentRepo struct {
	records map[string]*models.PaymentRecord // by gateway payment ref
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{records: make(map[string]*models.PaymentRecord)}
}

func (r *fakePaymentRepo) Insert(_ context.Context, rec models.PaymentRecord) error {
	if _, exists := r.records[rec.GatewayPaymentRef]; exists {
		return fmt.Errorf("payment %s already recorded: %w", rec.GatewayPaymentRef, models.ErrConflict)
	}
	r.records[rec.GatewayPaymentRef] = &rec
	return nil
}

func (r *fakePaymentRepo) FindByGatewayPaymentRef(_ context.Context, ref string) (*models.PaymentRecord, error) {
	if rec, ok := r.records[ref]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (r *fakePaymentRepo) EnsureIndexes() error { return nil }

type fakeCatalog struct {
	properties map[string]models.Property
	roomTypes  map[string]models.RoomType
	rooms      map[string]models.Room
	mealPlans  map[string]models.MealPlan
	policies   map[string]models.CancellationPolicy

	propertyErr error
	policyErr   error
}

func (c *fakeCatalog) GetProperty(_ context.Context, id string) (*models.Property, error) {
	if c.propertyErr != nil {
		return nil, c.propertyErr
	}
	if p, ok := c.properties[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (c *fakeCatalog) GetRoomType(_ context.Context, id string) (*models.RoomType, error) {
	if rt, ok := c.roomTypes[id]; ok {
		return &rt, nil
	}
	return nil, nil
}

func (c *fakeCatalog) GetRoomsByIDs(_ context.Context, ids []string) ([]models.Room, error) {
	var out []models.Room
	for _, id := range ids {
		if room, ok := c.rooms[id]; ok {
			out = append(out, room)
		}
	}
	return out, nil
}

func (c *fakeCatalog) GetMealPlan(_ context.Context, id string) (*models.MealPlan, error) {
	if mp, ok := c.mealPlans[id]; ok {
		return &mp, nil
	}
	return nil, nil
}

func (c *fakeCatalog) GetPolicy(_ context.Context, id string) (*models.CancellationPolicy, error) {
	if c.policyErr != nil {
		return nil, c.policyErr
	}
	if p, ok := c.policies[id]; ok {
		return &p, nil
	}
	return nil, nil
}

type fakeCellRepo struct {
	cells map[string]*models.RoomDateCell
}

func newFakeCellRepo() *fakeCellRepo {
	return &fakeCellRepo{cells: make(map[string]*models.RoomDateCell)}
}

func (r *fakeCellRepo) add(cell models.RoomDateCell) {
	c := cell
	r.cells[c.ID] = &c
}

func (r *fakeCellRepo) FindActiveByRoomAndDates(_ context.Context, roomID string, dates []string) ([]models.RoomDateCell, error) {
	inDates := make(map[string]bool, len(dates))
	for _, d := range dates {
		inDates[d] = true
	}
	var out []models.RoomDateCell
	for _, c := range r.cells {
		if c.Active && c.RoomID == roomID && inDates[c.Date] {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCellRepo) FindActiveByHolder(_ context.Context, holderRef string) ([]models.RoomDateCell, error) {
	var out []models.RoomDateCell
	for _, c := range r.cells {
		if c.Active && c.HolderRef == holderRef {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCellRepo) InsertCells(_ context.Context, cells []models.RoomDateCell) error {
	for _, incoming := range cells {
		for _, existing := range r.cells {
			if existing.Active && existing.RoomID == incoming.RoomID && existing.Date == incoming.Date {
				return fmt.Errorf("duplicate active cell: %w", models.ErrConflict)
			}
		}
	}
	for _, c := range cells {
		r.add(c)
	}
	return nil
}

func (r *fakeCellRepo) FinalizeByHolder(_ context.Context, holderRef, newHolderRef string, now time.Time) (int64, error) {
	var n int64
	for _, c := range r.cells {
		if c.Active && c.HolderRef == holderRef && c.Status == models.CellStatusBlocked {
			c.Status = models.CellStatusBooked
			c.HolderRef = newHolderRef
			c.ExpiresAt = nil
			c.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (r *fakeCellRepo) ReleaseByHolder(_ context.Context, holderRef string, now time.Time) (int64, error) {
	var n int64
	for _, c := range r.cells {
		if c.Active && c.HolderRef == holderRef && c.Status == models.CellStatusBlocked {
			c.Active = false
			c.ReleasedAt = &now
			n++
		}
	}
	return n, nil
}

func (r *fakeCellRepo) RetireCells(_ context.Context, ids []string, now time.Time) error {
	for _, id := range ids {
		if c, ok := r.cells[id]; ok && c.Active {
			c.Active = false
			c.ReleasedAt = &now
		}
	}
	return nil
}

func (r *fakeCellRepo) EnsureIndexes() error { return nil }

type fakeGateway struct {
	secret string
}

func (g *fakeGateway) CreateIntent(_ context.Context, amount float64, currency, receiptID string) (string, error) {
	return "order_gw_1", nil
}

func (g *fakeGateway) VerifySignature(orderRef, paymentRef, signature string) bool {
	return gateway.VerifySignature(orderRef, paymentRef, signature, g.secret)
}

func (g *fakeGateway) KeyID() string { return "key_test" }

package models

import "time"

// Order statuses. PENDING is the only non-terminal state.
const (
	OrderStatusPending = "PENDING"
	OrderStatusSuccess = "SUCCESS"
	OrderStatusFailed  = "FAILED"
)

// PayerKind tags who originated a checkout. Exactly one identity applies.
type PayerKind string

const (
	PayerUser  PayerKind = "user"
	PayerAgent PayerKind = "agent"
	PayerGuest PayerKind = "guest"
)

// PayerRef is a tagged payer identity. For PayerGuest the ID holds the guest
// email since anonymous guests have no account.
type PayerRef struct {
	Kind PayerKind `bson:"kind" json:"kind"`
	ID   string    `bson:"id" json:"id"`
}

// OrderLineSelection is one room-type line of a provisional reservation.
type OrderLineSelection struct {
	RoomTypeID   string   `bson:"room_type_id" json:"room_type_id"`
	RoomTypeName string   `bson:"room_type_name" json:"room_type_name"`
	RoomIDs      []string `bson:"room_ids" json:"room_ids"`
	Rooms        int      `bson:"rooms" json:"rooms"`
	Guests       int      `bson:"guests" json:"guests"`
	Children     int      `bson:"children" json:"children"`
	Dates        []string `bson:"dates" json:"dates"` // dates to block, "2006-01-02"
	MealPlanID   string   `bson:"meal_plan_id,omitempty" json:"meal_plan_id,omitempty"`
	Price        float64  `bson:"price" json:"price"`
	Tax          float64  `bson:"tax" json:"tax"`
	TotalPrice   float64  `bson:"total_price" json:"total_price"`
}

// Order is a provisional reservation awaiting settlement. It is retained
// after settlement for audit.
type Order struct {
	ID         string    `bson:"id" json:"id"`
	Status     string    `bson:"status" json:"status"`
	PropertyID string    `bson:"property_id" json:"property_id"`
	CheckIn    string    `bson:"check_in" json:"check_in"`
	CheckOut   string    `bson:"check_out" json:"check_out"`
	Guests     int       `bson:"guests" json:"guests"`
	Children   int       `bson:"children" json:"children"`
	GuestName  string    `bson:"guest_name" json:"guest_name"`
	GuestEmail string    `bson:"guest_email" json:"guest_email"`
	GuestPhone string    `bson:"guest_phone" json:"guest_phone"`
	Payer      PayerRef  `bson:"payer" json:"payer"`
	Amount     float64   `bson:"amount" json:"amount"`
	Currency   string    `bson:"currency" json:"currency"`

	GatewayOrderRef   string `bson:"gateway_order_ref" json:"gateway_order_ref"`
	GatewayPaymentRef string `bson:"gateway_payment_ref,omitempty" json:"gateway_payment_ref,omitempty"`
	GatewaySignature  string `bson:"gateway_signature,omitempty" json:"gateway_signature,omitempty"`

	ExpiresAt time.Time            `bson:"expires_at" json:"expires_at"`
	Lines     []OrderLineSelection `bson:"lines" json:"lines"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
}

// Expired reports whether the order's hold lease has lapsed.
func (o Order) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

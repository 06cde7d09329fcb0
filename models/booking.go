package models

import "time"

// PolicyRule is one refund tier of a cancellation policy.
type PolicyRule struct {
	DaysBefore    int     `bson:"days_before" json:"days_before"`
	RefundPercent float64 `bson:"refund_percent" json:"refund_percent"`
	Description   string  `bson:"description,omitempty" json:"description,omitempty"`
}

// PolicySnapshot is the cancellation policy in effect at settlement time,
// copied by value so later edits to the live policy never alter the booking.
type PolicySnapshot struct {
	Name        string       `bson:"name" json:"name"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
	Rules       []PolicyRule `bson:"rules" json:"rules"`
}

// BookingLineSelection mirrors an order line on the settled booking.
type BookingLineSelection struct {
	RoomTypeID   string   `bson:"room_type_id" json:"room_type_id"`
	RoomTypeName string   `bson:"room_type_name" json:"room_type_name"`
	RoomIDs      []string `bson:"room_ids" json:"room_ids"`
	Rooms        int      `bson:"rooms" json:"rooms"`
	Guests       int      `bson:"guests" json:"guests"`
	Children     int      `bson:"children" json:"children"`
	Dates        []string `bson:"dates" json:"dates"`
	MealPlanID   string   `bson:"meal_plan_id,omitempty" json:"meal_plan_id,omitempty"`
	Price        float64  `bson:"price" json:"price"`
	Tax          float64  `bson:"tax" json:"tax"`
	TotalPrice   float64  `bson:"total_price" json:"total_price"`
}

// Booking is the finalized reservation, created exactly once per settled order.
type Booking struct {
	ID            string                 `bson:"id" json:"id"`
	Reference     string                 `bson:"reference" json:"reference"`
	OrderID       string                 `bson:"order_id" json:"order_id"`
	PropertyID    string                 `bson:"property_id" json:"property_id"`
	CheckIn       string                 `bson:"check_in" json:"check_in"`
	CheckOut      string                 `bson:"check_out" json:"check_out"`
	Rooms         int                    `bson:"rooms" json:"rooms"`
	Guests        int                    `bson:"guests" json:"guests"`
	Children      int                    `bson:"children" json:"children"`
	TotalAmount   float64                `bson:"total_amount" json:"total_amount"`
	Currency      string                 `bson:"currency" json:"currency"`
	PaymentStatus string                 `bson:"payment_status" json:"payment_status"`
	Status        string                 `bson:"status" json:"status"`
	Policy        PolicySnapshot         `bson:"policy" json:"policy"`
	Lines         []BookingLineSelection `bson:"lines" json:"lines"`
	CreatedAt     time.Time              `bson:"created_at" json:"created_at"`
}

const (
	BookingStatusConfirmed = "confirmed"
	PaymentStatusPaid      = "paid"
)

package models

import "time"

// PaymentRecord is the idempotency anchor: created exactly once per external
// payment reference, ever. Exactly one of UserID, AgentID and GuestEmail is
// set, matching the order's payer tag.
type PaymentRecord struct {
	ID                string    `bson:"id" json:"id"`
	GatewayPaymentRef string    `bson:"gateway_payment_ref" json:"gateway_payment_ref"`
	GatewayOrderRef   string    `bson:"gateway_order_ref" json:"gateway_order_ref"`
	Amount            float64   `bson:"amount" json:"amount"`
	Currency          string    `bson:"currency" json:"currency"`
	UserID            string    `bson:"user_id,omitempty" json:"user_id,omitempty"`
	AgentID           string    `bson:"agent_id,omitempty" json:"agent_id,omitempty"`
	GuestEmail        string    `bson:"guest_email,omitempty" json:"guest_email,omitempty"`
	BookingID         string    `bson:"booking_id" json:"booking_id"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
}

package models

import "time"

// Wire DTOs for the checkout endpoints.

// BookingDetails carries the stay and guest fields of a checkout request.
type BookingDetails struct {
	PropertyID string `json:"propertyId"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
	Guests     int    `json:"guests"`
	Children   int    `json:"children"`
	GuestName  string `json:"guestName"`
	GuestEmail string `json:"guestEmail"`
	GuestPhone string `json:"guestPhone"`
	GuestID    string `json:"guestId"`
	Role       string `json:"role"` // "user", "agent" or "guest"
}

// RoomSelection is one room-type line of a checkout request.
type RoomSelection struct {
	RoomTypeID   string   `json:"roomTypeId"`
	RoomTypeName string   `json:"roomTypeName"`
	RoomIDs      []string `json:"roomIds"`
	Rooms        int      `json:"rooms"`
	Guests       int      `json:"guests"`
	Children     int      `json:"children"`
	DatesToBlock []string `json:"datesToBlock"`
	MealPlanID   string   `json:"mealPlanId,omitempty"`
	Price        float64  `json:"price"`
	Tax          float64  `json:"tax"`
	TotalPrice   float64  `json:"totalPrice"`
}

// CreateOrderRequest is the body of POST /create-order.
type CreateOrderRequest struct {
	Amount         float64         `json:"amount"`
	Currency       string          `json:"currency"`
	BookingDetails BookingDetails  `json:"bookingDetails"`
	RoomSelections []RoomSelection `json:"roomSelections"`
}

// CreateOrderResponse is returned once holds, the provisional order and the
// gateway intent all exist.
type CreateOrderResponse struct {
	OrderID      string    `json:"orderId"` // gateway order reference, used by the payment widget
	Amount       float64   `json:"amount"`
	Currency     string    `json:"currency"`
	GatewayKey   string    `json:"gatewayKey"`
	DBOrderID    string    `json:"dbOrderId"`
	BlockedRooms int       `json:"blockedRooms"`
	ExpiresAt    time.Time `json:"expiresAt"`
	RequestID    string    `json:"requestId"`
}

// VerifyPaymentRequest is the body of POST /verify-payment.
type VerifyPaymentRequest struct {
	GatewayPaymentID string `json:"gatewayPaymentId"`
	GatewayOrderID   string `json:"gatewayOrderId"`
	Signature        string `json:"signature"`
}

// VerifyPaymentResponse reports the settled booking.
type VerifyPaymentResponse struct {
	PaymentID     string `json:"paymentId"`
	OrderID       string `json:"orderId"`
	BookingID     string `json:"bookingId"`
	BookingNumber string `json:"bookingNumber"`
	RoomsBooked   int    `json:"roomsBooked"`
	RequestID     string `json:"requestId"`
}

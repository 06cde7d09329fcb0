// File: services/order/validate.go
package order

import (
	"fmt"
	"regexp"
	"time"

	"staybook/models"
)

const dateLayout = "2006-01-02"

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidEmail reports whether s looks like an email address. The settlement
// engine re-runs this on stored orders as defense in depth.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func validateRequest(req models.CreateOrderRequest) error {
	d := req.BookingDetails
	if req.Amount <= 0 {
		return fmt.Errorf("amount must be positive: %w", models.ErrValidation)
	}
	if req.Currency == "" {
		return fmt.Errorf("currency is required: %w", models.ErrValidation)
	}
	if d.PropertyID == "" {
		return fmt.Errorf("propertyId is required: %w", models.ErrValidation)
	}
	checkIn, err := time.Parse(dateLayout, d.CheckIn)
	if err != nil {
		return fmt.Errorf("checkIn must be YYYY-MM-DD: %w", models.ErrValidation)
	}
	checkOut, err := time.Parse(dateLayout, d.CheckOut)
	if err != nil {
		return fmt.Errorf("checkOut must be YYYY-MM-DD: %w", models.ErrValidation)
	}
	if !checkOut.After(checkIn) {
		return fmt.Errorf("checkOut must be after checkIn: %w", models.ErrValidation)
	}
	if d.Guests < 1 {
		return fmt.Errorf("guests must be at least 1: %w", models.ErrValidation)
	}
	if d.Children < 0 {
		return fmt.Errorf("children must not be negative: %w", models.ErrValidation)
	}
	if d.GuestName == "" || d.GuestPhone == "" {
		return fmt.Errorf("guest name and phone are required: %w", models.ErrValidation)
	}
	if !ValidEmail(d.GuestEmail) {
		return fmt.Errorf("guest email is malformed: %w", models.ErrValidation)
	}
	if _, err := payerFromDetails(d); err != nil {
		return err
	}

	if len(req.RoomSelections) == 0 {
		return fmt.Errorf("at least one room selection is required: %w", models.ErrValidation)
	}
	for i, sel := range req.RoomSelections {
		if sel.RoomTypeID == "" {
			return fmt.Errorf("selection %d: roomTypeId is required: %w", i, models.ErrValidation)
		}
		if len(sel.RoomIDs) == 0 {
			return fmt.Errorf("selection %d: roomIds must not be empty: %w", i, models.ErrValidation)
		}
		if sel.Rooms != len(sel.RoomIDs) {
			return fmt.Errorf("selection %d: rooms count %d does not match %d room ids: %w",
				i, sel.Rooms, len(sel.RoomIDs), models.ErrValidation)
		}
		if sel.Guests < 1 || sel.Children < 0 {
			return fmt.Errorf("selection %d: invalid guest counts: %w", i, models.ErrValidation)
		}
		if len(sel.DatesToBlock) == 0 {
			return fmt.Errorf("selection %d: datesToBlock must not be empty: %w", i, models.ErrValidation)
		}
		for _, date := range sel.DatesToBlock {
			if _, err := time.Parse(dateLayout, date); err != nil {
				return fmt.Errorf("selection %d: date %q must be YYYY-MM-DD: %w", i, date, models.ErrValidation)
			}
		}
		if sel.Price < 0 || sel.Tax < 0 || sel.TotalPrice < 0 {
			return fmt.Errorf("selection %d: pricing fields must not be negative: %w", i, models.ErrValidation)
		}
	}
	return nil
}

// payerFromDetails maps the request's role onto the tagged payer identity.
// Guests are identified by email; users and agents by their account id.
func payerFromDetails(d models.BookingDetails) (models.PayerRef, error) {
	switch models.PayerKind(d.Role) {
	case models.PayerUser, models.PayerAgent:
		if d.GuestID == "" {
			return models.PayerRef{}, fmt.Errorf("guestId is required for role %q: %w", d.Role, models.ErrValidation)
		}
		return models.PayerRef{Kind: models.PayerKind(d.Role), ID: d.GuestID}, nil
	case models.PayerGuest:
		return models.PayerRef{Kind: models.PayerGuest, ID: d.GuestEmail}, nil
	default:
		return models.PayerRef{}, fmt.Errorf("role %q is not one of user, agent, guest: %w", d.Role, models.ErrValidation)
	}
}

package models

import "errors"

// Engine error taxonomy. Handlers map these onto HTTP statuses; services wrap
// them with fmt.Errorf("...: %w", Err...) to add detail.
var (
	// ErrValidation covers malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound covers missing properties, rooms, meal plans and orders.
	ErrNotFound = errors.New("not found")
	// ErrConflict covers unavailable rooms and expired holds.
	ErrConflict = errors.New("conflict")
	// ErrAmountMismatch is tamper detection on client-supplied totals.
	ErrAmountMismatch = errors.New("amount mismatch")
	// ErrGateway covers payment-provider failures; always rolls back.
	ErrGateway = errors.New("payment gateway failure")
	// ErrSignatureMismatch is terminal for the order being verified.
	ErrSignatureMismatch = errors.New("signature mismatch")
	// ErrInternalInvariant signals a broken engine invariant, e.g. a
	// signature-verified order with no holds left to finalize.
	ErrInternalInvariant = errors.New("internal invariant violation")
)

package models

import "time"

// Cell statuses. Availability is implicit: a (room, date) pair with no active
// cell is available.
const (
	CellStatusBlocked     = "blocked"
	CellStatusBooked      = "booked"
	CellStatusMaintenance = "maintenance"
)

// RoomDateCell is the unit of contention: one room, one calendar date, one
// status. At most one active cell may exist per (room, date); releasing a
// hold retires the cell instead of deleting it so a fresh one can be created
// later.
type RoomDateCell struct {
	ID         string     `bson:"id" json:"id"`
	RoomID     string     `bson:"room_id" json:"room_id"`
	RoomTypeID string     `bson:"room_type_id" json:"room_type_id"`
	PropertyID string     `bson:"property_id" json:"property_id"`
	Date       string     `bson:"date" json:"date"` // "2006-01-02"
	Status     string     `bson:"status" json:"status"`
	HolderRef  string     `bson:"holder_ref" json:"holder_ref"` // order id until finalized, then booking id
	ExpiresAt  *time.Time `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	Reason     string     `bson:"reason,omitempty" json:"reason,omitempty"`
	Active     bool       `bson:"active" json:"active"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
	ReleasedAt *time.Time `bson:"released_at,omitempty" json:"released_at,omitempty"`
}

// Conflicting reports whether the cell blocks a new hold at the given
// instant. An expired blocked cell is logically available even if it was
// never explicitly released.
func (c RoomDateCell) Conflicting(now time.Time) bool {
	if !c.Active {
		return false
	}
	switch c.Status {
	case CellStatusBooked, CellStatusMaintenance:
		return true
	case CellStatusBlocked:
		return c.ExpiresAt == nil || c.ExpiresAt.After(now)
	default:
		return false
	}
}

package order

import (
	"context"
	"fmt"
	"time"

	"staybook/models"
)

// fakeCellRepo is an in-memory CellRepository mirroring the partial unique
// index on active (room, date) pairs.
type fakeCellRepo struct {
	cells map[string]*models.RoomDateCell
}

func newFakeCellRepo() *fakeCellRepo {
	return &fakeCellRepo{cells: make(map[string]*models.RoomDateCell)}
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
		cp := c
		r.cells[cp.ID] = &cp
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

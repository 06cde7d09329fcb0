package inventory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"staybook/models"
	"staybook/utils"

	"go.uber.org/zap"
)

// fakeCellRepo is an in-memory CellRepository. hiddenFromFind simulates the
// write-skew race where a concurrent insert lands between the conflict check
// and our own insert; the storage-level unique constraint still rejects it.
type fakeCellRepo struct {
	cells          map[string]*models.RoomDateCell
	hiddenFromFind map[string]bool
}

func newFakeCellRepo() *fakeCellRepo {
	return &fakeCellRepo{
		cells:          make(map[string]*models.RoomDateCell),
		hiddenFromFind: make(map[string]bool),
	}
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
		if c.Active && c.RoomID == roomID && inDates[c.Date] && !r.hiddenFromFind[c.ID] {
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

func TestHoldManager_CreateHold(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	lease := 30 * time.Minute
	room := models.Room{ID: "room-1", RoomTypeID: "rt-1", PropertyID: "prop-1", Active: true}
	dates := []string{"2026-03-15", "2026-03-16"}

	makeManager := func(repo *fakeCellRepo) *DefaultHoldManager {
		return &DefaultHoldManager{
			Repo:   repo,
			Clock:  utils.FixedClock(now),
			Logger: zap.NewNop(),
			Lease:  lease,
		}
	}

	t.Run("blocks every date with the lease expiry", func(t *testing.T) {
		repo := newFakeCellRepo()
		m := makeManager(repo)

		if err := m.CreateHold(context.Background(), room, dates, "order-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(repo.cells) != 2 {
			t.Fatalf("expected 2 cells, got %d", len(repo.cells))
		}
		for _, c := range repo.cells {
			if c.Status != models.CellStatusBlocked {
				t.Fatalf("expected status blocked, got %s", c.Status)
			}
			if c.HolderRef != "order-1" {
				t.Fatalf("expected holder order-1, got %s", c.HolderRef)
			}
			if c.ExpiresAt == nil || !c.ExpiresAt.Equal(now.Add(lease)) {
				t.Fatalf("expected expiry %v, got %v", now.Add(lease), c.ExpiresAt)
			}
		}
	})

	t.Run("rejects a date held by another order", func(t *testing.T) {
		repo := newFakeCellRepo()
		future := now.Add(10 * time.Minute)
		repo.add(models.RoomDateCell{
			ID: "c1", RoomID: room.ID, Date: dates[0],
			Status: models.CellStatusBlocked, HolderRef: "order-0",
			ExpiresAt: &future, Active: true,
		})
		m := makeManager(repo)

		err := m.CreateHold(context.Background(), room, dates, "order-1")
		if !errors.Is(err, models.ErrConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
		if len(repo.cells) != 1 {
			t.Fatalf("no cells should be added on conflict, got %d", len(repo.cells))
		}
	})

	t.Run("booked cells conflict regardless of expiry", func(t *testing.T) {
		repo := newFakeCellRepo()
		repo.add(models.RoomDateCell{
			ID: "c1", RoomID: room.ID, Date: dates[1],
			Status: models.CellStatusBooked, HolderRef: "booking-9", Active: true,
		})
		m := makeManager(repo)

		if err := m.CreateHold(context.Background(), room, dates, "order-1"); !errors.Is(err, models.ErrConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("treats an expired blocked cell as available and retires it", func(t *testing.T) {
		repo := newFakeCellRepo()
		past := now.Add(-time.Minute)
		repo.add(models.RoomDateCell{
			ID: "stale", RoomID: room.ID, Date: dates[0],
			Status: models.CellStatusBlocked, HolderRef: "order-0",
			ExpiresAt: &past, Active: true,
		})
		m := makeManager(repo)

		if err := m.CreateHold(context.Background(), room, dates, "order-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if repo.cells["stale"].Active {
			t.Fatalf("expected stale cell to be retired")
		}
		fresh, _ := repo.FindActiveByHolder(context.Background(), "order-1")
		if len(fresh) != 2 {
			t.Fatalf("expected 2 fresh cells, got %d", len(fresh))
		}
	})

	t.Run("storage constraint rejects the concurrent duplicate", func(t *testing.T) {
		repo := newFakeCellRepo()
		future := now.Add(10 * time.Minute)
		repo.add(models.RoomDateCell{
			ID: "racing", RoomID: room.ID, Date: dates[0],
			Status: models.CellStatusBlocked, HolderRef: "order-2",
			ExpiresAt: &future, Active: true,
		})
		repo.hiddenFromFind["racing"] = true
		m := makeManager(repo)

		if err := m.CreateHold(context.Background(), room, dates, "order-1"); !errors.Is(err, models.ErrConflict) {
			t.Fatalf("expected conflict from unique constraint, got %v", err)
		}
	})
}

func TestHoldManager_FinalizeAndRelease(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	future := now.Add(20 * time.Minute)

	seed := func() *fakeCellRepo {
		repo := newFakeCellRepo()
		for i, date := range []string{"2026-03-15", "2026-03-16"} {
			repo.add(models.RoomDateCell{
				ID: fmt.Sprintf("c%d", i), RoomID: "room-1", Date: date,
				Status: models.CellStatusBlocked, HolderRef: "order-1",
				ExpiresAt: &future, Active: true,
			})
		}
		return repo
	}

	makeManager := func(repo *fakeCellRepo) *DefaultHoldManager {
		return &DefaultHoldManager{
			Repo:   repo,
			Clock:  utils.FixedClock(now),
			Logger: zap.NewNop(),
			Lease:  30 * time.Minute,
		}
	}

	t.Run("finalize flips blocked cells to booked under the booking", func(t *testing.T) {
		repo := seed()
		m := makeManager(repo)

		n, err := m.FinalizeHold(context.Background(), "order-1", "booking-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if n != 2 {
			t.Fatalf("expected 2 cells finalized, got %d", n)
		}
		for _, c := range repo.cells {
			if c.Status != models.CellStatusBooked || c.HolderRef != "booking-1" {
				t.Fatalf("cell not finalized: %+v", c)
			}
			if c.ExpiresAt != nil {
				t.Fatalf("expected expiry cleared")
			}
		}
	})

	t.Run("finalize with no holds is an invariant violation", func(t *testing.T) {
		repo := newFakeCellRepo()
		m := makeManager(repo)

		if _, err := m.FinalizeHold(context.Background(), "order-1", "booking-1"); !errors.Is(err, models.ErrInternalInvariant) {
			t.Fatalf("expected invariant error, got %v", err)
		}
	})

	t.Run("release retires the order's blocked cells", func(t *testing.T) {
		repo := seed()
		m := makeManager(repo)

		n, err := m.ReleaseHold(context.Background(), "order-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if n != 2 {
			t.Fatalf("expected 2 cells released, got %d", n)
		}
		active, _ := repo.FindActiveByHolder(context.Background(), "order-1")
		if len(active) != 0 {
			t.Fatalf("expected no active cells, got %d", len(active))
		}
	})
}

// File: services/inventory/manager.go
package inventory

import (
	"context"
	"fmt"
	"time"

	cellRepo "staybook/database/repository/inventory"
	"staybook/models"
	"staybook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HoldManager owns the shared per-room-per-date availability cell. It is the
// only component that mutates RoomDateCells.
type HoldManager interface {
	// CreateHold blocks the full date set of one room for holderRef. Callers
	// holding several rooms invoke it once per room inside one transaction so
	// a single conflict aborts the whole batch.
	CreateHold(ctx context.Context, room models.Room, dates []string, holderRef string) error
	// FinalizeHold flips all active blocked cells owned by holderRef to
	// booked cells owned by newHolderRef and clears their lease.
	FinalizeHold(ctx context.Context, holderRef, newHolderRef string) (int, error)
	// ReleaseHold retires all active blocked cells owned by holderRef,
	// restoring implicit availability.
	ReleaseHold(ctx context.Context, holderRef string) (int, error)
	// ActiveHoldCount reports how many active blocked cells holderRef owns.
	ActiveHoldCount(ctx context.Context, holderRef string) (int, error)
}

// DefaultHoldManager implements HoldManager.
type DefaultHoldManager struct {
	Repo   cellRepo.CellRepository
	Clock  utils.Clock
	Logger *zap.Logger
	Lease  time.Duration
}

func (m *DefaultHoldManager) CreateHold(ctx context.Context, room models.Room, dates []string, holderRef string) error {
	now := m.Clock.Now()

	existing, err := m.Repo.FindActiveByRoomAndDates(ctx, room.ID, dates)
	if err != nil {
		return fmt.Errorf("conflict check failed for room %s: %w", room.ID, err)
	}

	// An expired blocked cell that was never released is logically available;
	// retire it so the partial unique index accepts the fresh cell.
	var stale []string
	for _, cell := range existing {
		if cell.Conflicting(now) {
			return fmt.Errorf("room %s is unavailable on %s: %w", room.ID, cell.Date, models.ErrConflict)
		}
		if cell.Status == models.CellStatusBlocked {
			stale = append(stale, cell.ID)
		}
	}
	if err := m.Repo.RetireCells(ctx, stale, now); err != nil {
		return err
	}

	expiry := now.Add(m.Lease)
	cells := make([]models.RoomDateCell, len(dates))
	for i, date := range dates {
		cells[i] = models.RoomDateCell{
			ID:         uuid.New().String(),
			RoomID:     room.ID,
			RoomTypeID: room.RoomTypeID,
			PropertyID: room.PropertyID,
			Date:       date,
			Status:     models.CellStatusBlocked,
			HolderRef:  holderRef,
			ExpiresAt:  &expiry,
			Reason:     "checkout hold",
			Active:     true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}
	if err := m.Repo.InsertCells(ctx, cells); err != nil {
		return err
	}

	m.Logger.Debug("hold created",
		zap.String("roomId", room.ID),
		zap.String("holderRef", holderRef),
		zap.Int("dates", len(dates)),
		zap.Time("expiresAt", expiry))
	return nil
}

func (m *DefaultHoldManager) FinalizeHold(ctx context.Context, holderRef, newHolderRef string) (int, error) {
	now := m.Clock.Now()
	modified, err := m.Repo.FinalizeByHolder(ctx, holderRef, newHolderRef, now)
	if err != nil {
		return 0, err
	}
	if modified == 0 {
		// A finalize must always have holds to convert.
		return 0, fmt.Errorf("no active holds found for %s: %w", holderRef, models.ErrInternalInvariant)
	}

	m.Logger.Info("holds finalized",
		zap.String("holderRef", holderRef),
		zap.String("newHolderRef", newHolderRef),
		zap.Int64("cells", modified))
	return int(modified), nil
}

func (m *DefaultHoldManager) ActiveHoldCount(ctx context.Context, holderRef string) (int, error) {
	cells, err := m.Repo.FindActiveByHolder(ctx, holderRef)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, cell := range cells {
		if cell.Status == models.CellStatusBlocked {
			count++
		}
	}
	return count, nil
}

func (m *DefaultHoldManager) ReleaseHold(ctx context.Context, holderRef string) (int, error) {
	now := m.Clock.Now()
	modified, err := m.Repo.ReleaseByHolder(ctx, holderRef, now)
	if err != nil {
		return 0, err
	}

	m.Logger.Info("holds released",
		zap.String("holderRef", holderRef),
		zap.Int64("cells", modified))
	return int(modified), nil
}

// File: services/order/ledger.go
package order

import (
	"context"
	"fmt"
	"time"

	"staybook/database"
	catalogRepo "staybook/database/repository/catalog"
	orderRepo "staybook/database/repository/order"
	"staybook/models"
	"staybook/services/gateway"
	"staybook/services/inventory"
	"staybook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Result is what a successful checkout returns to the client.
type Result struct {
	OrderID         string
	GatewayOrderRef string
	GatewayKey      string
	Amount          float64
	Currency        string
	BlockedRooms    int
	ExpiresAt       time.Time
}

// LedgerService builds a priced, provisional order from a checkout request.
type LedgerService interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*Result, error)
}

// DefaultLedgerService implements LedgerService. All of CreateOrder runs in
// one transaction: a conflict, catalog miss or gateway failure at any step
// leaves zero holds and zero order rows behind.
type DefaultLedgerService struct {
	Orders  orderRepo.OrderRepository
	Catalog catalogRepo.CatalogRepository
	Holds   inventory.HoldManager
	Gateway gateway.Adapter
	Tx      database.TxRunner
	Clock   utils.Clock
	Logger  *zap.Logger
	Lease   time.Duration
}

func (s *DefaultLedgerService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	total, err := reprice(req)
	if err != nil {
		return nil, err
	}
	payer, err := payerFromDetails(req.BookingDetails)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	orderID := uuid.New().String()
	expiry := now.Add(s.Lease)

	var result *Result
	err = s.Tx.WithTx(ctx, func(txCtx context.Context) error {
		rooms, err := s.checkCatalog(txCtx, req)
		if err != nil {
			return err
		}

		// One hold call per room across all its dates; a conflict on any
		// room aborts the transaction and with it every staged cell.
		blocked := 0
		for _, sel := range req.RoomSelections {
			for _, roomID := range sel.RoomIDs {
				if err := s.Holds.CreateHold(txCtx, rooms[roomID], sel.DatesToBlock, orderID); err != nil {
					return err
				}
				blocked++
			}
		}

		gatewayRef, err := s.Gateway.CreateIntent(txCtx, total, req.Currency, orderID)
		if err != nil {
			return err
		}

		o := buildOrder(req, payer, orderID, gatewayRef, total, now, expiry)
		if err := s.Orders.Insert(txCtx, o); err != nil {
			return err
		}

		result = &Result{
			OrderID:         orderID,
			GatewayOrderRef: gatewayRef,
			GatewayKey:      s.Gateway.KeyID(),
			Amount:          total,
			Currency:        req.Currency,
			BlockedRooms:    blocked,
			ExpiresAt:       expiry,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("order created",
		zap.String("orderId", result.OrderID),
		zap.String("gatewayOrderRef", result.GatewayOrderRef),
		zap.Int("blockedRooms", result.BlockedRooms),
		zap.Float64("amount", result.Amount))
	return result, nil
}

// checkCatalog verifies that every referenced property, room type, meal plan
// and room exists, is active and belongs where the request says it does.
// Returns the resolved rooms keyed by id for hold creation.
func (s *DefaultLedgerService) checkCatalog(ctx context.Context, req models.CreateOrderRequest) (map[string]models.Room, error) {
	propertyID := req.BookingDetails.PropertyID
	property, err := s.Catalog.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil || !property.Active {
		return nil, fmt.Errorf("property %s: %w", propertyID, models.ErrNotFound)
	}

	rooms := make(map[string]models.Room)
	for _, sel := range req.RoomSelections {
		roomType, err := s.Catalog.GetRoomType(ctx, sel.RoomTypeID)
		if err != nil {
			return nil, err
		}
		if roomType == nil || !roomType.Active || roomType.PropertyID != propertyID {
			return nil, fmt.Errorf("room type %s: %w", sel.RoomTypeID, models.ErrNotFound)
		}

		if sel.MealPlanID != "" {
			plan, err := s.Catalog.GetMealPlan(ctx, sel.MealPlanID)
			if err != nil {
				return nil, err
			}
			if plan == nil || !plan.Active || plan.PropertyID != propertyID {
				return nil, fmt.Errorf("meal plan %s: %w", sel.MealPlanID, models.ErrNotFound)
			}
		}

		found, err := s.Catalog.GetRoomsByIDs(ctx, sel.RoomIDs)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]models.Room, len(found))
		for _, room := range found {
			byID[room.ID] = room
		}
		for _, roomID := range sel.RoomIDs {
			room, ok := byID[roomID]
			if !ok || !room.Active || room.RoomTypeID != sel.RoomTypeID || room.PropertyID != propertyID {
				return nil, fmt.Errorf("room %s: %w", roomID, models.ErrNotFound)
			}
			rooms[roomID] = room
		}
	}
	return rooms, nil
}

func buildOrder(req models.CreateOrderRequest, payer models.PayerRef, orderID, gatewayRef string, total float64, now, expiry time.Time) models.Order {
	d := req.BookingDetails
	lines := make([]models.OrderLineSelection, len(req.RoomSelections))
	for i, sel := range req.RoomSelections {
		lines[i] = models.OrderLineSelection{
			RoomTypeID:   sel.RoomTypeID,
			RoomTypeName: sel.RoomTypeName,
			RoomIDs:      sel.RoomIDs,
			Rooms:        sel.Rooms,
			Guests:       sel.Guests,
			Children:     sel.Children,
			Dates:        sel.DatesToBlock,
			MealPlanID:   sel.MealPlanID,
			Price:        sel.Price,
			Tax:          sel.Tax,
			TotalPrice:   sel.Price + sel.Tax,
		}
	}
	return models.Order{
		ID:              orderID,
		Status:          models.OrderStatusPending,
		PropertyID:      d.PropertyID,
		CheckIn:         d.CheckIn,
		CheckOut:        d.CheckOut,
		Guests:          d.Guests,
		Children:        d.Children,
		GuestName:       d.GuestName,
		GuestEmail:      d.GuestEmail,
		GuestPhone:      d.GuestPhone,
		Payer:           payer,
		Amount:          total,
		Currency:        req.Currency,
		GatewayOrderRef: gatewayRef,
		ExpiresAt:       expiry,
		Lines:           lines,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

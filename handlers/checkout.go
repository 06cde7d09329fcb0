package handlers

import (
	"net/http"

	"staybook/models"
	"staybook/services/order"
	"staybook/services/settlement"
	"staybook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckoutHandler exposes the reservation engine over HTTP.
type CheckoutHandler struct {
	Ledger order.LedgerService
	Engine settlement.Engine
	Logger *zap.Logger
}

// NewCheckoutHandler constructs a CheckoutHandler.
func NewCheckoutHandler(ledger order.LedgerService, engine settlement.Engine, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{Ledger: ledger, Engine: engine, Logger: logger}
}

// CreateOrder handles POST /api/checkout/create-order.
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Ledger.CreateOrder(c.Request.Context(), req)
	if err != nil {
		status, message := httpStatusFor(err)
		utils.JSONError(c, status, message, err.Error())
		return
	}

	c.JSON(http.StatusCreated, models.CreateOrderResponse{
		OrderID:      result.GatewayOrderRef,
		Amount:       result.Amount,
		Currency:     result.Currency,
		GatewayKey:   result.GatewayKey,
		DBOrderID:    result.OrderID,
		BlockedRooms: result.BlockedRooms,
		ExpiresAt:    result.ExpiresAt,
		RequestID:    utils.RequestID(c),
	})
}

// VerifyPayment handles POST /api/checkout/verify-payment.
func (h *CheckoutHandler) VerifyPayment(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if req.GatewayPaymentID == "" || req.GatewayOrderID == "" || req.Signature == "" {
		utils.JSONError(c, http.StatusBadRequest, "validation failed",
			"gatewayPaymentId, gatewayOrderId and signature are required")
		return
	}

	result, err := h.Engine.Verify(c.Request.Context(), req.GatewayOrderID, req.GatewayPaymentID, req.Signature)
	if err != nil {
		status, message := httpStatusFor(err)
		utils.JSONError(c, status, message, err.Error())
		return
	}

	c.JSON(http.StatusOK, models.VerifyPaymentResponse{
		PaymentID:     result.PaymentID,
		OrderID:       result.OrderID,
		BookingID:     result.BookingID,
		BookingNumber: result.BookingReference,
		RoomsBooked:   result.RoomsBooked,
		RequestID:     utils.RequestID(c),
	})
}

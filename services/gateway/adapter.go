// File: services/gateway/adapter.go
package gateway

import (
	"context"
	"fmt"
	"math"

	"staybook/models"

	razorpay "github.com/razorpay/razorpay-go"
)

// Adapter is the boundary to the external payment provider. The engine only
// ever creates intents and verifies callback signatures; everything else
// about the provider is opaque.
type Adapter interface {
	// CreateIntent registers the amount with the provider and returns the
	// provider's order reference.
	CreateIntent(ctx context.Context, amount float64, currency, receiptID string) (string, error)
	// VerifySignature checks a payment callback signature.
	VerifySignature(gatewayOrderRef, gatewayPaymentRef, signature string) bool
	// KeyID is the public key handed to the client-side payment widget.
	KeyID() string
}

// RazorpayAdapter implements Adapter over the Razorpay order API.
type RazorpayAdapter struct {
	client *razorpay.Client
	keyID  string
	secret string
}

// NewRazorpayAdapter builds an adapter from gateway credentials.
func NewRazorpayAdapter(keyID, secret string) *RazorpayAdapter {
	return &RazorpayAdapter{
		client: razorpay.NewClient(keyID, secret),
		keyID:  keyID,
		secret: secret,
	}
}

func (a *RazorpayAdapter) CreateIntent(ctx context.Context, amount float64, currency, receiptID string) (string, error) {
	// The provider wants the amount in minor units.
	data := map[string]interface{}{
		"amount":   int64(math.Round(amount * 100)),
		"currency": currency,
		"receipt":  receiptID,
	}
	body, err := a.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("gateway order create failed: %w", models.ErrGateway)
	}
	ref, ok := body["id"].(string)
	if !ok || ref == "" {
		return "", fmt.Errorf("gateway returned no order id: %w", models.ErrGateway)
	}
	return ref, nil
}

func (a *RazorpayAdapter) VerifySignature(gatewayOrderRef, gatewayPaymentRef, signature string) bool {
	return VerifySignature(gatewayOrderRef, gatewayPaymentRef, signature, a.secret)
}

func (a *RazorpayAdapter) KeyID() string {
	return a.keyID
}

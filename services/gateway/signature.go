// File: services/gateway/signature.go
package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign computes the callback signature the provider attaches to a payment:
// hex(HMAC-SHA256(orderRef + "|" + paymentRef, secret)).
func Sign(gatewayOrderRef, gatewayPaymentRef, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderRef + "|" + gatewayPaymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the signature and compares in constant time.
func VerifySignature(gatewayOrderRef, gatewayPaymentRef, signature, secret string) bool {
	expected := Sign(gatewayOrderRef, gatewayPaymentRef, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

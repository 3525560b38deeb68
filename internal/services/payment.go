package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// PaymentVerifier checks the authenticity of payment-gateway callbacks.
// It is stateless; the same inputs always yield the same answer.
type PaymentVerifier struct {
	secret string
}

// NewPaymentVerifier creates a verifier for the given shared secret. An
// empty secret means the gateway is not configured and every callback
// is rejected.
func NewPaymentVerifier(sharedSecret string) *PaymentVerifier {
	return &PaymentVerifier{secret: sharedSecret}
}

// Configured reports whether a shared secret is present.
func (v *PaymentVerifier) Configured() bool {
	return v.secret != ""
}

// Verify recomputes the HMAC-SHA256 of "orderID|paymentID" under the
// shared secret and compares it to the callback signature in constant
// time. Never returns an error; a missing secret rejects the callback.
func (v *PaymentVerifier) Verify(orderID, paymentID, signature string) bool {
	if v.secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

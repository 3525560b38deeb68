package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	v := NewPaymentVerifier("topsecret")
	sig := signPayload("topsecret", "order_1", "pay_1")

	if !v.Verify("order_1", "pay_1", sig) {
		t.Fatalf("valid signature rejected")
	}
	// Same inputs, same answer.
	if !v.Verify("order_1", "pay_1", sig) {
		t.Fatalf("verifier not deterministic")
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	v := NewPaymentVerifier("topsecret")
	sig := signPayload("topsecret", "order_1", "pay_1")

	// Flip one hex character.
	b := []byte(sig)
	if b[0] == 'a' {
		b[0] = 'b'
	} else {
		b[0] = 'a'
	}
	if v.Verify("order_1", "pay_1", string(b)) {
		t.Fatalf("tampered signature accepted")
	}
}

func TestVerifyRejectsWrongOrder(t *testing.T) {
	v := NewPaymentVerifier("topsecret")
	sig := signPayload("topsecret", "order_1", "pay_1")

	if v.Verify("order_2", "pay_1", sig) {
		t.Fatalf("signature accepted for different order")
	}
	if v.Verify("order_1", "pay_2", sig) {
		t.Fatalf("signature accepted for different payment")
	}
}

func TestVerifyUnconfiguredGateway(t *testing.T) {
	v := NewPaymentVerifier("")
	if v.Configured() {
		t.Fatalf("empty secret reported as configured")
	}
	sig := signPayload("", "order_1", "pay_1")
	if v.Verify("order_1", "pay_1", sig) {
		t.Fatalf("unconfigured gateway accepted a callback")
	}
}

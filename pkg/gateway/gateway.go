// Package gateway wraps the payment provider behind a small contract so
// the reconciler can be exercised against fakes in tests.
package gateway

import (
	"context"
	"errors"
	"time"
)

// ErrVerificationFailed covers both an explicit non-success verdict from
// the gateway and transport errors (timeout, network). Either way no
// state has been mutated and the reference is safe to retry.
var ErrVerificationFailed = errors.New("payment verification failed")

// VerificationResult is the gateway's answer for one payment reference.
type VerificationResult struct {
	Reference   string
	Success     bool
	GrossAmount string
	PaidAt      *time.Time
	// RawPayload is the verification response as received, stored on the
	// order for audit.
	RawPayload []byte
}

type PaymentGateway interface {
	// VerifyPayment asks the gateway for the authoritative status of a
	// reference. Read-only on the gateway side, safe to repeat.
	VerifyPayment(ctx context.Context, reference string) (*VerificationResult, error)

	// VerifyWebhookSignature checks the HMAC signature of a raw webhook
	// payload before any of it is trusted.
	VerifyWebhookSignature(rawPayload []byte, signature string) bool
}

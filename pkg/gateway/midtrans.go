package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
)

const settlementTimeLayout = "2006-01-02 15:04:05"

type paymentVerdict int

const (
	verdictPaid paymentVerdict = iota
	verdictPending
	verdictFailed
)

// classifyStatus maps a Midtrans transaction status onto the three
// outcomes the reconciler distinguishes. Unknown statuses count as
// failed so they surface as errors instead of passing silently.
func classifyStatus(status string) paymentVerdict {
	switch status {
	case "capture", "settlement":
		return verdictPaid
	case "pending", "authorize":
		return verdictPending
	default:
		return verdictFailed
	}
}

// MidtransGateway verifies references against the Midtrans core API and
// validates webhook payloads with an HMAC-SHA512 over the raw body.
type MidtransGateway struct {
	client        coreapi.Client
	webhookSecret []byte
}

func NewMidtransGateway(serverKey, webhookSecret string, isProduction bool, timeout time.Duration) *MidtransGateway {
	env := midtrans.Sandbox
	if isProduction {
		env = midtrans.Production
	}

	var client coreapi.Client
	client.New(serverKey, env)
	// Bounded timeout: a hung verification call must surface as a
	// retryable failure, not block the reconciler.
	client.HttpClient = &midtrans.HttpClientImplementation{
		HttpClient: &http.Client{Timeout: timeout},
	}

	return &MidtransGateway{
		client:        client,
		webhookSecret: []byte(webhookSecret),
	}
}

func (g *MidtransGateway) VerifyPayment(ctx context.Context, reference string) (*VerificationResult, error) {
	resp, midErr := g.client.CheckTransaction(reference)
	if midErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, midErr.GetMessage())
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response for %s", ErrVerificationFailed, reference)
	}

	result := &VerificationResult{
		Reference:   resp.OrderID,
		GrossAmount: resp.GrossAmount,
	}
	if raw, err := json.Marshal(resp); err == nil {
		result.RawPayload = raw
	}

	switch classifyStatus(resp.TransactionStatus) {
	case verdictPaid:
		result.Success = true
	case verdictPending:
		// Not an error: the reference simply has nothing to settle yet.
		result.Success = false
	default:
		return nil, fmt.Errorf("%w: status %q for %s", ErrVerificationFailed, resp.TransactionStatus, reference)
	}

	if resp.SettlementTime != "" {
		if t, err := time.Parse(settlementTimeLayout, resp.SettlementTime); err == nil {
			result.PaidAt = &t
		}
	}

	return result, nil
}

// VerifyWebhookSignature compares hex(HMAC-SHA512(secret, rawPayload))
// against the presented signature in constant time.
func (g *MidtransGateway) VerifyWebhookSignature(rawPayload []byte, signature string) bool {
	mac := hmac.New(sha512.New, g.webhookSecret)
	mac.Write(rawPayload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

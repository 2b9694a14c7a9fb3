package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Booking DTOs ---

type CreateBookingRequest struct {
	ServiceListingId uuid.UUID `json:"service_listing_id" validate:"required"`
	Date             string    `json:"date" validate:"required,datetime=2006-01-02"`
	StartMinute      int       `json:"start_minute" validate:"min=0,max=1439"`
	EndMinute        int       `json:"end_minute" validate:"required,min=1,max=1440"`
}

type BookingResponse struct {
	Id          uuid.UUID `json:"id"`
	ProviderId  uuid.UUID `json:"provider_id"`
	Date        string    `json:"date"`
	StartMinute int       `json:"start_minute"`
	EndMinute   int       `json:"end_minute"`
	Status      string    `json:"status"`
}

// --- Checkout / Payment DTOs ---

type CheckoutItemRequest struct {
	ProductId uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type CheckoutRequest struct {
	Items     []CheckoutItemRequest `json:"items" validate:"required,min=1,dive"`
	FirstName string                `json:"first_name" validate:"required"`
	LastName  string                `json:"last_name"`
	Email     string                `json:"email" validate:"required,email"`
	Phone     string                `json:"phone" validate:"omitempty"`
}

type CheckoutResponse struct {
	OrderId          uuid.UUID `json:"order_id"`
	PaymentReference string    `json:"payment_reference"`
	SnapRedirectUrl  string    `json:"snap_redirect_url"`
	SnapToken        string    `json:"snap_token"`
}

type MidtransWebhookRequest struct {
	TransactionStatus string `json:"transaction_status"`
	OrderId           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
	SignatureKey      string `json:"signature_key"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
}

type ReconcileResponse struct {
	Reference string `json:"reference"`
	Applied   bool   `json:"applied"`
	Status    string `json:"status"`
}

// --- Order DTOs ---

type AdvanceSubOrderRequest struct {
	Status string `json:"status" validate:"required,oneof=processing shipped delivered cancelled"`
}

type SubOrderResponse struct {
	Id       uuid.UUID `json:"id"`
	OrderId  uuid.UUID `json:"order_id"`
	VendorId uuid.UUID `json:"vendor_id"`
	Status   string    `json:"status"`
}

type OrderResponse struct {
	Id               uuid.UUID          `json:"id"`
	PaymentReference string             `json:"payment_reference"`
	PaymentStatus    string             `json:"payment_status"`
	Status           string             `json:"status"`
	GrossAmount      int64              `json:"gross_amount"`
	PaidAt           *time.Time         `json:"paid_at,omitempty"`
	SubOrders        []SubOrderResponse `json:"sub_orders,omitempty"`
}

// --- Subscription / Sweep DTOs ---

type SubscriptionResponse struct {
	Id          uuid.UUID  `json:"id"`
	VendorId    uuid.UUID  `json:"vendor_id"`
	Status      string     `json:"status"`
	ExpiresAt   time.Time  `json:"expires_at"`
	SuspendedAt *time.Time `json:"suspended_at,omitempty"`
}

// SubscriptionStatusResponse is the vendor-facing lifecycle view. Phase
// is derived from the expiry clock: active, grace, or expired.
type SubscriptionStatusResponse struct {
	Id              uuid.UUID  `json:"id"`
	Status          string     `json:"status"`
	Phase           string     `json:"phase"`
	ExpiresAt       time.Time  `json:"expires_at"`
	SuspendedAt     *time.Time `json:"suspended_at,omitempty"`
	DaysUntilExpiry int        `json:"days_until_expiry"`
}

type RenewSubscriptionRequest struct {
	PeriodDays int `json:"period_days" validate:"omitempty,min=1,max=366"`
}

type SweepReportResponse struct {
	Warned7Day           int `json:"warned_7_day"`
	Warned3Day           int `json:"warned_3_day"`
	Suspended            int `json:"suspended"`
	Deleted              int `json:"deleted"`
	StaleSignupsCleaned  int `json:"stale_signups_cleaned"`
	SubscriptionsScanned int `json:"subscriptions_scanned"`
}

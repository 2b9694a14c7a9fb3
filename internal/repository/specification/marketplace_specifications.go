package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendorOwnedBy filters vendor-scoped rows.
type VendorOwnedBy struct {
	VendorID uuid.UUID
}

func (s VendorOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("vendor_id = ?", s.VendorID)
}

// ByPaymentReference filters orders by the gateway-assigned reference.
type ByPaymentReference struct {
	Reference string
}

func (s ByPaymentReference) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("payment_reference = ?", s.Reference)
}

// StatusNot excludes rows in the given status.
type StatusNot struct {
	Status string
}

func (s StatusNot) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status <> ?", s.Status)
}

// ProviderOnDay scopes bookings to one provider and calendar day.
type ProviderOnDay struct {
	ProviderID uuid.UUID
	Day        time.Time
}

func (s ProviderOnDay) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("provider_id = ? AND date = ?", s.ProviderID, s.Day.Format("2006-01-02"))
}

// CreatedBefore filters rows older than the cutoff.
type CreatedBefore struct {
	Cutoff time.Time
}

func (s CreatedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at < ?", s.Cutoff)
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type VendorSubscription struct {
	Id                  uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendorId            uuid.UUID  `gorm:"type:uuid;not null;index"`
	StoreId             uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status              string     `gorm:"type:varchar(50);not null;index"`
	ExpiresAt           time.Time  `gorm:"not null;index"`
	SuspendedAt         *time.Time ``
	Warned7DayAt        *time.Time ``
	Warned3DayAt        *time.Time ``
	ExpiredNoticeSentAt *time.Time ``
	CreatedAt           time.Time  `gorm:"autoCreateTime"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime"`
}

func (VendorSubscription) TableName() string {
	return "vendor_subscriptions"
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProviderId  uuid.UUID `gorm:"type:uuid;not null;index:idx_bookings_provider_date,priority:1"`
	CustomerId  uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceId   uuid.UUID `gorm:"type:uuid;not null"`
	Date        time.Time `gorm:"type:date;not null;index:idx_bookings_provider_date,priority:2"`
	StartMinute int       `gorm:"not null"`
	EndMinute   int       `gorm:"not null"`
	Status      string    `gorm:"type:varchar(50);not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Booking) TableName() string {
	return "bookings"
}

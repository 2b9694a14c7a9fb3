package model

import (
	"time"

	"github.com/google/uuid"
)

type Store struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendorId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Slug        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	IsActive    bool      `gorm:"default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Store) TableName() string {
	return "stores"
}

type Product struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreId    uuid.UUID `gorm:"type:uuid;not null;index"`
	VendorId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Sku        string    `gorm:"type:varchar(100);uniqueIndex"`
	Name       string    `gorm:"type:varchar(255);not null"`
	Price      float64   `gorm:"type:decimal(12,2);not null"`
	Stock      int       `gorm:"not null;default:0"`
	SalesCount int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

type ServiceListing struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendorId    uuid.UUID `gorm:"type:uuid;not null;index"`
	StoreId     uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Price       float64   `gorm:"type:decimal(12,2);not null"`
	DurationMin int       `gorm:"not null;default:60"`
	IsPublished bool      `gorm:"default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (ServiceListing) TableName() string {
	return "service_listings"
}

type Conversation struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendorId  uuid.UUID `gorm:"type:uuid;not null;index"`
	BuyerId   uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// Store is a vendor storefront. IsActive is the publish flag the sweep
// flips off during suspension and renewal flips back on.
type Store struct {
	Id          uuid.UUID
	VendorId    uuid.UUID
	Name        string
	Slug        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Product struct {
	Id         uuid.UUID
	StoreId    uuid.UUID
	VendorId   uuid.UUID
	Sku        string
	Name       string
	Price      float64
	Stock      int
	SalesCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ServiceListing is a bookable service a vendor offers. Unpublished during
// suspension alongside the storefront.
type ServiceListing struct {
	Id          uuid.UUID
	VendorId    uuid.UUID
	StoreId     uuid.UUID
	Title       string
	Price       float64
	DurationMin int
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Conversation struct {
	Id        uuid.UUID
	VendorId  uuid.UUID
	BuyerId   uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

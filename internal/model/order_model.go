package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Order struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BuyerId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	PaymentReference string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	PaymentStatus    string         `gorm:"type:varchar(50);not null;index"`
	Status           string         `gorm:"type:varchar(50);not null"`
	Total            float64        `gorm:"type:decimal(12,2);not null"`
	GatewayResponse  datatypes.JSON `gorm:"type:jsonb"`
	PaidAt           *time.Time     ``
	VendorDeleted    bool           `gorm:"default:false"`
	Items            []*OrderItem      `gorm:"foreignKey:OrderId"`
	SubOrders        []*VendorSubOrder `gorm:"foreignKey:OrderId"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderId    uuid.UUID  `gorm:"type:uuid;not null;index"`
	SubOrderId *uuid.UUID `gorm:"type:uuid;index"`
	ProductId  string     `gorm:"type:varchar(255);not null"`
	Quantity   int        `gorm:"not null"`
	Price      float64    `gorm:"type:decimal(12,2);not null"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

type VendorSubOrder struct {
	Id        uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderId   uuid.UUID    `gorm:"type:uuid;not null;index"`
	VendorId  uuid.UUID    `gorm:"type:uuid;not null;index"`
	Status    string       `gorm:"type:varchar(50);not null"`
	Items     []*OrderItem `gorm:"foreignKey:SubOrderId"`
	CreatedAt time.Time    `gorm:"autoCreateTime"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime"`
}

func (VendorSubOrder) TableName() string {
	return "vendor_sub_orders"
}

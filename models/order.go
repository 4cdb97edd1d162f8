package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending" // created, awaiting payment confirmation
	OrderStatusPaid    OrderStatus = "paid"    // settled by the gateway
)

type Order struct {
	ID     uint        `gorm:"primaryKey" json:"id"`
	UserID uint        `gorm:"not null;index" json:"user_id"`
	User   User        `gorm:"foreignKey:UserID" json:"-"`
	Items  []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	// Total is fixed at creation time from the snapshot prices of the items.
	Total  decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"total"`
	Status OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	// Token authorizes the browser return-URL confirmation path. Set once at
	// creation, never regenerated.
	Token string `gorm:"size:64;not null" json:"-"`
	// ExternalReference is round-tripped through the payment gateway and is
	// the only key correlating its notifications back to this order.
	ExternalReference string    `gorm:"index" json:"external_reference"`
	CreatedAt         time.Time `json:"created_at"`
}

// BuildExternalReference forms the "{id}-{unix}" string sent to the gateway.
// The timestamp suffix is kept for gateway-side audit; only the id part is
// ever parsed back out.
func (o *Order) BuildExternalReference() string {
	return fmt.Sprintf("%d-%d", o.ID, o.CreatedAt.Unix())
}

type OrderItem struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderID     uint   `gorm:"index" json:"order_id"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `gorm:"not null" json:"quantity"`
	// UnitPrice snapshots the product price at order creation, so later price
	// changes never affect historical orders.
	UnitPrice decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"unit_price"`
}

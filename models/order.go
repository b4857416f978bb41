package models

import (
	"time"
)

// Order is the stored shape of a delivery request. It never carries its
// toppings; those are derived from OrderTopping rows on every read.
type Order struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	PlacedAt    time.Time  `gorm:"not null;index" json:"placed_at"`
	CustomerID  uint       `gorm:"not null;index" json:"customer_id"`
	Customer    *Customer  `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	DriverID    *uint      `gorm:"index" json:"driver_id"`
	Driver      *Driver    `gorm:"foreignKey:DriverID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	DeliveredAt *time.Time `json:"delivered_at"`
}

// HasDriver reports whether a driver has been assigned.
func (o *Order) HasDriver() bool {
	return o.DriverID != nil
}

// IsDelivered reports whether the order has been completed.
func (o *Order) IsDelivered() bool {
	return o.DeliveredAt != nil
}

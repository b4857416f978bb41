package models

// OrderTopping links one Order to one Topping. The same pair may appear more
// than once.
type OrderTopping struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	OrderID   uint     `gorm:"not null;index" json:"order_id"`
	Order     *Order   `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ToppingID uint     `gorm:"not null;index" json:"topping_id"`
	Topping   *Topping `gorm:"foreignKey:ToppingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

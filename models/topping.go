package models

// ToppingNameMaxLen is the column size of toppings.name.
const ToppingNameMaxLen = 50

type Topping struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(50);not null" json:"name"`
}

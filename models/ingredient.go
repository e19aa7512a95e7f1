package models

// Ingredient keeps the ingredient list as the single free-text field the
// source provides, not one row per ingredient. Intentional scope reduction.
// ItemID is nullable for the same resolution-miss reason as MenuItem.
type Ingredient struct {
	ID          uint `gorm:"primaryKey"`
	ItemID      *uint
	Item        *MenuItem `gorm:"foreignKey:ItemID"`
	Ingredients *string
}

func (Ingredient) TableName() string { return SchemaName + ".ingredients" }

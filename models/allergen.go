package models

// Allergen stores the allergens-and-warnings text as-is, one row per menu
// item. ItemID is nullable for the same resolution-miss reason as MenuItem.
type Allergen struct {
	ID        uint `gorm:"primaryKey"`
	ItemID    *uint
	Item      *MenuItem `gorm:"foreignKey:ItemID"`
	Allergens *string
}

func (Allergen) TableName() string { return SchemaName + ".allergens" }

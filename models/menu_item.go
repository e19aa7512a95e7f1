package models

// MenuItem is one dish on a restaurant's menu. (Name, Restaurant) should be
// unique in the source data but the schema does not enforce it.
//
// RestaurantID is nullable on purpose: an item whose restaurant name fails to
// resolve against the loaded restaurants is inserted with a NULL reference
// rather than rejected. Known correctness risk of the load design.
type MenuItem struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID *uint
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID"`
	Name         string
	Category     *string
}

func (MenuItem) TableName() string { return SchemaName + ".menu_items" }

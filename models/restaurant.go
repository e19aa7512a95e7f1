package models

// SchemaName is the dedicated schema every destination table lives under.
const SchemaName = "restaurant_data"

// One row per distinct restaurant name found in the source workbook.
// Name is unique in source semantics but deliberately not enforced here:
// loads are append-only, so a re-run duplicates rows instead of failing.
// Not-null is safe to enforce since the cleaner never emits a blank store.
type Restaurant struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

func (Restaurant) TableName() string { return SchemaName + ".restaurants" }

package models

// Picture holds the URL of the primary product picture for a menu item.
type Picture struct {
	ID      uint `gorm:"primaryKey"`
	ItemID  *uint
	Item    *MenuItem `gorm:"foreignKey:ItemID"`
	Picture *string
}

func (Picture) TableName() string { return SchemaName + ".pictures" }

package datastore

import (
	"context"
	"time"

	"github.com/rs/xid"
	"gorm.io/gorm"
)

// ItemMaster is one override row of the item_masters table. Rows of a
// category are read ordered by ItemNo; Locale is empty for rows that apply
// to every locale.
type ItemMaster struct {
	ID           string  `gorm:"type:varchar(50);primaryKey"`
	CategoryName string  `gorm:"type:varchar(100);not null;index:idx_item_masters_lookup,priority:1"`
	Locale       string  `gorm:"type:varchar(20);not null;default:'';index:idx_item_masters_lookup,priority:2"`
	ItemNo       int     `gorm:"not null;index:idx_item_masters_lookup,priority:3"`
	ItemCd       string  `gorm:"type:varchar(50);not null"`
	Name         *string `gorm:"type:varchar(255)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BeforeCreate assigns an id to new rows.
func (m *ItemMaster) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = xid.New().String()
	}
	return nil
}

// Migrate creates or updates the item_masters table.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(&ItemMaster{})
}

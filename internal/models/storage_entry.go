package models

import (
	"time"

	"gorm.io/datatypes"
)

// StorageEntry is one namespaced JSON document in the durable key/value table.
type StorageEntry struct {
	Namespace string         `gorm:"primaryKey;size:100" json:"namespace"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null" json:"value"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (StorageEntry) TableName() string {
	return "storage_entries"
}

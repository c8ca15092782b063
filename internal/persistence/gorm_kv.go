package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormKV stores documents in the storage_entries table.
type GormKV struct {
	db *gorm.DB
}

func NewGormKV(db *gorm.DB) *GormKV {
	return &GormKV{db: db}
}

func (g *GormKV) Get(ctx context.Context, key string) ([]byte, error) {
	var entry models.StorageEntry
	if err := g.db.WithContext(ctx).First(&entry, "namespace = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read storage entry %q: %w", key, err)
	}
	return []byte(entry.Value), nil
}

func (g *GormKV) Put(ctx context.Context, key string, value []byte) error {
	entry := models.StorageEntry{
		Namespace: key,
		Value:     datatypes.JSON(value),
	}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write storage entry %q: %w", key, err)
	}
	return nil
}

func (g *GormKV) Delete(ctx context.Context, key string) error {
	if err := g.db.WithContext(ctx).Delete(&models.StorageEntry{}, "namespace = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete storage entry %q: %w", key, err)
	}
	return nil
}

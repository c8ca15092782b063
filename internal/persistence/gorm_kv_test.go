package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/testutil"
)

func TestGormKV(t *testing.T) {
	db := testutil.SetupPostgres(t)
	if err := db.AutoMigrate(&models.StorageEntry{}); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	ctx := context.Background()
	kv := NewGormKV(db)

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing error = %v, want ErrNotFound", err)
	}

	if err := kv.Put(ctx, "k", []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := kv.Put(ctx, "k", []byte(`[{"id":2}]`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	decoded, err := Decode(got)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded) != 1 || decoded[0].ID != 2 {
		t.Errorf("stored value = %s, want the overwritten document", got)
	}

	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := kv.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete error = %v, want ErrNotFound", err)
	}
}

func TestAdapterOverGormKV(t *testing.T) {
	db := testutil.SetupPostgres(t)
	if err := db.AutoMigrate(&models.StorageEntry{}); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	ctx := context.Background()
	a := NewAdapter(NewGormKV(db), testNamespace)

	if err := a.SaveReports(ctx, sampleReports()); err != nil {
		t.Fatalf("SaveReports: %v", err)
	}
	got, err := a.LoadReports(ctx)
	if err != nil {
		t.Fatalf("LoadReports: %v", err)
	}
	if len(got) != 2 || !got[0].CreatedAt.Equal(sampleReports()[0].CreatedAt) {
		t.Errorf("loaded %+v, want the saved sample", got)
	}
}

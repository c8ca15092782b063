package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/config"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/persistence"
	"github.com/gofiber/fiber/v2"
)

func TestCustomErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: customErrorHandler})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("database password leaked")
	})

	tests := []struct {
		path        string
		wantStatus  int
		wantMessage string
	}{
		{"/teapot", fiber.StatusTeapot, "short and stout"},
		{"/boom", fiber.StatusInternalServerError, "Internal server error"},
		{"/missing", fiber.StatusNotFound, "Cannot GET /missing"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var body dto.ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !body.Error || body.Message != tt.wantMessage {
				t.Errorf("body = %+v, want message %q", body, tt.wantMessage)
			}
		})
	}
}

func TestOpenStorageMemory(t *testing.T) {
	cfg := &config.Config{StorageDriver: config.StorageMemory, StorageNamespace: "test"}
	kv, closeStorage, err := openStorage(cfg)
	if err != nil {
		t.Fatalf("openStorage: %v", err)
	}
	defer closeStorage()

	if _, ok := kv.(*persistence.MemoryKV); !ok {
		t.Fatalf("kv = %T, want *persistence.MemoryKV", kv)
	}
	reports, err := persistence.NewAdapter(kv, cfg.StorageNamespace).Reset(context.Background())
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if len(reports) != len(persistence.DefaultReports()) {
		t.Errorf("reset restored %d reports, want %d", len(reports), len(persistence.DefaultReports()))
	}
}

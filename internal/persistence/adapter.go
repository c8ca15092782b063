package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
)

// Adapter serializes the report collection into a single KV entry under a fixed
// namespace.
type Adapter struct {
	kv        KV
	namespace string
}

func NewAdapter(kv KV, namespace string) *Adapter {
	return &Adapter{kv: kv, namespace: namespace}
}

func (a *Adapter) Namespace() string {
	return a.namespace
}

// LoadReports returns the stored collection. A missing entry is seeded with the
// default reports; an unparseable entry is removed and re-seeded. Only backend
// failures are returned.
func (a *Adapter) LoadReports(ctx context.Context) ([]models.Report, error) {
	raw, err := a.kv.Get(ctx, a.namespace)
	if errors.Is(err, ErrNotFound) {
		slog.Info("report storage empty, seeding defaults", "namespace", a.namespace)
		return a.seed(ctx)
	}
	if err != nil {
		return nil, err
	}

	reports, err := Decode(raw)
	if err != nil {
		slog.Warn("report storage corrupt, resetting to defaults", "namespace", a.namespace, "error", err)
		if err := a.kv.Delete(ctx, a.namespace); err != nil {
			return nil, err
		}
		return a.seed(ctx)
	}
	return reports, nil
}

func (a *Adapter) SaveReports(ctx context.Context, reports []models.Report) error {
	raw, err := Encode(reports)
	if err != nil {
		return err
	}
	return a.kv.Put(ctx, a.namespace, raw)
}

// Reset discards the stored collection and writes the default reports.
func (a *Adapter) Reset(ctx context.Context) ([]models.Report, error) {
	if err := a.kv.Delete(ctx, a.namespace); err != nil {
		return nil, err
	}
	return a.seed(ctx)
}

func (a *Adapter) seed(ctx context.Context) ([]models.Report, error) {
	reports := DefaultReports()
	if err := a.SaveReports(ctx, reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func Encode(reports []models.Report) ([]byte, error) {
	if reports == nil {
		reports = []models.Report{}
	}
	raw, err := json.Marshal(reports)
	if err != nil {
		return nil, fmt.Errorf("failed to encode reports: %w", err)
	}
	return raw, nil
}

// Decode parses a stored collection and back-fills missing or unknown status and
// category values.
func Decode(raw []byte) ([]models.Report, error) {
	var reports []models.Report
	if err := json.Unmarshal(raw, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}
	if reports == nil {
		reports = []models.Report{}
	}
	for i := range reports {
		r := &reports[i]
		if !r.Status.Valid() {
			r.Status = models.StatusPending
		}
		if !r.Category.Valid() {
			r.Category = models.CategoryOther
		}
		repairPairs(r)
	}
	return reports, nil
}

// repairPairs keeps reply text and timestamp together, and the assignment
// fields with assigned_to. Text is never dropped: a missing timestamp falls back
// to the creation time. Timestamps without text are cleared.
func repairPairs(r *models.Report) {
	if r.ReviewerReply == "" {
		r.ReviewerReplyAt = nil
	} else if r.ReviewerReplyAt == nil {
		r.ReviewerReplyAt = fallbackTime(r.CreatedAt)
	}
	if r.FulfillerReply == "" {
		r.FulfillerReplyAt = nil
	} else if r.FulfillerReplyAt == nil {
		r.FulfillerReplyAt = fallbackTime(r.CreatedAt)
	}

	if r.AssignedTo == "" {
		r.AssignedToName, r.AssignedAt = "", nil
		return
	}
	if r.AssignedToName == "" {
		r.AssignedToName = r.AssignedTo
	}
	if r.AssignedAt == nil {
		r.AssignedAt = fallbackTime(r.CreatedAt)
	}
}

func fallbackTime(t time.Time) *time.Time {
	return &t
}

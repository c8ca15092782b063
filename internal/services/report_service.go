package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/events"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/geo"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/roster"
	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/storage"
)

// FilterAll disables a category or status filter.
const FilterAll = "all"

// ReportStore persists the whole report collection.
type ReportStore interface {
	LoadReports(ctx context.Context) ([]models.Report, error)
	SaveReports(ctx context.Context, reports []models.Report) error
}

type ReportFilter struct {
	Category string
	Status   string
	Search   string
}

type Stats struct {
	Total      int                     `json:"total"`
	Pending    int                     `json:"pending"`
	InProgress int                     `json:"in_progress"`
	Resolved   int                     `json:"resolved"`
	ByCategory map[models.Category]int `json:"by_category"`
	ByStatus   map[models.Status]int   `json:"by_status"`
}

// ReportService owns the report collection. Reports are kept newest first.
// Every mutation is written to the store before it replaces the in-memory list.
type ReportService struct {
	mu      sync.RWMutex
	reports []models.Report
	lastID  int64

	store  ReportStore
	roster roster.Provider
	images storage.ImageStore
	events events.Producer
	now    func() time.Time
}

func NewReportService(ctx context.Context, store ReportStore, provider roster.Provider, images storage.ImageStore, producer events.Producer) (*ReportService, error) {
	reports, err := store.LoadReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}
	if images == nil {
		images = storage.NewInlineStore()
	}
	if producer == nil {
		producer = events.Nop{}
	}

	s := &ReportService{
		reports: reports,
		store:   store,
		roster:  provider,
		images:  images,
		events:  producer,
		now:     time.Now,
	}
	for _, r := range reports {
		if r.ID > s.lastID {
			s.lastID = r.ID
		}
	}
	return s, nil
}

func (s *ReportService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

func (s *ReportService) Create(ctx context.Context, identity *models.Identity, req *dto.CreateReportRequest) (*models.Report, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	if identity.Role != models.RoleSubmitter {
		return nil, ErrForbidden
	}

	fields := reportFields{
		Title:    strings.TrimSpace(req.Title),
		Category: string(req.Category),
		Content:  strings.TrimSpace(req.Content),
	}
	if err := validate.Struct(fields); err != nil {
		return nil, validationError(err)
	}

	var upload *storage.Upload
	if req.Image != "" {
		u, err := storage.ParseDataURL(req.Image)
		if err != nil {
			return nil, invalid("image", imageReason(err))
		}
		upload = u
	}

	var coords *models.Coordinates
	if in := req.Coordinates; in != nil {
		if in.Latitude == nil || in.Longitude == nil {
			return nil, invalid("coordinates", "latitude and longitude are both required")
		}
		c := models.Coordinates{Latitude: *in.Latitude, Longitude: *in.Longitude}
		if err := geo.Validate(c); err != nil {
			return nil, invalid("coordinates", "latitude must be within [-90, 90] and longitude within [-180, 180]")
		}
		coords = &c
	}

	report := models.Report{
		Title:             fields.Title,
		Category:          req.Category,
		Content:           fields.Content,
		AuthorID:          identity.Username,
		AuthorDisplayName: identity.DisplayName,
		Status:            models.StatusPending,
		Coordinates:       coords,
	}
	if upload != nil {
		ref, err := s.images.Put(ctx, upload)
		if err != nil {
			return nil, err
		}
		report.Image = ref
	}

	s.mu.Lock()
	now := s.now()
	report.ID = s.nextID(now)
	report.CreatedAt = now

	next := make([]models.Report, 0, len(s.reports)+1)
	next = append(next, report)
	next = append(next, s.reports...)
	if err := s.store.SaveReports(ctx, next); err != nil {
		s.mu.Unlock()
		s.discardImage(ctx, report.Image)
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	s.reports = next
	s.lastID = report.ID
	s.mu.Unlock()

	slog.Info("report created", "report_id", report.ID, "username", identity.Username, "category", report.Category)
	s.publish(ctx, events.ReportCreated, identity, report)
	out := report.Clone()
	return &out, nil
}

// discardImage removes a photo uploaded for a report that was never saved.
func (s *ReportService) discardImage(ctx context.Context, ref *models.ImageRef) {
	if ref == nil {
		return
	}
	if err := s.images.Delete(ctx, ref); err != nil {
		slog.Warn("orphaned report image", "url", ref.URL, "error", err)
	}
}

// nextID derives the id from the creation millisecond, bumped past the newest
// existing id. Callers hold s.mu.
func (s *ReportService) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	return id
}

// UpdateStatus is open to reviewers on any report and to fulfillers on reports
// assigned to them.
func (s *ReportService) UpdateStatus(ctx context.Context, identity *models.Identity, id int64, status models.Status) (*models.Report, error) {
	if err := requireRole(identity, models.RoleReviewer, models.RoleFulfiller); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalid("status", "must be one of pending, in_progress, resolved")
	}

	report, err := s.mutate(ctx, id, func(r *models.Report) error {
		if err := checkAssigned(identity, r); err != nil {
			return err
		}
		r.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("report status changed", "report_id", id, "username", identity.Username, "status", status)
	s.publish(ctx, events.ReportStatusChanged, identity, *report)
	return report, nil
}

// AddReviewerReply sets or overwrites the reviewer reply. Status is unchanged.
func (s *ReportService) AddReviewerReply(ctx context.Context, identity *models.Identity, id int64, text string) (*models.Report, error) {
	if err := requireRole(identity, models.RoleReviewer); err != nil {
		return nil, err
	}
	reply, err := validateReply(text)
	if err != nil {
		return nil, err
	}

	report, err := s.mutate(ctx, id, func(r *models.Report) error {
		now := s.now()
		r.ReviewerReply = reply
		r.ReviewerReplyAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("reviewer replied", "report_id", id, "username", identity.Username)
	s.publish(ctx, events.ReportReviewerReplied, identity, *report)
	return report, nil
}

// Assign hands the report to a fulfiller from the roster. Status and replies are
// unchanged.
func (s *ReportService) Assign(ctx context.Context, identity *models.Identity, id int64, fulfillerUsername string) (*models.Report, error) {
	if err := requireRole(identity, models.RoleReviewer); err != nil {
		return nil, err
	}
	fulfiller, ok := s.roster.Fulfiller(fulfillerUsername)
	if !ok {
		return nil, &NotFoundError{Kind: KindFulfiller, ID: fulfillerUsername}
	}

	report, err := s.mutate(ctx, id, func(r *models.Report) error {
		now := s.now()
		r.AssignedTo = fulfiller.Username
		r.AssignedToName = fulfiller.DisplayName
		r.AssignedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("report assigned", "report_id", id, "username", identity.Username, "fulfiller", fulfiller.Username)
	s.publish(ctx, events.ReportAssigned, identity, *report)
	return report, nil
}

// AddFulfillerReply records the assigned fulfiller's reply, independent of the
// reviewer reply.
func (s *ReportService) AddFulfillerReply(ctx context.Context, identity *models.Identity, id int64, text string) (*models.Report, error) {
	if err := requireRole(identity, models.RoleFulfiller); err != nil {
		return nil, err
	}
	reply, err := validateReply(text)
	if err != nil {
		return nil, err
	}

	report, err := s.mutate(ctx, id, func(r *models.Report) error {
		if err := checkAssigned(identity, r); err != nil {
			return err
		}
		now := s.now()
		r.FulfillerReply = reply
		r.FulfillerReplyAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("fulfiller replied", "report_id", id, "username", identity.Username)
	s.publish(ctx, events.ReportFulfillerReplied, identity, *report)
	return report, nil
}

// mutate applies fn to a copy of the report, saves the new collection and only
// then swaps it in.
func (s *ReportService) mutate(ctx context.Context, id int64, fn func(r *models.Report) error) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, reportNotFound(id)
	}
	updated := s.reports[idx].Clone()
	if err := fn(&updated); err != nil {
		return nil, err
	}

	next := make([]models.Report, len(s.reports))
	copy(next, s.reports)
	next[idx] = updated
	if err := s.store.SaveReports(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save report %d: %w", id, err)
	}
	s.reports = next

	out := updated.Clone()
	return &out, nil
}

func (s *ReportService) indexOf(id int64) int {
	for i := range s.reports {
		if s.reports[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns a single report if it is visible to the caller.
func (s *ReportService) Get(identity *models.Identity, id int64) (*models.Report, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 || !visible(identity, &s.reports[idx]) {
		return nil, reportNotFound(id)
	}
	out := s.reports[idx].Clone()
	return &out, nil
}

// Query returns the caller's visible reports matching every active filter,
// newest first.
func (s *ReportService) Query(identity *models.Identity, filter ReportFilter) ([]models.Report, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	category := strings.TrimSpace(filter.Category)
	if category != "" && category != FilterAll && !models.Category(category).Valid() {
		return nil, invalid("category", "must be one of the report categories or all")
	}
	status := strings.TrimSpace(filter.Status)
	if status != "" && status != FilterAll && !models.Status(status).Valid() {
		return nil, invalid("status", "must be one of pending, in_progress, resolved or all")
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Report, 0)
	for i := range s.reports {
		r := &s.reports[i]
		if !visible(identity, r) {
			continue
		}
		if category != "" && category != FilterAll && string(r.Category) != category {
			continue
		}
		if status != "" && status != FilterAll && string(r.Status) != status {
			continue
		}
		if search != "" && !matches(identity, r, search) {
			continue
		}
		result = append(result, r.Clone())
	}
	return result, nil
}

// Aggregate counts the caller's visible reports without filters.
func (s *ReportService) Aggregate(identity *models.Identity) (*Stats, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	stats := &Stats{
		ByCategory: make(map[models.Category]int, len(models.Categories)),
		ByStatus:   make(map[models.Status]int, len(models.Statuses)),
	}
	for _, c := range models.Categories {
		stats.ByCategory[c] = 0
	}
	for _, st := range models.Statuses {
		stats.ByStatus[st] = 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.reports {
		r := &s.reports[i]
		if !visible(identity, r) {
			continue
		}
		stats.Total++
		stats.ByCategory[r.Category]++
		stats.ByStatus[r.Status]++
		switch r.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusInProgress:
			stats.InProgress++
		case models.StatusResolved:
			stats.Resolved++
		}
	}
	return stats, nil
}

// Fulfillers lists the fulfillers a reviewer can assign reports to.
func (s *ReportService) Fulfillers(identity *models.Identity) ([]models.Fulfiller, error) {
	if err := requireRole(identity, models.RoleReviewer); err != nil {
		return nil, err
	}
	return s.roster.Fulfillers(), nil
}

func (s *ReportService) publish(ctx context.Context, name string, identity *models.Identity, r models.Report) {
	s.events.Publish(ctx, events.Event{
		Event:      name,
		ReportID:   r.ID,
		Actor:      identity.Username,
		ActorRole:  identity.Role,
		Status:     r.Status,
		AssignedTo: r.AssignedTo,
		OccurredAt: s.now(),
	})
}

func visible(identity *models.Identity, r *models.Report) bool {
	switch identity.Role {
	case models.RoleSubmitter:
		return r.AuthorID == identity.Username
	case models.RoleReviewer:
		return true
	case models.RoleFulfiller:
		return r.AssignedTo == identity.Username
	}
	return false
}

func matches(identity *models.Identity, r *models.Report, search string) bool {
	if strings.Contains(strings.ToLower(r.Title), search) ||
		strings.Contains(strings.ToLower(r.Content), search) {
		return true
	}
	return identity.Role == models.RoleReviewer &&
		strings.Contains(strings.ToLower(r.AuthorDisplayName), search)
}

func requireRole(identity *models.Identity, allowed ...models.Role) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	for _, role := range allowed {
		if identity.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

// checkAssigned limits fulfillers to their own reports.
func checkAssigned(identity *models.Identity, r *models.Report) error {
	switch identity.Role {
	case models.RoleReviewer:
		return nil
	case models.RoleFulfiller:
		if r.AssignedTo == identity.Username {
			return nil
		}
		return ErrForbidden
	case models.RoleSubmitter:
		return ErrForbidden
	}
	return ErrForbidden
}

func validateReply(text string) (string, error) {
	reply := strings.TrimSpace(text)
	if err := validate.Struct(replyFields{Reply: reply}); err != nil {
		return "", validationError(err)
	}
	return reply, nil
}

func reportNotFound(id int64) error {
	return &NotFoundError{Kind: KindReport, ID: strconv.FormatInt(id, 10)}
}

func imageReason(err error) string {
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		return "must be a JPEG, PNG, WebP or GIF image"
	case errors.Is(err, storage.ErrImageTooLarge):
		return "must not exceed 500 KB"
	case errors.Is(err, storage.ErrTypeMismatch):
		return "content does not match the declared type"
	}
	return "must be a base64 data URL"
}

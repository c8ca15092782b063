package models

import "time"

type Category string

const (
	CategoryCleanliness Category = "Cleanliness"
	CategoryClassroom   Category = "Classroom"
	CategoryMosque      Category = "Mosque"
	CategoryLaboratory  Category = "Laboratory"
	CategorySecurity    Category = "Security"
	CategoryToilet      Category = "Toilet"
	CategoryHall        Category = "Hall"
	CategoryOther       Category = "Other"
)

// Categories lists the fixed category set in display order.
var Categories = []Category{
	CategoryCleanliness,
	CategoryClassroom,
	CategoryMosque,
	CategoryLaboratory,
	CategorySecurity,
	CategoryToilet,
	CategoryHall,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

// Statuses lists the lifecycle stages in order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusResolved}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Label returns the human-readable name shown on dashboards.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusResolved:
		return "Resolved"
	}
	return string(s)
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ImageRef points at a stored report photo.
type ImageRef struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// Report is a facility complaint tracked from submission to resolution.
type Report struct {
	ID                int64        `json:"id"`
	Title             string       `json:"title"`
	Category          Category     `json:"category"`
	Content           string       `json:"content"`
	AuthorID          string       `json:"author_id"`
	AuthorDisplayName string       `json:"author_display_name"`
	CreatedAt         time.Time    `json:"created_at"`
	Status            Status       `json:"status"`
	Image             *ImageRef    `json:"image,omitempty"`
	Coordinates       *Coordinates `json:"coordinates,omitempty"`

	ReviewerReply   string     `json:"reviewer_reply,omitempty"`
	ReviewerReplyAt *time.Time `json:"reviewer_reply_at,omitempty"`

	AssignedTo     string     `json:"assigned_to,omitempty"`
	AssignedToName string     `json:"assigned_to_name,omitempty"`
	AssignedAt     *time.Time `json:"assigned_at,omitempty"`

	FulfillerReply   string     `json:"fulfiller_reply,omitempty"`
	FulfillerReplyAt *time.Time `json:"fulfiller_reply_at,omitempty"`
}

// Clone returns a deep copy so callers never share pointers with the store.
func (r Report) Clone() Report {
	out := r
	if r.Image != nil {
		img := *r.Image
		out.Image = &img
	}
	if r.Coordinates != nil {
		coords := *r.Coordinates
		out.Coordinates = &coords
	}
	out.ReviewerReplyAt = cloneTime(r.ReviewerReplyAt)
	out.AssignedAt = cloneTime(r.AssignedAt)
	out.FulfillerReplyAt = cloneTime(r.FulfillerReplyAt)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

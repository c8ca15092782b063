package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
	"github.com/segmentio/kafka-go"
)

const (
	ReportCreated          = "report.created"
	ReportStatusChanged    = "report.status_changed"
	ReportReviewerReplied  = "report.reviewer_replied"
	ReportAssigned         = "report.assigned"
	ReportFulfillerReplied = "report.fulfiller_replied"
)

// Event is the message body written for every report mutation.
type Event struct {
	Event      string        `json:"event"`
	ReportID   int64         `json:"report_id"`
	Actor      string        `json:"actor"`
	ActorRole  models.Role   `json:"actor_role"`
	Status     models.Status `json:"status"`
	AssignedTo string        `json:"assigned_to,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// Producer publishes report events. Publishing is best-effort and never fails the
// operation that triggered it.
type Producer interface {
	Publish(ctx context.Context, event Event)
	Close() error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
func (Nop) Close() error                   { return nil }

// PublishTimeout bounds how long a mutation waits for the broker.
const PublishTimeout = 2 * time.Second

type KafkaProducer struct {
	writer  *kafka.Writer
	timeout time.Duration
}

// NewKafkaProducer returns a Nop producer when brokers or topic are unset.
func NewKafkaProducer(brokers []string, topic string) Producer {
	if len(brokers) == 0 || topic == "" {
		return Nop{}
	}
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			MaxAttempts:  3,
			WriteTimeout: PublishTimeout,
		},
		timeout: PublishTimeout,
	}
}

// Publish gives up after the producer timeout. The caller's cancellation is
// ignored so a finished request does not abort the write.
func (p *KafkaProducer) Publish(ctx context.Context, event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		slog.Error("kafka: marshal report event", "error", err, "event", event.Event)
		return
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ReportID, 10)),
		Value: body,
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.Error("kafka: write report event", "error", err, "event", event.Event, "report_id", event.ReportID)
	}
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Close() error { return nil }

// Names returns the event names in publish order.
func (r *Recorder) Names() []string {
	events := r.Events()
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.Event
	}
	return names
}

// Package events publishes build outcomes to external subscribers.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Status of a finished build.
const (
	StatusSuccess  = "success"
	StatusFailed   = "failed"
	StatusCanceled = "canceled"
)

// BuildCompleted is published once per build run.
type BuildCompleted struct {
	BuildID     string    `json:"build_id"`
	Status      string    `json:"status"`
	Rendered    int       `json:"rendered"`
	Cached      int       `json:"cached"`
	Drafts      int       `json:"drafts"`
	Copied      int       `json:"copied"`
	BrokenLinks int       `json:"broken_links"`
	DurationMS  int64     `json:"duration_ms"`
	Revision    string    `json:"revision,omitempty"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher delivers build events.
type Publisher interface {
	Publish(ctx context.Context, event BuildCompleted) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, BuildCompleted) error { return nil }
func (Noop) Close() error                                  { return nil }

// NATSPublisher publishes events as JSON on a core NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to url. The connection is kept until Close.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("sitegen"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to connect to NATS").
			WithContext("url", url).
			Retryable().
			Build()
	}
	slog.Info("Connected to NATS for build events", "url", url, "subject", subject)
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// Publish sends event and waits for the server to acknowledge the flush.
func (p *NATSPublisher) Publish(ctx context.Context, event BuildCompleted) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return publishError(err, p.subject)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return publishError(err, p.subject)
	}
	slog.Debug("Published build event", logfields.BuildID(event.BuildID), "subject", p.subject)
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// Encode marshals event, stamping it with the current time if unset.
func Encode(event BuildCompleted) ([]byte, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to encode build event").Build()
	}
	return data, nil
}

func publishError(err error, subject string) error {
	return ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to publish build event").
		WithContext("subject", subject).
		Retryable().
		Build()
}

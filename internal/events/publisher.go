package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/linkcheck"
	"git.home.luguber.info/inful/docnav/internal/logfields"
)

// Publisher announces finished runs.
type Publisher interface {
	PublishRun(ctx context.Context, run RunEvent) error
	Close() error
}

// NoopPublisher discards every event (default when no bus is configured).
type NoopPublisher struct{}

func (NoopPublisher) PublishRun(context.Context, RunEvent) error { return nil }
func (NoopPublisher) Close() error                               { return nil }

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes every error finding as a FindingEvent on <subject>.<kind>
// and a run summary on <subject>.summary.
type NATSPublisher struct {
	conn    conn
	subject string
	now     func() time.Time
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("docnav"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, errors.EventsError(err, "connect to NATS").
			WithContext("url", url).
			Build()
	}
	slog.Info("NATS publisher connected", slog.String("url", url), slog.String("subject", subject))
	return newNATSPublisher(nc, subject), nil
}

func newNATSPublisher(c conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: c, subject: subject, now: time.Now}
}

// PublishRun publishes the run's error findings followed by its summary and waits
// for the server to acknowledge the batch.
func (p *NATSPublisher) PublishRun(ctx context.Context, run RunEvent) error {
	if run.Timestamp.IsZero() {
		run.Timestamp = p.now()
	}

	published := 0
	for _, f := range run.Findings {
		if f.Severity != linkcheck.SeverityError {
			continue
		}
		event := FindingEvent{
			BuildID:   run.BuildID,
			Locale:    run.Locale,
			Site:      run.Site,
			Timestamp: run.Timestamp,
			Finding:   f,
		}
		if err := p.publish(p.subject+"."+string(f.Kind), event); err != nil {
			return err
		}
		published++
	}
	if err := p.publish(p.subject+".summary", run); err != nil {
		return err
	}

	if err := p.conn.FlushWithContext(ctx); err != nil {
		return errors.EventsError(err, "flush NATS connection").Build()
	}
	slog.Debug("Published run events",
		logfields.BuildID(run.BuildID),
		logfields.Locale(run.Locale),
		logfields.Count(published))
	return nil
}

func (p *NATSPublisher) publish(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.InternalError(err, "marshal event").Build()
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return errors.EventsError(err, "publish event").
			WithContext("subject", subject).
			Build()
	}
	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}

// v1
// internal/publish/publisher.go
// Package publish emits finished campus reports to a Kafka topic so
// downstream consumers (dashboards, the gamification service) can subscribe
// instead of polling the HTTP API.
package publish

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/krish12388/EcoAgent/internal/metrics"
	"github.com/krish12388/EcoAgent/internal/pipeline"
)

// Envelope wraps a CampusResult with run identity. The id and timestamp live
// here, outside the core result, which stays a pure function of its inputs.
type Envelope struct {
	RunID       string                 `json:"runId"`
	GeneratedAt time.Time              `json:"generatedAt"`
	Tier        string                 `json:"tier"`
	Campus      *pipeline.CampusResult `json:"campus"`
}

// NewEnvelope stamps a result for publication or API responses.
func NewEnvelope(res *pipeline.CampusResult, tier pipeline.Tier) Envelope {
	return Envelope{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Tier:        string(tier),
		Campus:      res,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes report envelopes to one topic. A nil *Publisher is a
// valid no-op, so callers never branch on configuration.
type Publisher struct {
	w  messageWriter
	lg *slog.Logger
}

// New returns nil when no brokers are configured.
func New(brokers []string, topic string, lg *slog.Logger) *Publisher {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	lg.Info("report publisher enabled", "topic", topic, "brokers", brokers)
	return &Publisher{w: w, lg: lg}
}

// Publish sends one envelope, keyed by run id. Failures are logged and
// counted but never fail the analysis that produced the report.
func (p *Publisher) Publish(ctx context.Context, env Envelope) {
	if p == nil {
		return
	}
	b, err := json.Marshal(env)
	if err != nil {
		p.lg.Error("report marshal failed", "runId", env.RunID, "err", err)
		metrics.IncPublish("error")
		return
	}
	err = p.w.WriteMessages(ctx, kafka.Message{Key: []byte(env.RunID), Value: b, Time: env.GeneratedAt})
	if err != nil {
		p.lg.Error("report publish failed", "runId", env.RunID, "err", err)
		metrics.IncPublish("error")
		return
	}
	metrics.IncPublish("ok")
}

// Close releases the underlying writer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.w.Close()
}

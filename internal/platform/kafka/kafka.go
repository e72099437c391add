// Package kafka publishes assignment events with franz-go.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"accountdesk/internal/assignment/models"
	"accountdesk/internal/platform/config"
	"accountdesk/pkg/platform/circuit"
	"accountdesk/pkg/platform/sentinel"
)

const eventTypeClientAssigned = "client.assigned"

// Producer is the subset of *kgo.Client used for publishing.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// NewClient builds a producer client that waits for all in-sync replicas.
func NewClient(cfg config.KafkaConfig) (*kgo.Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerLinger(5*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

// EnsureTopic creates topic when it does not exist yet.
func EnsureTopic(ctx context.Context, client *kgo.Client, topic string, partitions int32, replicas int16) error {
	resp, err := kadm.NewClient(client).CreateTopic(ctx, partitions, replicas, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, resp.Err)
	}
	return nil
}

// ErrPublisherUnavailable is returned without contacting Kafka while the breaker is open.
var ErrPublisherUnavailable = fmt.Errorf("kafka circuit open: %w", sentinel.ErrUnavailable)

// Publisher writes ClientAssigned events keyed by manager id, so each manager's
// events stay ordered within a partition.
type Publisher struct {
	producer Producer
	topic    string
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

type PublisherOption func(*Publisher)

// WithBreaker stops calling Kafka after repeated failures and probes it once
// per breaker cooldown until it recovers.
func WithBreaker(b *circuit.Breaker) PublisherOption {
	return func(p *Publisher) {
		p.breaker = b
	}
}

func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(producer Producer, topic string, opts ...PublisherOption) *Publisher {
	p := &Publisher{producer: producer, topic: topic}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

func (p *Publisher) PublishClientAssigned(ctx context.Context, event models.ClientAssigned) error {
	if p.breaker != nil && !p.breaker.Allow() {
		return ErrPublisherUnavailable
	}
	err := p.produce(ctx, event)
	p.record(ctx, err)
	return err
}

func (p *Publisher) record(ctx context.Context, err error) {
	if p.breaker == nil {
		return
	}
	if err != nil {
		if _, change := p.breaker.RecordFailure(); change.Opened {
			p.logger.WarnContext(ctx, "kafka circuit opened", "breaker", p.breaker.Name(), "error", err)
		}
		return
	}
	if _, change := p.breaker.RecordSuccess(); change.Closed {
		p.logger.InfoContext(ctx, "kafka circuit closed", "breaker", p.breaker.Name())
	}
}

func (p *Publisher) produce(ctx context.Context, event models.ClientAssigned) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode client assigned event: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.ManagerID.String()),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(eventTypeClientAssigned)},
		},
	}
	if err := p.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("publish client assigned event: %w", err)
	}
	return nil
}

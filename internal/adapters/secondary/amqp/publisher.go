package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"artifact-catalog-service/internal/config"
	ports "artifact-catalog-service/internal/core/ports/output"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

// ErrBrokerUnavailable is returned without dialing while the publisher is
// backing off after a failed connection attempt.
var ErrBrokerUnavailable = errors.New("amqp broker unavailable")

// Publisher sends JSON events to a durable RabbitMQ queue through the
// default exchange. The connection is opened lazily and reopened after a
// failure, at most once per retry backoff.
type Publisher struct {
	url          string
	queue        string
	dialTimeout  time.Duration
	retryBackoff time.Duration

	mu         sync.Mutex
	conn       *amqp.Connection
	ch         *amqp.Channel
	retryAfter time.Time
}

func NewPublisher(cfg config.EventsConfig) *Publisher {
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 2 * time.Second
	}
	return &Publisher{
		url:          cfg.URL,
		queue:        cfg.Queue,
		dialTimeout:  dialTimeout,
		retryBackoff: cfg.RetryBackoff,
	}
}

func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.closeLocked()

	if time.Now().Before(p.retryAfter) {
		return nil, ErrBrokerUnavailable
	}

	ch, err := p.connect()
	if err != nil {
		p.retryAfter = time.Now().Add(p.retryBackoff)
		return nil, err
	}
	return ch, nil
}

func (p *Publisher) connect() (*amqp.Channel, error) {
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.dialTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}

	p.conn, p.ch = conn, ch
	return ch, nil
}

// Publish sends event to the configured queue. The routing key is carried
// as the message type.
func (p *Publisher) Publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         routingKey,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.closeLocked()
		return fmt.Errorf("amqp publish: %w", err)
	}

	log.WithFields(log.Fields{"queue": p.queue, "type": routingKey}).Debug("event published")
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	return nil
}

func (p *Publisher) closeLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// NopPublisher drops every event. Used when the broker is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
func (NopPublisher) Close() error                               { return nil }

var (
	_ ports.EventPublisher = (*Publisher)(nil)
	_ ports.EventPublisher = NopPublisher{}
)

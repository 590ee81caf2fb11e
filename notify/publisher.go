package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"mealdeal/logger"
)

const publishTimeout = 10 * time.Second

var ErrClosed = errors.New("publisher is closed")

// Publisher delivers domain events to whoever sends the mail.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, routingKey string, _ any) error {
	logger.FromContext(ctx).Debug("Notifications disabled, dropping event", logger.Fields{"routing_key": routingKey})
	return nil
}

func (nopPublisher) Close() error { return nil }

// Nop returns a publisher that drops every event.
func Nop() Publisher { return nopPublisher{} }

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

// AMQPPublisher publishes persistent JSON messages to a durable topic exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	now      func() time.Time
}

// DialAMQP connects to the broker and declares the exchange.
func DialAMQP(cfg AMQPConfig) (*AMQPPublisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("notify: broker url cannot be empty")
	}
	if cfg.Exchange == "" {
		return nil, fmt.Errorf("notify: exchange cannot be empty")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("notify: failed to dial RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("notify: failed to open a channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		cfg.Exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("notify: failed to declare exchange '%s': %w", cfg.Exchange, err)
	}

	p := newAMQPPublisher(ch, cfg.Exchange)
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(ch channel, exchange string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, exchange: exchange, now: time.Now}
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	if p.ch == nil {
		return ErrClosed
	}
	log := logger.FromContext(ctx).WithFields(logger.Fields{
		"component":   "AMQPPublisher",
		"exchange":    p.exchange,
		"routing_key": routingKey,
	})

	msg, err := p.message(ctx, event)
	if err != nil {
		log.Error("Failed to marshal event", err, nil)
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.ch.PublishWithContext(publishCtx, p.exchange, routingKey, false, false, msg); err != nil {
		log.Error("Failed to publish event", err, nil)
		return fmt.Errorf("notify: failed to publish %s: %w", routingKey, err)
	}
	log.Info("Published event", logger.Fields{"message_id": msg.MessageId})
	return nil
}

func (p *AMQPPublisher) message(ctx context.Context, event any) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("notify: failed to marshal event: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    p.now(),
		Body:         body,
		Headers:      amqp.Table{},
	}
	if traceID := logger.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}
	return msg, nil
}

// Close releases the channel and the connection.
func (p *AMQPPublisher) Close() error {
	var firstErr error
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			firstErr = err
		}
		p.ch = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.conn = nil
	}
	return firstErr
}

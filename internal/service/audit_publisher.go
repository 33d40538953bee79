// Package service hosts the outbound side of the audit-log pipeline:
// publishing access-log events to RabbitMQ. Errors are logged and returned
// so callers can ignore failures without interrupting the request flow.
package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/posts-api/internal/queue"
)

// AuditPublisher holds a long-lived broker connection and publishes
// access-log events to the audit queue. A nil *AuditPublisher is a valid
// no-op sender so the service runs without a broker.
type AuditPublisher struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAuditPublisher dials the broker and declares the durable audit queue.
// On failure it returns nil and the error; the caller decides whether to
// run without the broker.
func NewAuditPublisher(url string) (*AuditPublisher, error) {
	p := &AuditPublisher{url: url}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AuditPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}
	if _, err := ch.QueueDeclare(
		q.AuditQueueName, // name
		true,             // durable
		false,            // autoDelete
		false,            // exclusive
		false,            // noWait
		nil,              // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}
	p.conn, p.ch = conn, ch
	return nil
}

// Publish sends one event to the audit queue, reconnecting once if the
// channel has gone away. Messages are marked persistent so they survive
// broker restarts.
func (p *AuditPublisher) Publish(ctx context.Context, event q.AccessLogEvent) error {
	if p == nil {
		return amqp.ErrClosed
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	publish := func() error {
		return p.ch.PublishWithContext(ctx,
			"",               // default exchange
			q.AuditQueueName, // routing key = queue name
			false,            // mandatory
			false,            // immediate
			pub,
		)
	}
	if err := publish(); err != nil {
		if rErr := p.connect(); rErr != nil {
			log.Printf("rabbitmq: reconnect failed: %v", rErr)
			return err
		}
		if err = publish(); err != nil {
			log.Printf("rabbitmq: publish failed: %v", err)
			return err
		}
	}
	return nil
}

// Close releases the channel and connection.
func (p *AuditPublisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

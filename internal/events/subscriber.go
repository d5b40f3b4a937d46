package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	maxRetries = 3
	retryDelay = 2 * time.Second
	DLQSubject = "booking.notification.failed"
)

// BookingSubjects are the subjects a booking consumer listens on.
var BookingSubjects = []string{SubjectBookingAdmitted, SubjectBookingCancelled}

type BookingHandler func(ctx context.Context, event BookingEvent) error

func DecodeBookingEvent(data []byte) (BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return BookingEvent{}, fmt.Errorf("decode booking event: %w", err)
	}
	if event.EventType == "" {
		return BookingEvent{}, fmt.Errorf("decode booking event: missing event_type")
	}
	return event, nil
}

// handleWithRetry runs handler up to maxRetries times, sleeping between attempts.
func handleWithRetry(ctx context.Context, handler BookingHandler, event BookingEvent, delay time.Duration) error {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = handler(ctx, event); err == nil {
			return nil
		}

		slog.WarnContext(ctx, "Booking event handler failed",
			"event_type", event.EventType, "booking_id", event.BookingID, "attempt", attempt, "error", err)

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return err
}

type NatsSubscriber struct {
	conn *nats.Conn
	subs []*nats.Subscription
}

// SubscribeNats listens on BookingSubjects. Events that still fail after
// retries are forwarded untouched to DLQSubject.
func SubscribeNats(natsURL string, handler BookingHandler) (*NatsSubscriber, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}

	s := &NatsSubscriber{conn: nc}
	for _, subject := range BookingSubjects {
		sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
			s.dispatch(msg, handler)
		})
		if err != nil {
			nc.Close()
			return nil, err
		}
		s.subs = append(s.subs, sub)
	}

	slog.Info("Subscribed to booking events over NATS", "subjects", BookingSubjects)
	return s, nil
}

func (s *NatsSubscriber) dispatch(msg *nats.Msg, handler BookingHandler) {
	ctx := context.Background()

	event, err := DecodeBookingEvent(msg.Data)
	if err != nil {
		slog.ErrorContext(ctx, "Dropping malformed booking event", "subject", msg.Subject, "error", err)
		return
	}

	if err := handleWithRetry(ctx, handler, event, retryDelay); err != nil {
		slog.ErrorContext(ctx, "Booking event failed after retries, sending to DLQ",
			"booking_id", event.BookingID, "error", err)
		if err := s.conn.Publish(DLQSubject, msg.Data); err != nil {
			slog.ErrorContext(ctx, "Failed to publish to DLQ", "error", err)
		}
	}
}

func (s *NatsSubscriber) Close() error {
	return s.conn.Drain()
}

type AmqpConsumer struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewAmqpConsumer(url, exchange, queue string) (*AmqpConsumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	queueName, err := declareConsumerTopology(ch, exchange, queue)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &AmqpConsumer{conn: conn, ch: ch, queue: queueName}, nil
}

type topologyDeclarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

func deadLetterExchange(exchange string) string { return exchange + ".dlx" }

func deadLetterQueue(queue string) string { return queue + ".dlq" }

// declareConsumerTopology binds queue to every booking subject and routes its
// rejected deliveries to a dead-letter queue keyed by DLQSubject.
func declareConsumerTopology(ch topologyDeclarer, exchange, queue string) (string, error) {
	dlx := deadLetterExchange(exchange)

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return "", fmt.Errorf("declare exchange: %w", err)
	}
	if err := ch.ExchangeDeclare(dlx, "direct", true, false, false, false, nil); err != nil {
		return "", fmt.Errorf("declare dead-letter exchange: %w", err)
	}

	dlq, err := ch.QueueDeclare(deadLetterQueue(queue), true, false, false, false, nil)
	if err != nil {
		return "", fmt.Errorf("declare dead-letter queue: %w", err)
	}
	if err := ch.QueueBind(dlq.Name, DLQSubject, dlx, false, nil); err != nil {
		return "", fmt.Errorf("bind dead-letter queue: %w", err)
	}

	q, err := ch.QueueDeclare(queue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlx,
		"x-dead-letter-routing-key": DLQSubject,
	})
	if err != nil {
		return "", fmt.Errorf("declare queue: %w", err)
	}
	for _, key := range BookingSubjects {
		if err := ch.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			return "", fmt.Errorf("bind %s: %w", key, err)
		}
	}

	return q.Name, nil
}

// Run consumes until ctx is done. Failed deliveries are rejected without
// requeue and dead-lettered to the queue's .dlq.
func (c *AmqpConsumer) Run(ctx context.Context, handler BookingHandler) error {
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	slog.InfoContext(ctx, "Consuming booking events over AMQP", "queue", c.queue)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			event, err := DecodeBookingEvent(d.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Dropping malformed booking event", "routing_key", d.RoutingKey, "error", err)
				_ = d.Nack(false, false)
				continue
			}

			if err := handleWithRetry(ctx, handler, event, retryDelay); err != nil {
				slog.ErrorContext(ctx, "Booking event failed after retries", "booking_id", event.BookingID, "error", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *AmqpConsumer) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

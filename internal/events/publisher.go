package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"booking-service/internal/model"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

const (
	SubjectBookingAdmitted  = "booking.admitted"
	SubjectBookingCancelled = "booking.cancelled"
	SubjectCreditPurchased  = "credit.purchased"
)

type EventPublisher interface {
	PublishBookingAdmitted(ctx context.Context, booking *model.CourseBooking) error
	PublishBookingCancelled(ctx context.Context, booking *model.CourseBooking) error
	PublishCreditPurchased(ctx context.Context, purchase *model.CreditPurchase) error
	Close() error
}

type BookingEvent struct {
	EventType  string    `json:"event_type"`
	BookingID  uuid.UUID `json:"booking_id"`
	UserID     uuid.UUID `json:"user_id"`
	CourseID   uuid.UUID `json:"course_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type CreditPurchasedEvent struct {
	EventType        string          `json:"event_type"`
	PurchaseID       uuid.UUID       `json:"purchase_id"`
	UserID           uuid.UUID       `json:"user_id"`
	CreditPackageID  uuid.UUID       `json:"credit_package_id"`
	PurchasedCredits int             `json:"purchased_credits"`
	PricePaid        decimal.Decimal `json:"price_paid"`
	PurchasedAt      time.Time       `json:"purchased_at"`
}

// transport delivers an encoded event under a subject or routing key.
type transport interface {
	send(ctx context.Context, subject string, body []byte) error
	close() error
}

type publisher struct {
	t transport
}

func (p *publisher) PublishBookingAdmitted(ctx context.Context, booking *model.CourseBooking) error {
	return p.publish(ctx, SubjectBookingAdmitted, BookingEvent{
		EventType:  SubjectBookingAdmitted,
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		CourseID:   booking.CourseID,
		OccurredAt: booking.CreatedAt,
	})
}

func (p *publisher) PublishBookingCancelled(ctx context.Context, booking *model.CourseBooking) error {
	event := BookingEvent{
		EventType: SubjectBookingCancelled,
		BookingID: booking.ID,
		UserID:    booking.UserID,
		CourseID:  booking.CourseID,
	}
	if state, ok := booking.State().(model.Cancelled); ok {
		event.OccurredAt = state.At
	}
	return p.publish(ctx, SubjectBookingCancelled, event)
}

func (p *publisher) PublishCreditPurchased(ctx context.Context, purchase *model.CreditPurchase) error {
	return p.publish(ctx, SubjectCreditPurchased, CreditPurchasedEvent{
		EventType:        SubjectCreditPurchased,
		PurchaseID:       purchase.ID,
		UserID:           purchase.UserID,
		CreditPackageID:  purchase.CreditPackageID,
		PurchasedCredits: purchase.PurchasedCredits,
		PricePaid:        purchase.PricePaid,
		PurchasedAt:      purchase.CreatedAt,
	})
}

func (p *publisher) Close() error {
	return p.t.close()
}

func (p *publisher) publish(ctx context.Context, subject string, event interface{}) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		slog.ErrorContext(ctx, "Error marshalling event JSON", "subject", subject, "error", err)
		return err
	}

	if err := p.t.send(ctx, subject, eventJSON); err != nil {
		slog.ErrorContext(ctx, "Error publishing event", "subject", subject, "error", err)
		return err
	}

	slog.InfoContext(ctx, "Published event", "subject", subject)
	return nil
}

type natsTransport struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (EventPublisher, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}

	return &publisher{t: &natsTransport{conn: nc}}, nil
}

func (n *natsTransport) send(_ context.Context, subject string, body []byte) error {
	return n.conn.Publish(subject, body)
}

func (n *natsTransport) close() error {
	return n.conn.Drain()
}

type amqpTransport struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewAmqpPublisher publishes to a durable topic exchange, using the subject as routing key.
func NewAmqpPublisher(url, exchange string) (EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &publisher{t: &amqpTransport{conn: conn, ch: ch, exchange: exchange}}, nil
}

func (a *amqpTransport) send(ctx context.Context, subject string, body []byte) error {
	return a.ch.PublishWithContext(ctx, a.exchange, subject, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func (a *amqpTransport) close() error {
	if a.ch != nil {
		_ = a.ch.Close()
	}
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}

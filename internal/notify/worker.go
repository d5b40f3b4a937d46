package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"booking-service/internal/config"
	"booking-service/internal/events"

	"github.com/google/uuid"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/token"
)

// TokenSource looks up the push tokens registered for a user.
type TokenSource interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// Pusher is satisfied by *apns2.Client.
type Pusher interface {
	PushWithContext(ctx apns2.Context, n *apns2.Notification) (*apns2.Response, error)
}

type Worker struct {
	tokens TokenSource
	pusher Pusher
	topic  string
}

// NewWorker runs in mock mode, logging instead of pushing, when pusher is nil.
func NewWorker(tokens TokenSource, pusher Pusher, topic string) *Worker {
	return &Worker{tokens: tokens, pusher: pusher, topic: topic}
}

// NewAPNSClient returns nil without error when credentials are not configured.
func NewAPNSClient(cfg *config.WorkerConfig) (*apns2.Client, error) {
	if cfg.APNSAuthKeyPath == "" || cfg.APNSAuthKeyPath[0] == '#' || cfg.APNSKeyID == "" || cfg.APNSTeamID == "" {
		slog.Warn("APNs credentials not found or invalid. Worker will run in MOCK mode.")
		return nil, nil
	}

	authKey, err := token.AuthKeyFromFile(cfg.APNSAuthKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read APNs auth key: %w", err)
	}

	authToken := &token.Token{
		AuthKey: authKey,
		KeyID:   cfg.APNSKeyID,
		TeamID:  cfg.APNSTeamID,
	}

	if cfg.APNSMode == "production" {
		return apns2.NewTokenClient(authToken).Production(), nil
	}
	return apns2.NewTokenClient(authToken).Development(), nil
}

func alertFor(eventType string) (string, bool) {
	switch eventType {
	case events.SubjectBookingAdmitted:
		return "Your course booking is confirmed!", true
	case events.SubjectBookingCancelled:
		return "Your course booking was cancelled.", true
	default:
		return "", false
	}
}

type apsPayload struct {
	Aps struct {
		Alert string `json:"alert"`
		Sound string `json:"sound"`
	} `json:"aps"`
	BookingID uuid.UUID `json:"booking_id"`
	CourseID  uuid.UUID `json:"course_id"`
}

// Handle pushes one notification per registered device. A transport failure
// is returned so the caller can retry; a rejected token is only logged.
func (w *Worker) Handle(ctx context.Context, event events.BookingEvent) error {
	alert, ok := alertFor(event.EventType)
	if !ok {
		slog.WarnContext(ctx, "Ignoring unknown booking event", "event_type", event.EventType)
		return nil
	}

	slog.InfoContext(ctx, "Booking event received",
		"event_type", event.EventType, "user_id", event.UserID, "course_id", event.CourseID)

	tokens, err := w.tokens.FindByUserID(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("device tokens for user %s: %w", event.UserID, err)
	}
	if len(tokens) == 0 {
		slog.InfoContext(ctx, "No device tokens found, no notifications sent", "user_id", event.UserID)
		return nil
	}

	var payload apsPayload
	payload.Aps.Alert = alert
	payload.Aps.Sound = "default"
	payload.BookingID = event.BookingID
	payload.CourseID = event.CourseID
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	var pushErrs []error
	for _, deviceToken := range tokens {
		notification := &apns2.Notification{
			DeviceToken: deviceToken,
			Topic:       w.topic,
			Payload:     body,
		}

		if w.pusher == nil {
			slog.InfoContext(ctx, "Push notification sent (mock)", "device_token", deviceToken)
			continue
		}

		res, err := w.pusher.PushWithContext(ctx, notification)
		switch {
		case err != nil:
			pushErrs = append(pushErrs, err)
		case res.Sent():
			slog.InfoContext(ctx, "Push notification sent", "apns_id", res.ApnsID)
		default:
			slog.WarnContext(ctx, "Push notification not sent", "device_token", deviceToken, "reason", res.Reason)
		}
	}

	return errors.Join(pushErrs...)
}

package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gti/booking-qa/internal/models"
)

// Booking event names sent to the webhook destination
const (
	EventBookingCreated = "booking.created"
	EventBookingUpdated = "booking.updated"
	EventBookingDeleted = "booking.deleted"
)

type WebhookService struct {
	webhookURL string
	client     *http.Client
}

func NewWebhookService(webhookURL string) *WebhookService {
	return &WebhookService{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NotifyBookingEvent sends a booking change event to the webhook URL.
// This runs in a goroutine to avoid blocking the main request
func (s *WebhookService) NotifyBookingEvent(event string, booking models.Booking) {
	go func() {
		// Skip if no webhook URL configured
		if s.webhookURL == "" {
			return
		}

		payload := models.BookingEventPayload{
			Event:      event,
			Booking:    booking,
			OccurredAt: time.Now().UTC(),
		}

		if err := s.sendWebhook(payload); err != nil {
			log.Printf("Webhook: failed to send %s for booking %s: %v", event, booking.ID, err)
			return
		}

		log.Printf("Webhook: sent %s for booking %s", event, booking.ID)
	}()
}

// sendWebhook sends a JSON payload to the configured webhook URL
func (s *WebhookService) sendWebhook(payload models.BookingEventPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

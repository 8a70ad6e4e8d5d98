package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dealdesk/dealdesk/internal/ports"
)

// ProviderConfig configures an HTTP delivery provider
type ProviderConfig struct {
	BaseURL   string
	APIKey    string
	FromEmail string
	FromPhone string
	TimeoutMs int
}

// EmailSender delivers email through an HTTP provider API
type EmailSender struct {
	baseURL   string
	apiKey    string
	fromEmail string
	client    *http.Client
}

// NewEmailSender creates an email sender against the provider API
func NewEmailSender(config ProviderConfig) *EmailSender {
	return &EmailSender{
		baseURL:   config.BaseURL,
		apiKey:    config.APIKey,
		fromEmail: config.FromEmail,
		client: &http.Client{
			Timeout: time.Duration(config.TimeoutMs) * time.Millisecond,
		},
	}
}

// Name returns the channel name the sender is registered under
func (s *EmailSender) Name() string { return "email" }

type emailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Send delivers one email via the provider
func (s *EmailSender) Send(ctx context.Context, recipient string, payload ports.DeliveryPayload) error {
	reqBody, err := json.Marshal(emailRequest{
		From:    s.fromEmail,
		To:      recipient,
		Subject: payload.Subject,
		Body:    payload.Body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("email provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

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

// SMSSender delivers SMS through an HTTP provider API
type SMSSender struct {
	baseURL   string
	apiKey    string
	fromPhone string
	client    *http.Client
}

// NewSMSSender creates an SMS sender against the provider API
func NewSMSSender(config ProviderConfig) *SMSSender {
	return &SMSSender{
		baseURL:   config.BaseURL,
		apiKey:    config.APIKey,
		fromPhone: config.FromPhone,
		client: &http.Client{
			Timeout: time.Duration(config.TimeoutMs) * time.Millisecond,
		},
	}
}

// Name returns the channel name the sender is registered under
func (s *SMSSender) Name() string { return "sms" }

type smsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
}

// Send delivers one SMS via the provider
func (s *SMSSender) Send(ctx context.Context, recipient string, payload ports.DeliveryPayload) error {
	reqBody, err := json.Marshal(smsRequest{
		From: s.fromPhone,
		To:   recipient,
		Body: payload.Body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/sms", bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sms provider returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

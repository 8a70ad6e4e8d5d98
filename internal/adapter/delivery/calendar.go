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

// CalendarClient creates calendar events through an HTTP provider API
type CalendarClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewCalendarClient creates a calendar service client
func NewCalendarClient(config ProviderConfig) *CalendarClient {
	return &CalendarClient{
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		client: &http.Client{
			Timeout: time.Duration(config.TimeoutMs) * time.Millisecond,
		},
	}
}

type calendarEventResponse struct {
	ID string `json:"id"`
}

// CreateEvent creates a calendar event and returns its provider id
func (c *CalendarClient) CreateEvent(ctx context.Context, event ports.CalendarEvent) (string, error) {
	reqBody, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("failed to marshal calendar event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/events", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to build calendar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calendar provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("calendar provider returned %d: %s", resp.StatusCode, string(body))
	}

	var created calendarEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("failed to decode calendar response: %w", err)
	}
	return created.ID, nil
}

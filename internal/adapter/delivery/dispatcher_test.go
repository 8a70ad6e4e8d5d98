package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dealdesk/dealdesk/internal/logger"
	"github.com/dealdesk/dealdesk/internal/ports"
)

type stubSender struct {
	name      string
	failFor   map[string]bool
	delivered []string
}

func (s *stubSender) Name() string { return s.name }

func (s *stubSender) Send(ctx context.Context, recipient string, payload ports.DeliveryPayload) error {
	if s.failFor[recipient] {
		return errors.New("provider unavailable")
	}
	s.delivered = append(s.delivered, recipient)
	return nil
}

func TestDispatchContinuesPastFailingRecipient(t *testing.T) {
	sender := &stubSender{name: "email", failFor: map[string]bool{"agent-1": true}}
	dispatcher := NewSenderDispatcher(logger.NewNop(), sender)

	payload := ports.DeliveryPayload{
		Recipients: []string{"agent-1", "agent-2", "agent-3"},
		Body:       "closing reminder",
	}
	err := dispatcher.Dispatch(context.Background(), "email", payload)

	assert.NoError(t, err)
	assert.Equal(t, []string{"agent-2", "agent-3"}, sender.delivered)
}

func TestDispatchAllRecipientsFailed(t *testing.T) {
	sender := &stubSender{name: "sms", failFor: map[string]bool{"agent-1": true, "agent-2": true}}
	dispatcher := NewSenderDispatcher(logger.NewNop(), sender)

	payload := ports.DeliveryPayload{
		Recipients: []string{"agent-1", "agent-2"},
		Body:       "inspection reminder",
	}
	err := dispatcher.Dispatch(context.Background(), "sms", payload)

	assert.Error(t, err)
}

func TestDispatchUnknownSender(t *testing.T) {
	dispatcher := NewSenderDispatcher(logger.NewNop(), &stubSender{name: "email"})

	err := dispatcher.Dispatch(context.Background(), "pager", ports.DeliveryPayload{
		Recipients: []string{"agent-1"},
	})

	assert.Error(t, err)
}

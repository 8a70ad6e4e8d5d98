package delivery

import (
	"context"
	"fmt"

	"github.com/dealdesk/dealdesk/internal/logger"
	"github.com/dealdesk/dealdesk/internal/ports"
)

// SenderDispatcher routes payloads to senders registered by channel name.
// Delivery is per-recipient: a failure for one recipient is logged and the
// remaining recipients still get their copy.
type SenderDispatcher struct {
	senders map[string]ports.Sender
	log     logger.Logger
}

// NewSenderDispatcher creates a dispatcher over the given senders
func NewSenderDispatcher(log logger.Logger, senders ...ports.Sender) *SenderDispatcher {
	byName := make(map[string]ports.Sender, len(senders))
	for _, s := range senders {
		byName[s.Name()] = s
	}
	return &SenderDispatcher{senders: byName, log: log}
}

// Dispatch delivers the payload via the sender registered under name
func (d *SenderDispatcher) Dispatch(ctx context.Context, name string, payload ports.DeliveryPayload) error {
	sender, ok := d.senders[name]
	if !ok {
		return fmt.Errorf("no sender registered for channel %q", name)
	}

	var failed int
	for _, recipient := range payload.Recipients {
		if err := sender.Send(ctx, recipient, payload); err != nil {
			failed++
			d.log.Error(ctx, "delivery failed for recipient", err, map[string]interface{}{
				"channel":   name,
				"recipient": recipient,
			})
		}
	}

	if failed == len(payload.Recipients) && failed > 0 {
		return fmt.Errorf("delivery via %q failed for all %d recipients", name, failed)
	}
	return nil
}

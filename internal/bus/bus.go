package bus

import (
	"fmt"

	"github.com/surakshapay/vigil/internal/domain"
)

// New creates the event bus for the configured tier. An unset type
// falls back to the in-process channel bus so a bare Community
// deployment needs no broker at all; NATS is the Pro tier choice.
func New(cfg domain.EventBusConfig) (domain.EventBus, error) {
	switch cfg.Type {
	case "", "channel":
		return NewChannelBus(cfg.ChannelBufferSize), nil

	case "nats":
		return NewNATSBus(cfg)

	default:
		return nil, fmt.Errorf("unsupported event bus type: %s", cfg.Type)
	}
}

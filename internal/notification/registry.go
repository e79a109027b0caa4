package notification

import (
	"sync"

	"go.uber.org/zap"
)

const subscriberBuffer = 16

// Registry tracks live in-process subscribers per recipient so freshly
// stored notifications can be pushed without polling. State is scoped to
// one process, a restart simply drops the connections.
type Registry interface {
	Subscribe(recipientID string) (<-chan NotificationResponse, func())
	Publish(recipientID string, n NotificationResponse)
}

type memoryRegistry struct {
	mu     sync.RWMutex
	subs   map[string][]chan NotificationResponse
	logger *zap.Logger
}

func NewRegistry(logger ...*zap.Logger) Registry {
	l := zap.L().Named("notification.registry")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.registry")
	}
	return &memoryRegistry{
		subs:   make(map[string][]chan NotificationResponse),
		logger: l,
	}
}

// Subscribe registers a delivery channel for the recipient. The returned
// cancel func must be called when the connection goes away.
func (r *memoryRegistry) Subscribe(recipientID string) (<-chan NotificationResponse, func()) {
	ch := make(chan NotificationResponse, subscriberBuffer)

	r.mu.Lock()
	r.subs[recipientID] = append(r.subs[recipientID], ch)
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		channels := r.subs[recipientID]
		for i, c := range channels {
			if c == ch {
				r.subs[recipientID] = append(channels[:i], channels[i+1:]...)
				close(c)
				break
			}
		}
		if len(r.subs[recipientID]) == 0 {
			delete(r.subs, recipientID)
		}
	}
	return ch, cancel
}

// Publish never blocks. A subscriber that stopped draining loses the push,
// the inbox row remains the source of truth.
func (r *memoryRegistry) Publish(recipientID string, n NotificationResponse) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ch := range r.subs[recipientID] {
		select {
		case ch <- n:
		default:
			r.logger.Warn("notification subscriber is not draining",
				zap.String("recipient_id", recipientID),
				zap.String("notification_id", n.ID),
			)
		}
	}
}

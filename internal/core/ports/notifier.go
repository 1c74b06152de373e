package ports

import (
	"context"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
)

// Mailer sends one email and returns the provider's raw JSON response.
type Mailer interface {
	Send(ctx context.Context, msg domain.Email) ([]byte, error)
}

// Notifier accepts one-shot best-effort deliveries. Enqueue never blocks and
// never reports delivery failures to the caller.
type Notifier interface {
	Enqueue(n domain.Notification)
}

// DeliveryLog is the observability sink for notification outcomes.
type DeliveryLog interface {
	Record(ctx context.Context, d domain.Delivery) error
}

// DedupChecker claims a notification key. Claim returns false when the key
// was already claimed.
type DedupChecker interface {
	Claim(ctx context.Context, key string) (bool, error)
}

// EventPublisher emits ticket lifecycle events to downstream consumers.
// Publishing is best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload map[string]any)
}

// DeliveryHistory reads recorded outcomes back for support staff.
type DeliveryHistory interface {
	ForTicket(ctx context.Context, ticketID string, limit int64) ([]domain.Delivery, error)
}

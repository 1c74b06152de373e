package domain

import (
	"fmt"
	"time"
)

// NewTicketSubjectPrefix is prepended to the ticket title in the notification
// subject sent to the assignee.
const NewTicketSubjectPrefix = "[Novo Chamado] "

// Email is an outbound message as accepted by the relay.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Notification is a one-shot delivery task raised after a write commits.
type Notification struct {
	// Key identifies the triggering event; a key is delivered at most once.
	Key      string
	TicketID string
	Email    Email
	QueuedAt time.Time
}

// DeliveryResult values recorded by the observability sink.
const (
	DeliverySent      = "sent"
	DeliveryFailed    = "failed"
	DeliveryDuplicate = "duplicate"
)

// Delivery is the outcome of one notification attempt.
type Delivery struct {
	Key       string    `bson:"key"`
	TicketID  string    `bson:"ticket_id"`
	To        string    `bson:"to"`
	Subject   string    `bson:"subject"`
	Result    string    `bson:"result"`
	Error     string    `bson:"error,omitempty"`
	Attempted time.Time `bson:"attempted_at"`
}

// ProviderError is returned when the email provider answered with a non-2xx
// status. Body holds the provider's JSON response.
type ProviderError struct {
	StatusCode int
	Body       []byte
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("email provider returned status %d", e.StatusCode)
}

package events

import (
	"time"

	"github.com/spec-kit/parking-ticket-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated      EventType = "user_created"
	EventUserUpdated      EventType = "user_updated"
	EventUserDeleted      EventType = "user_deleted"
	EventUsersBulkUpdated EventType = "users_bulk_updated"
	EventTicketCreated    EventType = "ticket_created"
)

// Actor encapsulates the principal that triggered an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserEventPayload carries the affected account's public identity.
type UserEventPayload struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
}

// UsersBulkUpdatedPayload records the outcome of a bulk status change.
type UsersBulkUpdatedPayload struct {
	IsActive bool  `json:"is_active"`
	Count    int64 `json:"count"`
}

// TicketCreatedPayload carries the issued ticket's key fields.
type TicketCreatedPayload struct {
	TicketID      string  `json:"ticket_id"`
	VehicleNumber string  `json:"vehicle_number"`
	Amount        float64 `json:"amount"`
	OwnerEmail    string  `json:"owner_email"`
	AdminEmail    string  `json:"admin_email"`
}

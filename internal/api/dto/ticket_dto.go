package dto

import (
	"time"

	"github.com/spec-kit/parking-ticket-service/internal/domain"
)

// CreateTicketRequest payload. Amount is a pointer so a missing field
// can be told apart from an explicit zero.
type CreateTicketRequest struct {
	VehicleNumber string   `json:"vehicleNumber"`
	Amount        *float64 `json:"amount"`
}

// TicketResponse is the public view of a ticket.
type TicketResponse struct {
	ID            string    `json:"_id"`
	VehicleNumber string    `json:"vehicleNumber"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
	Email         string    `json:"email"`
	AdminEmail    string    `json:"adminEmail"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TicketListResponse wraps the collections result.
type TicketListResponse struct {
	Tickets []TicketResponse `json:"tickets"`
}

// NewTicketResponse maps a domain ticket to its public view.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:            ticket.ID,
		VehicleNumber: ticket.VehicleNumber,
		Amount:        ticket.Amount,
		Date:          ticket.Date,
		Email:         ticket.Email,
		AdminEmail:    ticket.AdminEmail,
		CreatedAt:     ticket.CreatedAt,
	}
}

// NewTicketResponses maps a slice of tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}

package domain

import (
	"strings"
	"time"
)

// Ticket is the record of a single parking charge. Tickets are written
// once at issuance and never updated afterwards.
type Ticket struct {
	ID            string
	VehicleNumber string
	Amount        float64
	Date          time.Time
	OwnerID       string
	Email         string
	AdminEmail    string
	CreatedAt     time.Time
}

// NormalizeVehicleNumber trims surrounding whitespace and uppercases a
// raw vehicle number so equal plates compare equal in storage.
func NormalizeVehicleNumber(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/parking-ticket-service/internal/domain"
)

// TicketFilter captures collection query parameters. Nil fields apply
// no restriction.
type TicketFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	OwnerID  *string
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByVehicleNumber(ctx context.Context, vehicleNumber string) (*domain.Ticket, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (vehicle_number, amount, date, owner_user_id, email, admin_email)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.VehicleNumber,
		ticket.Amount,
		ticket.Date,
		ticket.OwnerID,
		ticket.Email,
		ticket.AdminEmail,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) GetByVehicleNumber(ctx context.Context, vehicleNumber string) (*domain.Ticket, error) {
	const query = `
        SELECT id, vehicle_number, amount, date, owner_user_id, email, admin_email, created_at
        FROM tickets WHERE vehicle_number=$1
        ORDER BY date DESC LIMIT 1`

	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, vehicleNumber).Scan(
		&ticket.ID,
		&ticket.VehicleNumber,
		&ticket.Amount,
		&ticket.Date,
		&ticket.OwnerID,
		&ticket.Email,
		&ticket.AdminEmail,
		&ticket.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Ticket, error) {
	filter := TicketFilter{OwnerID: &ownerID}
	return r.ListWithFilter(ctx, filter)
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT id, vehicle_number, amount, date, owner_user_id, email, admin_email, created_at
             FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_user_id=$%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		clauses = append(clauses, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		clauses = append(clauses, fmt.Sprintf("date <= $%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY date DESC`, base, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.VehicleNumber,
			&ticket.Amount,
			&ticket.Date,
			&ticket.OwnerID,
			&ticket.Email,
			&ticket.AdminEmail,
			&ticket.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

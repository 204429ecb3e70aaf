package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/parking-ticket-service/internal/domain"
	"github.com/spec-kit/parking-ticket-service/internal/events"
	"github.com/spec-kit/parking-ticket-service/internal/repository"
	apperrors "github.com/spec-kit/parking-ticket-service/pkg/util"
)

const ticketCacheTTL = 10 * time.Minute

// TicketCache is the read-through cache used for vehicle-number lookups.
// A nil cache disables caching.
type TicketCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// TicketService coordinates ticket issuance and queries.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	cache      TicketCache
	logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, users repository.UserRepository, dispatcher events.Dispatcher, cache TicketCache, logger *zap.Logger) *TicketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    tickets,
		users:      users,
		dispatcher: dispatcher,
		cache:      cache,
		logger:     logger,
	}
}

// Create issues a ticket for the authenticated principal. The stored
// admin email is the email of the admin that provisioned the principal's
// account; a bootstrapped admin issuing a ticket is its own issuer.
func (s *TicketService) Create(ctx context.Context, principal *domain.User, vehicleNumber string, amount float64) (*domain.Ticket, error) {
	normalized := domain.NormalizeVehicleNumber(vehicleNumber)
	if normalized == "" {
		return nil, apperrors.NewValidationError("Please provide vehicle number and amount")
	}
	if amount < 0 {
		return nil, apperrors.NewValidationError("Amount must not be negative")
	}

	adminEmail := principal.Email
	if principal.CreatedBy != nil {
		creator, err := s.users.GetByID(ctx, *principal.CreatedBy)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return nil, err
			}
		} else {
			adminEmail = creator.Email
		}
	}

	ticket := &domain.Ticket{
		VehicleNumber: normalized,
		Amount:        amount,
		Date:          time.Now(),
		OwnerID:       principal.ID,
		Email:         principal.Email,
		AdminEmail:    adminEmail,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	// A new ticket becomes the latest one for its plate.
	s.cacheInvalidate(ctx, normalized)

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventTicketCreated,
			Actor:     events.Actor{UserID: principal.ID, Role: principal.Role},
			Timestamp: time.Now(),
			Payload: events.TicketCreatedPayload{
				TicketID:      ticket.ID,
				VehicleNumber: ticket.VehicleNumber,
				Amount:        ticket.Amount,
				OwnerEmail:    ticket.Email,
				AdminEmail:    ticket.AdminEmail,
			},
		})
	}
	return ticket, nil
}

// ListForOwner returns the principal's tickets, newest first.
func (s *TicketService) ListForOwner(ctx context.Context, principal *domain.User) ([]domain.Ticket, error) {
	return s.tickets.ListByOwner(ctx, principal.ID)
}

// Collections runs the admin collections query. Raw parameters come
// straight from the query string; empty strings mean "not supplied".
func (s *TicketService) Collections(ctx context.Context, startDate, endDate, userEmail string) ([]domain.Ticket, error) {
	filter, err := s.buildFilter(ctx, startDate, endDate, userEmail)
	if err != nil {
		return nil, err
	}
	return s.tickets.ListWithFilter(ctx, filter)
}

// buildFilter translates optional query parameters into a storage
// filter. Dates are epoch milliseconds and only apply when both bounds
// are present; a lone bound is ignored entirely rather than treated as
// an open-ended range. The range covers the whole calendar day of each
// bound in server-local time.
func (s *TicketService) buildFilter(ctx context.Context, startDate, endDate, userEmail string) (repository.TicketFilter, error) {
	var filter repository.TicketFilter

	if startDate != "" && endDate != "" {
		startMs, err := strconv.ParseInt(startDate, 10, 64)
		if err != nil {
			return filter, apperrors.NewValidationError("Invalid date format")
		}
		endMs, err := strconv.ParseInt(endDate, 10, 64)
		if err != nil {
			return filter, apperrors.NewValidationError("Invalid date format")
		}

		from := dayStart(time.UnixMilli(startMs))
		to := dayEnd(time.UnixMilli(endMs))
		filter.DateFrom = &from
		filter.DateTo = &to
	}

	if userEmail != "" {
		user, err := s.users.GetByEmail(ctx, userEmail)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return filter, apperrors.NewNotFound("User not found")
			}
			return filter, err
		}
		filter.OwnerID = &user.ID
	}

	return filter, nil
}

// GetByVehicleNumber fetches the latest ticket for a plate, enforcing
// the access policy: the ticket's owner, or an admin whose email matches
// the ticket's issuing admin email.
func (s *TicketService) GetByVehicleNumber(ctx context.Context, principal *domain.User, vehicleNumber string) (*domain.Ticket, error) {
	normalized := domain.NormalizeVehicleNumber(vehicleNumber)
	if normalized == "" {
		return nil, apperrors.NewNotFound("Ticket not found")
	}

	ticket, err := s.lookupTicket(ctx, normalized)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Ticket not found")
		}
		return nil, err
	}

	if !canAccessTicket(principal, ticket) {
		return nil, apperrors.NewForbidden("Not authorized to access this ticket")
	}
	return ticket, nil
}

// canAccessTicket implements the read policy for single tickets.
func canAccessTicket(principal *domain.User, ticket *domain.Ticket) bool {
	if principal.ID == ticket.OwnerID {
		return true
	}
	return principal.IsAdmin() && principal.Email == ticket.AdminEmail
}

func (s *TicketService) lookupTicket(ctx context.Context, vehicleNumber string) (*domain.Ticket, error) {
	key := cacheKey(vehicleNumber)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil && raw != "" {
			var ticket domain.Ticket
			if err := json.Unmarshal([]byte(raw), &ticket); err == nil {
				return &ticket, nil
			}
		}
	}

	ticket, err := s.tickets.GetByVehicleNumber(ctx, vehicleNumber)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(ticket); err == nil {
			if err := s.cache.Set(ctx, key, string(raw), ticketCacheTTL); err != nil {
				s.logger.Debug("ticket cache set failed", zap.Error(err))
			}
		}
	}
	return ticket, nil
}

func (s *TicketService) cacheInvalidate(ctx context.Context, vehicleNumber string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(vehicleNumber)); err != nil {
		s.logger.Debug("ticket cache invalidate failed", zap.Error(err))
	}
}

func cacheKey(vehicleNumber string) string {
	return "ticket:vehicle:" + vehicleNumber
}

func dayStart(t time.Time) time.Time {
	year, month, day := t.Local().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func dayEnd(t time.Time) time.Time {
	year, month, day := t.Local().Date()
	return time.Date(year, month, day, 23, 59, 59, int(999*time.Millisecond), time.Local)
}

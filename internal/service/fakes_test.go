package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/parking-ticket-service/internal/domain"
	"github.com/spec-kit/parking-ticket-service/internal/repository"
)

type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}}
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	user.ID = fmt.Sprintf("u-%d", m.seq)
	user.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	user.UpdatedAt = user.CreatedAt
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memUserRepo) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserRepo) ListByCreator(_ context.Context, createdBy string) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.User
	for _, user := range m.users {
		if user.CreatedBy != nil && *user.CreatedBy == createdBy {
			result = append(result, *user)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *memUserRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.users, id)
	return nil
}

func (m *memUserRepo) BulkSetActive(_ context.Context, isActive bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, user := range m.users {
		if user.Role != domain.RoleAdmin {
			user.IsActive = isActive
			count++
		}
	}
	return count, nil
}

type memTicketRepo struct {
	mu      sync.Mutex
	seq     int
	tickets []domain.Ticket
}

func newMemTicketRepo() *memTicketRepo {
	return &memTicketRepo{}
}

func (m *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	ticket.ID = fmt.Sprintf("t-%d", m.seq)
	ticket.CreatedAt = time.Now()
	m.tickets = append(m.tickets, *ticket)
	return nil
}

func (m *memTicketRepo) GetByVehicleNumber(_ context.Context, vehicleNumber string) (*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *domain.Ticket
	for i := range m.tickets {
		t := &m.tickets[i]
		if t.VehicleNumber != vehicleNumber {
			continue
		}
		if latest == nil || t.Date.After(latest.Date) {
			latest = t
		}
	}
	if latest == nil {
		return nil, pgx.ErrNoRows
	}
	clone := *latest
	return &clone, nil
}

func (m *memTicketRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Ticket, error) {
	return m.ListWithFilter(ctx, repository.TicketFilter{OwnerID: &ownerID})
}

func (m *memTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.Ticket
	for _, t := range m.tickets {
		if filter.OwnerID != nil && t.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.DateFrom != nil && t.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && t.Date.After(*filter.DateTo) {
			continue
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	return result, nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string]string
	sets int
	hits int
}

func newMemCache() *memCache {
	return &memCache{data: map[string]string{}}
}

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if val, ok := m.data[key]; ok {
		m.hits++
		return val, nil
	}
	return "", nil
}

func (m *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

func (m *memCache) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

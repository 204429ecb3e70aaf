package service

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/parking-ticket-service/internal/domain"
	apperrors "github.com/spec-kit/parking-ticket-service/pkg/util"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	return domainErr.HTTPStatus
}

func TestCreateUserDefaultsAndCreator(t *testing.T) {
	repo := newMemUserRepo()
	s := NewUserService(repo, nil, 4)
	admin := seedUser(t, repo, "admin@example.com", "AdminPass1", domain.RoleAdmin, true, nil)

	user, err := s.Create(context.Background(), admin, UserCreateInput{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "BobPass123",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %s", user.Role)
	}
	if !user.IsActive {
		t.Fatalf("expected new user active")
	}
	if user.CreatedBy == nil || *user.CreatedBy != admin.ID {
		t.Fatalf("expected createdBy to default to the acting admin")
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	repo := newMemUserRepo()
	s := NewUserService(repo, nil, 4)
	admin := seedUser(t, repo, "admin@example.com", "AdminPass1", domain.RoleAdmin, true, nil)
	seedUser(t, repo, "bob@example.com", "BobPass123", domain.RoleUser, true, &admin.ID)

	_, err := s.Create(context.Background(), admin, UserCreateInput{
		Name:     "Bob Again",
		Email:    "bob@example.com",
		Password: "Other123",
	})
	if err == nil {
		t.Fatalf("expected duplicate email error")
	}
	if status := statusOf(t, err); status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestCreateUserValidatesCreatedBy(t *testing.T) {
	repo := newMemUserRepo()
	s := NewUserService(repo, nil, 4)
	admin := seedUser(t, repo, "admin@example.com", "AdminPass1", domain.RoleAdmin, true, nil)
	regular := seedUser(t, repo, "carol@example.com", "CarolPass1", domain.RoleUser, true, &admin.ID)

	missing := "u-999"
	if _, err := s.Create(context.Background(), admin, UserCreateInput{
		Name: "Dan", Email: "dan@example.com", Password: "DanPass123", CreatedBy: &missing,
	}); err == nil {
		t.Fatalf("expected unknown createdBy to fail")
	}

	if _, err := s.Create(context.Background(), admin, UserCreateInput{
		Name: "Dan", Email: "dan@example.com", Password: "DanPass123", CreatedBy: &regular.ID,
	}); err == nil {
		t.Fatalf("expected non-admin createdBy to fail")
	}

	user, err := s.Create(context.Background(), admin, UserCreateInput{
		Name: "Dan", Email: "dan@example.com", Password: "DanPass123", CreatedBy: &admin.ID,
	})
	if err != nil {
		t.Fatalf("create with valid createdBy failed: %v", err)
	}
	if *user.CreatedBy != admin.ID {
		t.Fatalf("unexpected creator: %v", *user.CreatedBy)
	}
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	repo := newMemUserRepo()
	s := NewUserService(repo, nil, 4)
	admin := seedUser(t, repo, "admin@example.com", "AdminPass1", domain.RoleAdmin, true, nil)

	if _, err := s.Create(context.Background(), admin, UserCreateInput{
		Name: "Eve", Email: "eve@example.com", Password: "EvePass123", Role: domain.Role("superuser"),
	}); err == nil {
		t.Fatalf("expected invalid role to fail")
	}
}

func TestListByCreatorNewestFirst(t *testing.T) {
	repo := newMemUserRepo()
	s := NewUserService(repo, nil, 4)
	admin := seedUser(t, repo, "admin@example.com", "AdminPass1", domain.RoleAdmin, true, nil)
	first := seedUser(t, repo, "one@example.com", "Pass12345", domain.RoleUser, true, &admin.ID)
	second := seedUser(t, repo, "two@example.com", "Pass12345", domain.RoleUser, true, &admin.ID)

	users, err := s.ListByCreator(context.Background(), admin.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].ID != second.ID || users[1].ID != first.ID {
		t.Fatalf("expected newest first, got %s then %s", users[0].ID, users[1].ID)
	}
}

func TestUpdateUserPartial(t *testing.T) {
	repo := newMemUserRepo()
	s := NewUserService(repo, nil, 4)
	admin := seedUser(t, repo, "admin@example.com", "AdminPass1", domain.RoleAdmin, true, nil)
	user := seedUser(t, repo, "bob@example.com", "BobPass123", domain.RoleUser, true, &admin.ID)

	inactive := false
	updated, err := s.Update(context.Background(), admin, user.ID, UserUpdateInput{IsActive: &inactive})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.IsActive {
		t.Fatalf("expected user deactivated")
	}
	if updated.Name != user.Name || updated.Email != user.Email {
		t.Fatalf("expected untouched fields preserved: %+v", updated)
	}

	if _, err := s.Update(context.Background(), admin, "u-404", UserUpdateInput{}); err == nil {
		t.Fatalf("expected unknown user to fail")
	} else if status := statusOf(t, err); status != 404 {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestDeleteUserRefusesAdmins(t *testing.T) {
	repo := newMemUserRepo()
	s := NewUserService(repo, nil, 4)
	admin := seedUser(t, repo, "admin@example.com", "AdminPass1", domain.RoleAdmin, true, nil)
	other := seedUser(t, repo, "admin2@example.com", "AdminPass2", domain.RoleAdmin, true, nil)
	user := seedUser(t, repo, "bob@example.com", "BobPass123", domain.RoleUser, true, &admin.ID)

	if err := s.Delete(context.Background(), admin, other.ID); err == nil {
		t.Fatalf("expected deleting an admin to fail")
	} else if status := statusOf(t, err); status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}

	if err := s.Delete(context.Background(), admin, user.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.Get(context.Background(), user.ID); err == nil {
		t.Fatalf("expected user gone after delete")
	}
}

func TestBulkSetActiveSkipsAdmins(t *testing.T) {
	repo := newMemUserRepo()
	s := NewUserService(repo, nil, 4)
	admin := seedUser(t, repo, "admin@example.com", "AdminPass1", domain.RoleAdmin, true, nil)
	seedUser(t, repo, "one@example.com", "Pass12345", domain.RoleUser, true, &admin.ID)
	seedUser(t, repo, "two@example.com", "Pass12345", domain.RoleUser, true, &admin.ID)

	count, err := s.BulkSetActive(context.Background(), admin, false)
	if err != nil {
		t.Fatalf("bulk update failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows updated, got %d", count)
	}

	refreshed, err := s.Get(context.Background(), admin.ID)
	if err != nil {
		t.Fatalf("get admin failed: %v", err)
	}
	if !refreshed.IsActive {
		t.Fatalf("expected admin untouched by bulk update")
	}
}

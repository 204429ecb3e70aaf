package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/parking-ticket-service/internal/domain"
	"github.com/spec-kit/parking-ticket-service/internal/repository"
	apperrors "github.com/spec-kit/parking-ticket-service/pkg/util"
)

const principalKey = "auth_principal"

// Middleware validates bearer tokens and loads the caller's user record.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes. The looked-up
// user, not the token payload, becomes the request principal, so a
// deactivated account is rejected even while its token is still within
// the validity window. Store faults during the lookup deny with 401
// rather than surfacing as 500.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("No token, authorization denied")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("No token, authorization denied")
	}

	claims, err := m.tokens.Parse(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("Token is not valid")
	}

	// One store lookup per request, keyed by the token's email claim.
	user, err := m.users.GetByEmail(c.UserContext(), claims.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("User not found")
		}
		return apperrors.NewUnauthorized("Token is not valid")
	}

	if !user.IsActive {
		return apperrors.NewForbidden("Your account has been disabled")
	}

	c.Locals(principalKey, user)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated user.
func PrincipalFromContext(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(principalKey).(*domain.User)
	return user, ok
}

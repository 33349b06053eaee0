package ports

import (
	"context"

	"github.com/watergb/billing-system/internal/core/domain"
)

// TokenService issues and verifies signed, time-limited identity assertions.
// Verification is stateless; there is no revocation list, so a compromised
// token stays valid until natural expiry.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	Verify(token string) (*domain.TokenClaims, error)
}

type AuthService interface {
	Register(ctx context.Context, username, password, role string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}

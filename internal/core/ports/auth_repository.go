package ports

import (
	"context"

	"github.com/watergb/billing-system/internal/core/domain"
)

// AuthRepository defines the interface for user credential persistence.
type AuthRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByID is used by the RBAC middleware to re-check the current role on
	// every privileged request instead of trusting the role baked into a token.
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

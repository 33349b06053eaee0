package domain

import "time"

const (
	RoleAdmin    = "admin"
	RoleStandard = "standard"
)

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsValidRole reports whether r is one of the known roles.
func IsValidRole(r string) bool {
	return r == RoleAdmin || r == RoleStandard
}

// TokenClaims is the verified identity assertion derived from a presented
// token. It lives only for the duration of a single request and is never
// persisted.
type TokenClaims struct {
	UserID    string
	Username  string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

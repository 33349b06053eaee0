package domain

import "errors"

// Sentinel errors shared across the core. Storage-specific error encodings
// (duplicate keys, missing documents) are translated into these at the
// repository boundary so services never inspect driver errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("access forbidden")

	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")

	ErrNeighborhoodExists   = errors.New("neighborhood already exists")
	ErrNeighborhoodNotFound = errors.New("neighborhood not found")
	ErrSquareNotFound       = errors.New("square not found")
	ErrHouseNotFound        = errors.New("house not found")
	ErrDuplicateHouse       = errors.New("house number already exists in this square")
)

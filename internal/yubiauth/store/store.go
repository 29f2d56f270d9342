// Package store is the data access boundary for device registrations.
// Concrete drivers (sqlite) implement it.
package store

import (
	"context"
	"errors"

	"github.com/javaqube/cas/internal/yubiauth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface.
type Store interface {
	Devices() Devices

	ApplyMigrations() error

	// Close releases the underlying database handle.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Devices holds YubiKey registrations. The authentication path only reads;
// writes exist for seeding and operational tooling, there is no enrollment
// flow in this service.
type Devices interface {
	// CreateDevice inserts a registration (id is app-provided ULID).
	// Returns ErrAlreadyExists when (userID, publicID) is already held.
	CreateDevice(ctx context.Context, d domain.Device) error

	// GetDevicesForUser lists a user's registrations, newest first.
	GetDevicesForUser(ctx context.Context, userID string) ([]domain.Device, error)

	// IsRegistered reports whether publicID is registered for userID.
	IsRegistered(ctx context.Context, userID, publicID string) (bool, error)

	// DeleteDevice removes one registration. Returns ErrNotFound when the
	// pair does not exist.
	DeleteDevice(ctx context.Context, userID, publicID string) error
}

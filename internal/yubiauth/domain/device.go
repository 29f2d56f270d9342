package domain

import "time"

// Device is one registered YubiKey: the fact that a user may authenticate
// with the device carrying this public id.
type Device struct {
	ID        string // ULID
	UserID    string
	PublicID  string // modhex device prefix, not secret
	Name      string // optional operator-facing label
	CreatedAt time.Time
}

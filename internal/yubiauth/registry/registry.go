// Package registry defines the account registry capability: the enrollment
// store answering whether a device public id is registered to a user.
// Enrollment itself happens elsewhere; authenticators only read.
package registry

import "context"

// AccountRegistry answers registration queries. Implementations must be
// side-effect free and safe for concurrent use.
type AccountRegistry interface {
	// IsRegistered reports whether the device with publicID is registered
	// for userID.
	IsRegistered(ctx context.Context, userID, publicID string) (bool, error)
}

package registry

import (
	"context"
	"fmt"

	"github.com/javaqube/cas/internal/yubiauth/store"
)

// StoreRegistry reads registrations from the device store.
type StoreRegistry struct {
	Store store.Store
}

func (r *StoreRegistry) IsRegistered(ctx context.Context, userID, publicID string) (bool, error) {
	ok, err := r.Store.Devices().IsRegistered(ctx, userID, publicID)
	if err != nil {
		return false, fmt.Errorf("registry: device lookup: %w", err)
	}
	return ok, nil
}

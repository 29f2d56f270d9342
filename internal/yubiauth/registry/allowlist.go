package registry

import (
	"context"
	"fmt"
	"strings"
)

// Allowlist is a static in-memory registry, typically parsed from
// configuration. Lookups never fail.
type Allowlist struct {
	entries map[string]map[string]struct{}
}

// NewAllowlist builds an allowlist from a user -> device public ids mapping.
func NewAllowlist(entries map[string][]string) *Allowlist {
	m := make(map[string]map[string]struct{}, len(entries))
	for user, ids := range entries {
		devices := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			devices[id] = struct{}{}
		}
		m[user] = devices
	}
	return &Allowlist{entries: m}
}

// ParseAllowlist parses "user:publicid" pairs separated by commas or
// whitespace, e.g. "alice:ccccccbchvth, bob:ccccccdefghi". A user may appear
// multiple times to register several devices.
func ParseAllowlist(s string) (*Allowlist, error) {
	entries := make(map[string][]string)
	for _, pair := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	}) {
		user, publicID, ok := strings.Cut(pair, ":")
		if !ok || user == "" || publicID == "" {
			return nil, fmt.Errorf("registry: malformed allowlist entry %q", pair)
		}
		entries[user] = append(entries[user], publicID)
	}
	return NewAllowlist(entries), nil
}

func (a *Allowlist) IsRegistered(_ context.Context, userID, publicID string) (bool, error) {
	devices, ok := a.entries[userID]
	if !ok {
		return false, nil
	}
	_, ok = devices[publicID]
	return ok, nil
}

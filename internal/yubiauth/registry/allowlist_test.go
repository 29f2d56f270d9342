package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAllowlist(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("parses comma and whitespace separated pairs", func(t *testing.T) {
		a, err := ParseAllowlist("alice:ccccccbchvth, bob:ccccccdefghi\nalice:cccccclnrtuv")
		require.NoError(t, err)

		ok, err := a.IsRegistered(ctx, "alice", "ccccccbchvth")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = a.IsRegistered(ctx, "alice", "cccccclnrtuv")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = a.IsRegistered(ctx, "bob", "ccccccdefghi")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("unknown user or device is not registered", func(t *testing.T) {
		a, err := ParseAllowlist("alice:ccccccbchvth")
		require.NoError(t, err)

		ok, err := a.IsRegistered(ctx, "alice", "ccccccother")
		require.NoError(t, err)
		require.False(t, ok)

		ok, err = a.IsRegistered(ctx, "mallory", "ccccccbchvth")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("empty input yields an empty registry", func(t *testing.T) {
		a, err := ParseAllowlist("")
		require.NoError(t, err)

		ok, err := a.IsRegistered(ctx, "alice", "ccccccbchvth")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("rejects malformed entries", func(t *testing.T) {
		_, err := ParseAllowlist("alice")
		require.Error(t, err)

		_, err = ParseAllowlist("alice:")
		require.Error(t, err)

		_, err = ParseAllowlist(":ccccccbchvth")
		require.Error(t, err)
	})
}

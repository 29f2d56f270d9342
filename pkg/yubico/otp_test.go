package yubico

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleOTP = "ccccccbchvthlhgvjksnhgcvkleittvhgvklutcvlrj"

func TestIsValidOTPFormat(t *testing.T) {
	t.Parallel()

	t.Run("accepts a real device token", func(t *testing.T) {
		require.True(t, IsValidOTPFormat(sampleOTP))
	})

	t.Run("accepts the minimum length token", func(t *testing.T) {
		require.True(t, IsValidOTPFormat(strings.Repeat("c", OTPMinLength)))
	})

	t.Run("accepts the maximum length token", func(t *testing.T) {
		require.True(t, IsValidOTPFormat(strings.Repeat("v", OTPMaxLength)))
	})

	t.Run("rejects short tokens", func(t *testing.T) {
		require.False(t, IsValidOTPFormat("short"))
		require.False(t, IsValidOTPFormat(""))
	})

	t.Run("rejects overlong tokens", func(t *testing.T) {
		require.False(t, IsValidOTPFormat(strings.Repeat("c", OTPMaxLength+1)))
	})

	t.Run("rejects non-printable characters", func(t *testing.T) {
		require.False(t, IsValidOTPFormat(sampleOTP[:len(sampleOTP)-1]+"\n"))
		require.False(t, IsValidOTPFormat(strings.Repeat("\x01", 44)))
	})
}

func TestPublicID(t *testing.T) {
	t.Parallel()

	t.Run("extracts the prefix before the passcode", func(t *testing.T) {
		id, err := PublicID(sampleOTP)
		require.NoError(t, err)
		require.Equal(t, sampleOTP[:len(sampleOTP)-32], id)
	})

	t.Run("minimum length token has an empty public id", func(t *testing.T) {
		id, err := PublicID(strings.Repeat("c", OTPMinLength))
		require.NoError(t, err)
		require.Empty(t, id)
	})

	t.Run("rejects malformed tokens", func(t *testing.T) {
		_, err := PublicID("short")
		require.ErrorIs(t, err, ErrInvalidOTP)
	})
}

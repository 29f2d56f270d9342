package yubico

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef")

func testKeyB64() string { return base64.StdEncoding.EncodeToString(testKey) }

// validationServer fakes a validation endpoint. It echoes the request otp
// and nonce, answers with the given status, and signs the response with
// testKey unless tamper is set.
func validationServer(t *testing.T, status Status, tamper bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		fields := map[string]string{
			"otp":    q.Get("otp"),
			"nonce":  q.Get("nonce"),
			"t":      "2026-08-23T10:00:00Z0123",
			"status": string(status),
		}
		fields["h"] = sign(fields, testKey)
		if tamper {
			fields["status"] = string(StatusOK) // signature no longer covers this
		}
		for k, v := range fields {
			fmt.Fprintf(w, "%s=%s\r\n", k, v)
		}
	}))
}

func TestClientVerify(t *testing.T) {
	t.Run("parses a signed OK response", func(t *testing.T) {
		srv := validationServer(t, StatusOK, false)
		defer srv.Close()

		c, err := NewClient("12345", testKeyB64(), srv.URL)
		require.NoError(t, err)

		res, err := c.Verify(context.Background(), sampleOTP)
		require.NoError(t, err)
		require.Equal(t, StatusOK, res.Status)
		require.Equal(t, sampleOTP, res.OTP)
		require.NotEmpty(t, res.Nonce)
		require.Equal(t, "2026-08-23T10:00:00Z0123", res.Timestamp)
	})

	t.Run("returns non-OK statuses without error", func(t *testing.T) {
		srv := validationServer(t, StatusReplayedOTP, false)
		defer srv.Close()

		c, err := NewClient("12345", testKeyB64(), srv.URL)
		require.NoError(t, err)

		res, err := c.Verify(context.Background(), sampleOTP)
		require.NoError(t, err)
		require.Equal(t, StatusReplayedOTP, res.Status)
	})

	t.Run("rejects tampered responses", func(t *testing.T) {
		srv := validationServer(t, StatusBadOTP, true)
		defer srv.Close()

		c, err := NewClient("12345", testKeyB64(), srv.URL)
		require.NoError(t, err)

		_, err = c.Verify(context.Background(), sampleOTP)
		require.ErrorIs(t, err, ErrBadResponseSignature)
	})

	t.Run("skips signature checks without a key", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "status=OK\r\n")
		}))
		defer srv.Close()

		c, err := NewClient("12345", "", srv.URL)
		require.NoError(t, err)

		res, err := c.Verify(context.Background(), sampleOTP)
		require.NoError(t, err)
		require.Equal(t, StatusOK, res.Status)
	})

	t.Run("rejects responses echoing a different otp", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "otp=vvvvvvcucrlcrrcgckcvlricrbhthjhjhgvkibhr\r\nstatus=OK\r\n")
		}))
		defer srv.Close()

		c, err := NewClient("12345", "", srv.URL)
		require.NoError(t, err)

		_, err = c.Verify(context.Background(), sampleOTP)
		require.ErrorIs(t, err, ErrResponseMismatch)
	})

	t.Run("fails over to the next endpoint on transport errors", func(t *testing.T) {
		srv := validationServer(t, StatusOK, false)
		defer srv.Close()

		// First endpoint refuses connections; second answers.
		dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		dead.Close()

		c, err := NewClient("12345", testKeyB64(), dead.URL, srv.URL)
		require.NoError(t, err)

		res, err := c.Verify(context.Background(), sampleOTP)
		require.NoError(t, err)
		require.Equal(t, StatusOK, res.Status)
	})

	t.Run("reports when all endpoints fail", func(t *testing.T) {
		dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		dead.Close()

		c, err := NewClient("12345", "", dead.URL)
		require.NoError(t, err)

		_, err = c.Verify(context.Background(), sampleOTP)
		require.Error(t, err)
	})

	t.Run("rejects malformed tokens locally", func(t *testing.T) {
		c, err := NewClient("12345", "", "http://127.0.0.1:0")
		require.NoError(t, err)

		_, err = c.Verify(context.Background(), "short")
		require.ErrorIs(t, err, ErrInvalidOTP)
	})
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("requires a client id", func(t *testing.T) {
		_, err := NewClient("", "")
		require.Error(t, err)
	})

	t.Run("rejects a non-base64 secret", func(t *testing.T) {
		_, err := NewClient("12345", "not base64!!")
		require.Error(t, err)
	})

	t.Run("defaults to the public endpoints", func(t *testing.T) {
		c, err := NewClient("12345", "")
		require.NoError(t, err)
		require.Equal(t, DefaultEndpoints, c.endpoints)
	})
}

func TestSignAndParse(t *testing.T) {
	t.Parallel()

	t.Run("signature excludes the h field and sorts keys", func(t *testing.T) {
		params := map[string]string{"otp": "x", "id": "1", "nonce": "n"}
		h := sign(params, testKey)
		params["h"] = h
		require.Equal(t, h, sign(params, testKey))
		require.True(t, verifySignature(params, testKey))
	})

	t.Run("parse keeps '=' inside values", func(t *testing.T) {
		fields := parseResponse("h=abc=def==\r\nstatus=OK\r\n\r\n")
		require.Equal(t, "abc=def==", fields["h"])
		require.Equal(t, "OK", fields["status"])
	})
}

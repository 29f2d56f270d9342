package yubico

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/javaqube/cas/pkg/idx"
)

// DefaultEndpoints are the public YubiCloud validation servers. Any server
// speaking validation protocol 2.0 may be substituted.
var DefaultEndpoints = []string{
	"https://api.yubico.com/wsapi/2.0/verify",
	"https://api2.yubico.com/wsapi/2.0/verify",
	"https://api3.yubico.com/wsapi/2.0/verify",
}

var (
	// ErrBadResponseSignature reports a response whose HMAC did not verify
	// against the shared API key.
	ErrBadResponseSignature = errors.New("yubico: response signature mismatch")

	// ErrResponseMismatch reports a response that echoed a different otp or
	// nonce than the request carried.
	ErrResponseMismatch = errors.New("yubico: response otp/nonce does not match request")

	// ErrMissingStatus reports a response without a status field.
	ErrMissingStatus = errors.New("yubico: response missing status")
)

// VerificationResult is the parsed outcome of a successful verify round trip.
// Status says what the server decided; it is not an error for Status to be
// anything other than OK.
type VerificationResult struct {
	OTP    string
	Nonce  string
	Status Status

	// Timestamp is the server "t" parameter: a UTC timestamp of the
	// verification event with a millisecond suffix, returned verbatim.
	Timestamp string
}

// Client verifies OTPs against a set of validation servers. Construct with
// NewClient; the zero value is not usable. Safe for concurrent use.
type Client struct {
	clientID  string
	key       []byte // decoded API key; empty disables request/response signing
	endpoints []string
	httpc     *http.Client
}

// NewClient builds a client for the given API credentials. secretKey is the
// base64 encoded shared key issued alongside the client id; it may be empty,
// in which case requests are not signed and response signatures are not
// checked. Endpoints default to the public YubiCloud servers.
func NewClient(clientID, secretKey string, endpoints ...string) (*Client, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, errors.New("yubico: client id is required")
	}

	var key []byte
	if secretKey != "" {
		k, err := base64.StdEncoding.DecodeString(secretKey)
		if err != nil {
			return nil, fmt.Errorf("yubico: decode secret key: %w", err)
		}
		key = k
	}

	if len(endpoints) == 0 {
		endpoints = DefaultEndpoints
	}

	return &Client{
		clientID:  clientID,
		key:       key,
		endpoints: endpoints,
		httpc:     &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Verify submits otp to the validation servers in order and returns the
// first parsed response. Transport failures fall through to the next
// endpoint; signature and echo mismatches abort immediately since a retry
// cannot make a tampered answer trustworthy. Verify never retries a
// definitive server answer.
func (c *Client) Verify(ctx context.Context, otp string) (VerificationResult, error) {
	if !IsValidOTPFormat(otp) {
		return VerificationResult{}, ErrInvalidOTP
	}

	// The nonce must be 16-40 alphanumeric characters, unique per request.
	nonce := strings.ToLower(idx.New().String())

	params := map[string]string{
		"id":    c.clientID,
		"otp":   otp,
		"nonce": nonce,
	}
	if len(c.key) > 0 {
		params["h"] = sign(params, c.key)
	}

	var lastErr error
	for _, endpoint := range c.endpoints {
		res, err := c.verifyOnce(ctx, endpoint, otp, nonce, params)
		if err != nil {
			if errors.Is(err, ErrBadResponseSignature) || errors.Is(err, ErrResponseMismatch) {
				return VerificationResult{}, err
			}
			lastErr = err
			continue
		}
		return res, nil
	}

	return VerificationResult{}, fmt.Errorf("yubico: all validation endpoints failed: %w", lastErr)
}

func (c *Client) verifyOnce(ctx context.Context, endpoint, otp, nonce string, params map[string]string) (VerificationResult, error) {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return VerificationResult{}, fmt.Errorf("yubico: build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return VerificationResult{}, fmt.Errorf("yubico: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return VerificationResult{}, fmt.Errorf("yubico: %s: unexpected http status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if err != nil {
		return VerificationResult{}, fmt.Errorf("yubico: read response: %w", err)
	}

	fields := parseResponse(string(body))

	if len(c.key) > 0 && !verifySignature(fields, c.key) {
		return VerificationResult{}, ErrBadResponseSignature
	}

	status, ok := fields["status"]
	if !ok {
		return VerificationResult{}, ErrMissingStatus
	}

	// Servers echo otp and nonce on definitive answers; when present they
	// must match what we sent or the answer is for someone else's request.
	if v, ok := fields["otp"]; ok && v != otp {
		return VerificationResult{}, ErrResponseMismatch
	}
	if v, ok := fields["nonce"]; ok && v != nonce {
		return VerificationResult{}, ErrResponseMismatch
	}

	return VerificationResult{
		OTP:       otp,
		Nonce:     nonce,
		Status:    Status(status),
		Timestamp: fields["t"],
	}, nil
}

// sign computes the protocol HMAC-SHA1 over the alphabetically sorted
// key=value pairs joined with '&', excluding the h field itself, and returns
// it base64 encoded.
func sign(params map[string]string, key []byte) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "h" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	mac := hmac.New(sha1.New, key)
	mac.Write([]byte(strings.Join(pairs, "&")))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func verifySignature(fields map[string]string, key []byte) bool {
	got, ok := fields["h"]
	if !ok {
		return false
	}
	return hmac.Equal([]byte(got), []byte(sign(fields, key)))
}

// parseResponse splits the line-oriented key=value response body. Values may
// themselves contain '=' (base64 signatures), so only the first separator
// counts.
func parseResponse(body string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[k] = v
	}
	return fields
}

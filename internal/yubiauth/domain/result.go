package domain

import (
	"errors"
	"fmt"

	"github.com/javaqube/cas/pkg/yubico"
)

// Principal is the identity bound by a successful authentication attempt.
// The remote service authenticates the device; the user binding comes from
// the claimed user id, gated by the account registry when one is configured.
type Principal struct {
	ID string
}

// AuthenticationResult is the success value of one attempt. Failures are the
// typed errors below; there is no partial state in between.
type AuthenticationResult struct {
	Principal  Principal
	Credential Credential
}

// ErrMalformedCredential reports a token rejected by local format
// validation, before any I/O.
var ErrMalformedCredential = errors.New("otp token failed format validation")

// UnknownAccountError reports a device that the configured registry does not
// hold for the claimed user.
type UnknownAccountError struct {
	UserID   string
	PublicID string
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("yubikey device %q is not registered for user %q", e.PublicID, e.UserID)
}

// VerificationFailedError reports that the remote verification call itself
// errored: transport failure, unparseable response, or a response the client
// library refused to trust. The attempt is terminal; retry policy, if any,
// lives in the verifier.
type VerificationFailedError struct {
	Cause error
}

func (e *VerificationFailedError) Error() string {
	return "otp verification call failed: " + e.Cause.Error()
}

func (e *VerificationFailedError) Unwrap() error { return e.Cause }

// VerificationRejectedError reports a remote call that succeeded but
// answered with a non-OK status.
type VerificationRejectedError struct {
	Status yubico.Status
}

func (e *VerificationRejectedError) Error() string {
	return "otp rejected by validation service with status " + e.Status.String()
}

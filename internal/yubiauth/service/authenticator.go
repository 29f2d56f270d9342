package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/javaqube/cas/internal/yubiauth/domain"
	"github.com/javaqube/cas/internal/yubiauth/registry"
	"github.com/javaqube/cas/pkg/slogx"
	"github.com/javaqube/cas/pkg/yubico"
)

// RemoteVerifier is the validation-service capability. *yubico.Client
// satisfies it; tests substitute deterministic stubs. A returned error means
// the call itself failed; a non-OK status arrives inside the result.
type RemoteVerifier interface {
	Verify(ctx context.Context, otp string) (yubico.VerificationResult, error)
}

// OTPAuthenticator decides one YubiKey OTP authentication attempt. It holds
// no mutable state, so a single instance serves concurrent attempts.
type OTPAuthenticator struct {
	verifier RemoteVerifier
	registry registry.AccountRegistry // nil: every device is eligible
}

// NewOTPAuthenticator wires the authenticator. reg may be nil, which means
// any device may authenticate for any user; that open mode is logged loudly
// since it removes the user-to-device binding.
func NewOTPAuthenticator(verifier RemoteVerifier, reg registry.AccountRegistry, logger *slog.Logger) *OTPAuthenticator {
	if reg == nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("no yubikey account registry configured, all devices are eligible for all users")
	}
	return &OTPAuthenticator{verifier: verifier, registry: reg}
}

// Supports reports whether this authenticator can decide credentials of the
// given kind. The dispatching framework must consult it before calling
// Authenticate.
func (a *OTPAuthenticator) Supports(kind domain.CredentialKind) bool {
	return kind == domain.KindYubiKeyOTP
}

// Authenticate runs the authentication gates in order: local format check,
// registry check, remote verification, status check. Each gate is terminal
// on failure and the cheap local checks run before any I/O.
//
// claimedUserID is the identity the surrounding session established; the
// remote service authenticates the device only, so the user binding comes
// entirely from the registry gate when a registry is configured.
//
// Failures are always surfaced to the caller, classified as
// domain.ErrMalformedCredential, *domain.UnknownAccountError,
// *domain.VerificationFailedError or *domain.VerificationRejectedError.
// Registry lookup I/O errors propagate unclassified.
func (a *OTPAuthenticator) Authenticate(ctx context.Context, cred domain.Credential, claimedUserID string) (domain.AuthenticationResult, error) {
	log := slogx.FromContext(ctx)

	otp := cred.Token()
	publicID, err := yubico.PublicID(otp)
	if err != nil {
		log.Debug("otp failed format validation", "user_id", claimedUserID, "otp_len", len(otp))
		return domain.AuthenticationResult{}, domain.ErrMalformedCredential
	}

	// The public id is the non-secret device prefix; the full token must
	// never reach the logs.
	log = log.With("user_id", claimedUserID, "public_id", publicID)

	if a.registry != nil {
		registered, err := a.registry.IsRegistered(ctx, claimedUserID, publicID)
		if err != nil {
			return domain.AuthenticationResult{}, fmt.Errorf("registry lookup: %w", err)
		}
		if !registered {
			log.Info("device not registered for user")
			return domain.AuthenticationResult{}, &domain.UnknownAccountError{
				UserID:   claimedUserID,
				PublicID: publicID,
			}
		}
	}

	res, err := a.verifier.Verify(ctx, otp)
	if err != nil {
		log.Error("otp verification call failed", "err", err)
		return domain.AuthenticationResult{}, &domain.VerificationFailedError{Cause: err}
	}

	if res.Status != yubico.StatusOK {
		log.Info("otp rejected by validation service", "status", res.Status.String())
		return domain.AuthenticationResult{}, &domain.VerificationRejectedError{Status: res.Status}
	}

	log.Debug("otp verified", "status", res.Status.String(), "verified_at", res.Timestamp)
	return domain.AuthenticationResult{
		Principal:  domain.Principal{ID: claimedUserID},
		Credential: cred,
	}, nil
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/javaqube/cas/internal/yubiauth/domain"
	"github.com/javaqube/cas/pkg/httpx"
	"github.com/javaqube/cas/pkg/slogx"
)

// Authenticator is the decision capability behind the authenticate endpoint.
type Authenticator interface {
	Supports(kind domain.CredentialKind) bool
	Authenticate(ctx context.Context, cred domain.Credential, claimedUserID string) (domain.AuthenticationResult, error)
}

// AuthenticateHandler handles POST /v1/otp/authenticate.
type AuthenticateHandler struct {
	Authenticator Authenticator
}

type authenticateRequest struct {
	Token string `json:"token"`
}

type authenticateResponse struct {
	Result string `json:"result"` // always "ok"
	UserID string `json:"user_id"`
}

// ServeHTTP decides one OTP authentication attempt. The claimed user id
// comes from the bearer session token verified upstream; the body carries
// only the OTP itself.
func (h *AuthenticateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "no authenticated session")
		return
	}

	var req authenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse authenticate request", "err", err)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cred := domain.NewOTPCredential(req.Token)
	if !h.Authenticator.Supports(cred.Kind()) {
		httpx.WriteError(w, http.StatusBadRequest, "unsupported_credential", "credential kind not supported by this endpoint")
		return
	}

	result, err := h.Authenticator.Authenticate(ctx, cred, userID)
	if err != nil {
		writeAuthenticationFailure(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authenticateResponse{
		Result: "ok",
		UserID: result.Principal.ID,
	})
}

// writeAuthenticationFailure maps the decision taxonomy onto HTTP statuses.
// The response deliberately carries no more detail than the caller needs;
// full context is in the logs.
func writeAuthenticationFailure(w http.ResponseWriter, err error) {
	var (
		unknownErr  *domain.UnknownAccountError
		rejectedErr *domain.VerificationRejectedError
		failedErr   *domain.VerificationFailedError
	)

	switch {
	case errors.Is(err, domain.ErrMalformedCredential):
		httpx.WriteError(w, http.StatusBadRequest, "malformed_credential", "otp token has an invalid format")
	case errors.As(err, &unknownErr):
		httpx.WriteError(w, http.StatusForbidden, "unknown_account", "device is not registered for this user")
	case errors.As(err, &rejectedErr):
		httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{
			"error":             "verification_rejected",
			"error_description": "validation service rejected the otp",
			"status":            rejectedErr.Status.String(),
		})
	case errors.As(err, &failedErr):
		httpx.WriteError(w, http.StatusBadGateway, "verification_failed", "validation service could not be reached")
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}

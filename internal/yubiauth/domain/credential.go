package domain

// CredentialKind tags the credential variants the dispatching framework can
// route to an authenticator. Each authenticator declares the kinds it
// supports; dispatch happens before Authenticate is ever called.
type CredentialKind string

// KindYubiKeyOTP is a one-time password emitted by a YubiKey device.
const KindYubiKeyOTP CredentialKind = "yubikey-otp"

// Credential holds one user-presented OTP token. It is immutable once
// constructed; build a fresh value per authentication attempt and discard it
// when the attempt completes. The token is a single-use secret, so
// Credential deliberately has no String method.
type Credential struct {
	kind  CredentialKind
	token string
}

// NewOTPCredential wraps a raw YubiKey OTP token.
func NewOTPCredential(token string) Credential {
	return Credential{kind: KindYubiKeyOTP, token: token}
}

func (c Credential) Kind() CredentialKind { return c.kind }

// Token returns the raw OTP. Never log it; use the public id prefix instead.
func (c Credential) Token() string { return c.token }

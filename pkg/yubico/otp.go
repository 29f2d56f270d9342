// Package yubico implements the client side of the Yubico OTP validation
// protocol (version 2.0): lexical OTP validation, public-id extraction, and
// the signed HTTP verify call against a set of validation servers.
package yubico

import "errors"

// OTP length bounds defined by the validation protocol. A factory-programmed
// YubiKey emits a 44 character token (12 character public id followed by a
// 32 character passcode), but the public id portion varies with how the
// device was programmed.
const (
	OTPMinLength = 32
	OTPMaxLength = 48

	// passcodeLength is the fixed one-time suffix; everything before it is
	// the public id.
	passcodeLength = 32
)

// ModhexAlphabet is the keyboard-layout independent encoding
// factory-programmed YubiKeys type with. Devices can be reprogrammed to
// other scancode maps, so format validation does not pin tokens to this
// alphabet; it accepts any printable ASCII within the length bounds, exactly
// as the validation servers do.
const ModhexAlphabet = "cbdefghijklnrtuv"

// ErrInvalidOTP reports a token that does not have the shape of a YubiKey
// OTP.
var ErrInvalidOTP = errors.New("yubico: invalid otp format")

// IsValidOTPFormat reports whether otp is lexically a YubiKey OTP: printable
// ASCII within the protocol length bounds. It is a purely local check and
// performs no I/O.
func IsValidOTPFormat(otp string) bool {
	if len(otp) < OTPMinLength || len(otp) > OTPMaxLength {
		return false
	}
	for i := 0; i < len(otp); i++ {
		if otp[i] < 0x20 || otp[i] > 0x7e {
			return false
		}
	}
	return true
}

// PublicID extracts the device public identifier from an OTP: everything
// before the trailing one-time passcode. The public id names the issuing
// device and is not secret.
func PublicID(otp string) (string, error) {
	if !IsValidOTPFormat(otp) {
		return "", ErrInvalidOTP
	}
	return otp[:len(otp)-passcodeLength], nil
}

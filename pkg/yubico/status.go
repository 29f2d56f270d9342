package yubico

// Status is a validation server response status. It is string typed so that
// codes unknown to this client are carried through verbatim instead of being
// lost; callers must compare against the exact constant they accept.
type Status string

const (
	// StatusOK is the only status that means the OTP is valid.
	StatusOK Status = "OK"

	StatusBadOTP              Status = "BAD_OTP"
	StatusReplayedOTP         Status = "REPLAYED_OTP"
	StatusBadSignature        Status = "BAD_SIGNATURE"
	StatusMissingParameter    Status = "MISSING_PARAMETER"
	StatusNoSuchClient        Status = "NO_SUCH_CLIENT"
	StatusOperationNotAllowed Status = "OPERATION_NOT_ALLOWED"
	StatusBackendError        Status = "BACKEND_ERROR"
	StatusNotEnoughAnswers    Status = "NOT_ENOUGH_ANSWERS"
	StatusReplayedRequest     Status = "REPLAYED_REQUEST"
	StatusServerTimeout       Status = "SERVER_TIMEOUT"
)

var knownStatuses = map[Status]struct{}{
	StatusOK:                  {},
	StatusBadOTP:              {},
	StatusReplayedOTP:         {},
	StatusBadSignature:        {},
	StatusMissingParameter:    {},
	StatusNoSuchClient:        {},
	StatusOperationNotAllowed: {},
	StatusBackendError:        {},
	StatusNotEnoughAnswers:    {},
	StatusReplayedRequest:     {},
	StatusServerTimeout:       {},
}

// Known reports whether s is a status this client recognises.
func (s Status) Known() bool {
	_, ok := knownStatuses[s]
	return ok
}

func (s Status) String() string {
	if s == "" {
		return "UNKNOWN"
	}
	return string(s)
}

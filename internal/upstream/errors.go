package upstream

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
)

// Kind classifies upstream failures for the workflow layer. Every error
// leaving this package carries exactly one Kind and a user-facing message.
type Kind string

const (
	KindAuthRequired Kind = "auth_required"  // 401: force re-login
	KindForbidden    Kind = "forbidden"      // 403: message only, sometimes benign
	KindValidation   Kind = "validation"     // 400: server rejected the payload
	KindConflict     Kind = "conflict"       // 409 or duplicate-pattern message
	KindNotFound     Kind = "not_found"      // 404
	KindServer       Kind = "server"         // other 4xx/5xx
	KindNetwork      Kind = "network"        // status 0: transport failure
)

// duplicatePattern matches the upstream's duplicate-reservation wording in
// both languages it has been observed to use.
var duplicatePattern = regexp.MustCompile(`(?i)already|déjà|déja`)

// Error is a classified upstream failure. Message is safe to show to the
// user; it is derived from the server payload when present, else from a
// status-keyed default.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream: %s (status %d): %s", e.Kind, e.Status, e.Message)
}

// Unwrap exposes the transport-level cause, when there is one.
func (e *Error) Unwrap() error {
	return e.cause
}

// IsKind reports whether err is an upstream Error of the given kind.
func IsKind(err error, kind Kind) bool {
	ue, ok := err.(*Error)
	return ok && ue.Kind == kind
}

// IsAuthRequired reports whether err means the session must be re-established.
func IsAuthRequired(err error) bool { return IsKind(err, KindAuthRequired) }

// IsForbidden reports whether err is a permission boundary.
func IsForbidden(err error) bool { return IsKind(err, KindForbidden) }

// IsDuplicate reports whether err is a duplicate-reservation conflict:
// either a 409, or a 400 whose message matches the duplicate pattern.
func IsDuplicate(err error) bool {
	ue, ok := err.(*Error)
	if !ok {
		return false
	}
	if ue.Kind == KindConflict {
		return true
	}
	return ue.Status == http.StatusBadRequest && duplicatePattern.MatchString(ue.Message)
}

// errorBody is the upstream error payload shape.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// classify maps an HTTP response to an Error. body may be nil or garbage;
// the status-keyed default message is used when no server message survives
// decoding.
func classify(status int, body []byte) *Error {
	msg := ""
	if len(body) > 0 {
		var eb errorBody
		if err := json.Unmarshal(body, &eb); err == nil {
			if eb.Message != "" {
				msg = eb.Message
			} else if eb.Error != "" {
				msg = eb.Error
			}
		}
	}

	var kind Kind
	switch {
	case status == http.StatusUnauthorized:
		kind = KindAuthRequired
		if msg == "" {
			msg = "Your session has expired. Please log in again."
		}
	case status == http.StatusForbidden:
		kind = KindForbidden
		if msg == "" {
			msg = "You do not have permission to do this."
		}
	case status == http.StatusConflict:
		kind = KindConflict
		if msg == "" {
			msg = "You have already reserved this workshop."
		}
	case status == http.StatusNotFound:
		kind = KindNotFound
		if msg == "" {
			msg = "The requested resource was not found."
		}
	case status == http.StatusBadRequest:
		kind = KindValidation
		if duplicatePattern.MatchString(msg) {
			kind = KindConflict
		}
		if msg == "" {
			msg = "The submitted data is invalid."
		}
	default:
		kind = KindServer
		if msg == "" {
			msg = "An unexpected server error occurred. Please try again."
		}
	}
	return &Error{Kind: kind, Status: status, Message: msg}
}

// networkError wraps a transport-level failure as the status-0 case.
func networkError(err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Status:  0,
		Message: "Cannot reach the server. Check your connection.",
		cause:   err,
	}
}

package relay

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies why a generation failed.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfiguration means the upstream credential is missing.
	KindConfiguration
	// KindBadRequest means the inbound request body could not be decoded.
	KindBadRequest
	// KindRateLimited maps an upstream 429.
	KindRateLimited
	// KindQuotaExhausted maps an upstream 402.
	KindQuotaExhausted
	// KindUpstream is any other non-success upstream status.
	KindUpstream
	// KindTransport covers timeouts and connection failures.
	KindTransport
	// KindEmptyCompletion means the upstream reply carried no text.
	KindEmptyCompletion
	// KindMalformedJSON means the reply text was not valid JSON.
	KindMalformedJSON
	// KindInvalidShape means the JSON had no "tasks" array.
	KindInvalidShape
)

var kindNames = map[Kind]string{
	KindUnknown:         "unknown",
	KindConfiguration:   "configuration",
	KindBadRequest:      "bad_request",
	KindRateLimited:     "rate_limited",
	KindQuotaExhausted:  "quota_exhausted",
	KindUpstream:        "upstream",
	KindTransport:       "transport",
	KindEmptyCompletion: "empty_completion",
	KindMalformedJSON:   "malformed_json",
	KindInvalidShape:    "invalid_shape",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// User-facing messages returned in the relay's {"error": ...} body.
const (
	MsgConfiguration   = "LOVABLE_API_KEY is not configured"
	MsgBadRequest      = "Invalid request body"
	MsgRateLimited     = "Rate limit exceeded. Please try again later."
	MsgQuotaExhausted  = "AI credits exhausted. Please add more credits."
	MsgUpstream        = "Failed to generate tasks"
	MsgEmptyCompletion = "No content in AI response"
	MsgMalformedJSON   = "Failed to parse AI response as JSON"
	MsgInvalidShape    = "Invalid tasks structure in AI response"
)

// Error is the typed failure returned by Service.Generate.
// Message is safe to show to callers; StatusCode, Body and Err are diagnostics.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (upstream status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status the relay answers with for this error.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindQuotaExhausted:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// NewError builds an Error with the default message for kind.
func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Message: defaultMessage(kind), Err: err}
}

func defaultMessage(k Kind) string {
	switch k {
	case KindConfiguration:
		return MsgConfiguration
	case KindBadRequest:
		return MsgBadRequest
	case KindRateLimited:
		return MsgRateLimited
	case KindQuotaExhausted:
		return MsgQuotaExhausted
	case KindEmptyCompletion:
		return MsgEmptyCompletion
	case KindMalformedJSON:
		return MsgMalformedJSON
	case KindInvalidShape:
		return MsgInvalidShape
	default:
		return MsgUpstream
	}
}

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnknown
}

// HTTPStatusOf returns the relay status for err; untyped errors map to 500.
func HTTPStatusOf(err error) int {
	var re *Error
	if errors.As(err, &re) {
		return re.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// MessageOf returns the caller-safe message for err.
func MessageOf(err error) string {
	var re *Error
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return MsgUpstream
}

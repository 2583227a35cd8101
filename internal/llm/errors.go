package llm

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// StatusError reports a non-success HTTP status returned by the upstream provider.
type StatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// StatusCode extracts the upstream HTTP status from err, or 0 if err carries none.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Provider SDKs that hide the HTTP response still print the status in their
// error text, e.g. "status code: 429" or "Error 402".
var statusInTextRegex = regexp.MustCompile(`(?i)(?:status(?:\s*code)?|error|http)[\s:=]*([1-5]\d{2})\b`)

// statusFromText finds an HTTP status code inside an error message.
func statusFromText(msg string) int {
	m := statusInTextRegex.FindStringSubmatch(msg)
	if len(m) != 2 {
		return 0
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return code
}

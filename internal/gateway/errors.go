package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// GenericFailure is the message used when the server explains nothing.
const GenericFailure = "Request failed"

// RequestFailedError is a non-2xx response from the notes service.
type RequestFailedError struct {
	Op         string
	StatusCode int
	Message    string // server-provided, or the operation's fallback
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the service.
func IsUnauthorized(err error) bool {
	var rf *RequestFailedError
	return errors.As(err, &rf) && rf.StatusCode == http.StatusUnauthorized
}

func newRequestFailed(op string, status int, body []byte, fallback string) *RequestFailedError {
	msg := serverMessage(body)
	if msg == "" {
		msg = fallback
	}
	if msg == "" {
		msg = GenericFailure
	}
	return &RequestFailedError{Op: op, StatusCode: status, Message: msg}
}

// serverMessage extracts a human message from a JSON error body. It prefers
// "detail", "error" and "message" and otherwise reports the first field
// validation error, e.g. "title: This field is required.".
func serverMessage(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	for _, k := range []string{"detail", "error", "message"} {
		if s := stringOrFirst(fields[k]); s != "" {
			return s
		}
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s := stringOrFirst(fields[k]); s != "" {
			return k + ": " + s
		}
	}
	return ""
}

func stringOrFirst(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return strings.TrimSpace(list[0])
	}
	return ""
}

package net

import (
	"net/http"
	"time"

	perr "mixtape/internal/platform/errors"
)

// Envelope is the body every response carries
// failures fill code, error and timestamp, successes fill data
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Timestamp  string         `json:"timestamp,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// now is swapped in tests
var now = time.Now

// Reply builds a success envelope for status
func Reply(status int, data any, reqID string) Envelope {
	return Envelope{StatusCode: status, Status: http.StatusText(status), RequestID: reqID, Data: data}
}

// Failure maps err to its HTTP status and error envelope
// only project errors show their message, anything else reads "internal error"
func Failure(err error, reqID string) (int, Envelope) {
	code, msg, field := perr.Public(err)
	status := code.Status()
	return status, Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       code,
		Error:      msg,
		Field:      field,
		RequestID:  reqID,
		Timestamp:  now().UTC().Format(time.RFC3339Nano),
	}
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vocdoni/beleniosrf/log"
)

// Error is the error returned by the audit API handlers. Code identifies
// the failure for clients and HTTPstatus is the status of the response.
type Error struct {
	Err        error
	Code       int
	HTTPstatus int
}

type errorResponse struct {
	Err  string `json:"error"`
	Code int    `json:"code"`
}

// MarshalJSON encodes the error message and the code, e.g.
// {"error":"ballot not found: 0a1b","code":40005}.
func (e Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(errorResponse{Err: e.Err.Error(), Code: e.Code})
}

func (e Error) Error() string {
	return e.Err.Error()
}

func (e Error) Unwrap() error {
	return e.Err
}

// Write sends the error to the client with its HTTP status.
func (e Error) Write(w http.ResponseWriter) {
	msg, err := json.Marshal(e)
	if err != nil {
		log.Warnw("cannot encode API error", "error", err.Error())
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	log.Debugw("API error response", "error", e.Error(), "code", e.Code, "httpStatus", e.HTTPstatus)
	w.Header().Set("Content-Type", "application/json")
	http.Error(w, string(msg), e.HTTPstatus)
}

// With returns a copy of the error with s appended to its message.
func (e Error) With(s string) Error {
	return Error{
		Err:        fmt.Errorf("%w: %s", e.Err, s),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// WithErr returns a copy of the error with err appended to its message.
func (e Error) WithErr(err error) Error {
	return e.With(err.Error())
}

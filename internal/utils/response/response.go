// Package response provides helpers for writing consistent JSON HTTP
// responses.
//
// Success responses are the bare resource (a student or a list of them).
// Error responses always use the Response envelope below.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the envelope returned for every error:
//
//	{ "status": "error", "error": "student 7: not found" }
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON sets the JSON content type, writes status and encodes data.
//
// Order matters: Header() → WriteHeader() → body. Headers are locked
// once WriteHeader is called.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into the standard envelope.
//
//	response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ValidationError turns validator field errors into one readable message:
//
//	{ "status": "error", "error": "field first_name is required, field age is required" }
//
// Field names are whatever the validator reports; the student handlers
// register the json tag name so clients see the keys they sent.
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}

package ideaboard

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponder is implemented by errors that know which HTTP response they
// translate to. RespondError returns true if it wrote a response.
type ErrorResponder interface {
	RespondError(w http.ResponseWriter, r *http.Request) bool
}

// ValidationError signals that a submission violates the idea text rules.
type ValidationError struct {
	msg string
}

func Validation(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ValidationError: %v", e.msg)
}

// Message returns the human readable part, suitable for a response body.
func (e *ValidationError) Message() string {
	return e.msg
}

func (e *ValidationError) RespondError(w http.ResponseWriter, r *http.Request) bool {
	respondJSONError(w, http.StatusBadRequest, e.msg)
	return true
}

// NotFoundError signals that the referenced idea does not exist.
type NotFoundError struct {
	id int64
}

func NotFound(id int64) *NotFoundError {
	return &NotFoundError{id: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("NotFoundError: idea %v", e.id)
}

func (e *NotFoundError) RespondError(w http.ResponseWriter, r *http.Request) bool {
	respondJSONError(w, http.StatusNotFound, "idea not found")
	return true
}

// IsNotFound reports whether err denotes a missing record, either as a
// NotFoundError or as a raw sql.ErrNoRows bubbling up from the store.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) || errors.Is(err, sql.ErrNoRows)
}

func respondJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

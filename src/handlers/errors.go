package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/YukichiOhno/expense-tracker/src/currency"
	db "github.com/YukichiOhno/expense-tracker/src/db/sql"
)

// Kind classifies a failed request.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindDateRangeConflict
	KindUnknownCurrency
	KindInternal
)

func (k Kind) Status() int {
	switch k {
	case KindValidation, KindDateRangeConflict, KindUnknownCurrency:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a request failure with a client-facing message. Err, when set,
// is logged and never sent to the client.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func validationError(message string) *Error {
	return newError(KindValidation, message)
}

func internalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

var (
	errForbidden       = newError(KindForbidden, "user accessing this information does not match the person logged in")
	errInvalidBody     = validationError("invalid request body")
	errUnknownCurrency = newError(KindUnknownCurrency, "unrecognized currency, try again")

	errDescriptionTooLong = validationError("description must be at most 255 characters")
)

// storeError converts an error coming back from the store or the currency
// layer. Callers handle the constraints they care about first.
func storeError(message string, err error) *Error {
	var he *Error
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, currency.ErrUnknownCurrency):
		return &Error{Kind: KindUnknownCurrency, Message: errUnknownCurrency.Message, Err: err}
	case errors.Is(err, db.ErrNotFound):
		return &Error{Kind: KindNotFound, Message: "resource not found", Err: err}
	case errors.Is(err, db.ErrValueTooLong):
		return &Error{Kind: KindValidation, Message: "input value is too long", Err: err}
	case errors.Is(err, db.ErrValueOutOfRange):
		return &Error{Kind: KindValidation, Message: "amount is out of range", Err: err}
	default:
		return internalError(message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError sends err as {"message": ...}. Internal causes are logged only.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var he *Error
	if !errors.As(err, &he) {
		he = internalError("a server error occurred", err)
	}

	status := he.Kind.Status()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "message", he.Message, "error", he.Err)
	} else {
		slog.WarnContext(r.Context(), "Request rejected", "path", r.URL.Path, "status", status, "message", he.Message)
	}
	writeMessage(w, status, he.Message)
}

// notFoundOr names the missing entity when err is db.ErrNotFound.
func notFoundOr(err error, notFound, message string) *Error {
	if errors.Is(err, db.ErrNotFound) {
		return &Error{Kind: KindNotFound, Message: notFound, Err: err}
	}
	return storeError(message, err)
}

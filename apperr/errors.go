// Package apperr classifies failures so handlers can map them to HTTP
// responses without inspecting driver errors.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

type Kind int

const (
	KindPersistence Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindExternalService
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindExternalService:
		return "external_service"
	default:
		return "persistence"
	}
}

// Error carries a client-safe Message; Err is the internal cause and is
// only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap attaches a kind and message to err. A nil err stays nil.
func Wrap(err error, kind Kind, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Validation(msg string) *Error      { return New(KindValidation, msg) }
func Authentication(msg string) *Error  { return New(KindAuthentication, msg) }
func Authorization(msg string) *Error   { return New(KindAuthorization, msg) }
func NotFound(msg string) *Error        { return New(KindNotFound, msg) }
func Conflict(msg string) *Error        { return New(KindConflict, msg) }
func ExternalService(msg string) *Error { return New(KindExternalService, msg) }

// Persistence wraps a store failure; msg names the operation that failed.
func Persistence(err error, msg string) error {
	return Wrap(err, KindPersistence, msg)
}

// FromDB translates gorm sentinel errors. notFoundMsg is used for missing rows.
func FromDB(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(err, KindNotFound, notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Wrap(err, KindConflict, "record already exists")
	default:
		return Wrap(err, KindPersistence, "database operation failed")
	}
}

// KindOf reports the kind of the outermost *Error in err's chain.
// Unclassified errors count as persistence failures.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindPersistence
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text a client may see. Persistence and external
// failures never expose their cause.
func PublicMessage(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return "Internal server error"
	}
	switch appErr.Kind {
	case KindPersistence:
		return "Internal server error"
	case KindExternalService:
		if appErr.Message == "" {
			return "Upstream service unavailable"
		}
		return appErr.Message
	default:
		return appErr.Message
	}
}

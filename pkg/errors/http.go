package errors

import (
	"errors"
	"net/http"
	"time"
)

// StandardError is the JSON body returned for every failed HTTP request.
type StandardError struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Path      string    `json:"path"`
}

var httpStatusByKind = map[Kind]int{
	KindNotFound:       http.StatusNotFound,
	KindDuplicateEmail: http.StatusBadRequest,
	KindValidation:     http.StatusBadRequest,
	KindInternal:       http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status code mapped to the kind of err.
func HTTPStatus(err error) int {
	return httpStatusByKind[KindOf(err)]
}

// Translate converts err into an HTTP status and a StandardError body for path.
func Translate(err error, path string) (int, StandardError) {
	return TranslateAt(err, path, time.Now())
}

// TranslateAt is Translate with an explicit timestamp.
func TranslateAt(err error, path string, now time.Time) (int, StandardError) {
	kind := KindOf(err)
	code := httpStatusByKind[kind]
	return code, StandardError{
		Timestamp: now,
		Status:    code,
		Error:     clientMessage(err, kind),
		Path:      path,
	}
}

// clientMessage returns the message of the classified error itself, so that
// wrapping context added on the way up never reaches the client.
func clientMessage(err error, kind Kind) string {
	switch kind {
	case KindNotFound:
		var e *NotFoundError
		errors.As(err, &e)
		return e.Error()
	case KindDuplicateEmail:
		var e *DuplicateEmailError
		errors.As(err, &e)
		return e.Error()
	case KindValidation:
		var e *ValidationError
		errors.As(err, &e)
		return e.Error()
	default:
		return MsgInternal
	}
}

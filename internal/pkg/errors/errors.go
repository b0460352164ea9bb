package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError for translation into an HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// StatusCode - HTTP status a Kind translates to
func (k Kind) StatusCode() int {
	if k == KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
	Kind       Kind                   `json:"-"`
	Err        error                  `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: kind.StatusCode(),
		Kind:       kind,
	}
}

// WithDetails returns a copy of e carrying details, so shared values stay untouched.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// NewValidation - input rejected before any outbound call
func NewValidation(message string) *AppError {
	return New(KindValidation, CodeInvalidInput, message)
}

// NewUpstream - provider transport or HTTP failure; prefix is prepended to the cause
func NewUpstream(prefix string, err error) *AppError {
	appErr := New(KindUpstream, CodeUpstreamError, prefix+err.Error())
	appErr.Err = err
	return appErr
}

// NewInternal - any other failure while handling a request
func NewInternal(err error) *AppError {
	appErr := New(KindInternal, CodeInternalServer, err.Error())
	appErr.Err = err
	return appErr
}

// From converts any error into an AppError; unknown errors become internal ones.
func From(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return NewInternal(err)
}

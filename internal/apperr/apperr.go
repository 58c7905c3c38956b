package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	InvalidItems       Kind = "invalid_items"
	InvalidAmount      Kind = "invalid_amount"
	SignatureInvalid   Kind = "signature_invalid"
	OrderNotFound      Kind = "order_not_found"
	GatewayUnavailable Kind = "gateway_unavailable"
	Unauthorized       Kind = "unauthorized"
	Forbidden          Kind = "forbidden"
	Invalid            Kind = "invalid"
	NotFound           Kind = "not_found"
	Conflict           Kind = "conflict"
	Internal           Kind = "internal"
)

type AppError struct {
	Kind      Kind
	PublicMsg string // safe to show to the caller
	Err       error  // internal cause, logged only
	Fields    map[string]string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.PublicMsg, e.Err)
	}
	if e.PublicMsg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.PublicMsg)
	}
	return string(e.Kind)
}

func (e *AppError) Unwrap() error { return e.Err }

// WithFields attaches per-field validation messages.
func (e *AppError) WithFields(fields map[string]string) *AppError {
	e.Fields = fields
	return e
}

func New(kind Kind, publicMsg string) *AppError {
	return &AppError{Kind: kind, PublicMsg: publicMsg}
}

func Wrap(kind Kind, publicMsg string, err error) *AppError {
	return &AppError{Kind: kind, PublicMsg: publicMsg, Err: err}
}

// KindOf returns Internal for errors that carry no AppError.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Kind == kind
}

func PublicMessage(err error) string {
	var ae *AppError
	if errors.As(err, &ae) && ae.PublicMsg != "" {
		return ae.PublicMsg
	}
	return "internal error"
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case InvalidItems, InvalidAmount, Invalid, SignatureInvalid:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case OrderNotFound, NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

package services

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrEmptyWardrobe = errors.New("no clothing items in wardrobe")
)

// Stylist failure kinds. Every error returned by a StylistProvider matches
// exactly one of them with errors.Is.
var (
	ErrConfiguration = errors.New("ai configuration error")
	ErrDecode        = errors.New("image decode error")
	ErrParse         = errors.New("ai response parse error")
	ErrQuota         = errors.New("ai quota exceeded")
	ErrUpstream      = errors.New("ai upstream error")
)

type StylistError struct {
	Kind    error
	Message string
	Cause   error
}

func (e *StylistError) Error() string {
	return e.Message
}

func (e *StylistError) Is(target error) bool {
	return target == e.Kind
}

func (e *StylistError) Unwrap() error {
	return e.Cause
}

func newStylistError(kind error, message string, cause error) *StylistError {
	return &StylistError{Kind: kind, Message: message, Cause: cause}
}

// fallbackErrors is the set of failures after which the suggestion and
// outfit flows switch to their deterministic baseline. Anything else is a
// bug and is not swallowed.
var fallbackErrors = []error{
	ErrConfiguration,
	ErrParse,
	ErrQuota,
	ErrUpstream,
	context.DeadlineExceeded,
	context.Canceled,
}

func isFallbackError(err error) bool {
	for _, kind := range fallbackErrors {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

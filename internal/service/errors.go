package service

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies failures at component boundaries
type Kind string

const (
	KindUnsupportedFormat  Kind = "unsupported_format"
	KindParseError         Kind = "parse_error"
	KindMissingCredential  Kind = "missing_credential"
	KindTransient          Kind = "transient_service_error"
	KindService            Kind = "service_error"
	KindInvalidOption      Kind = "invalid_option"
	KindInvalidResume      Kind = "invalid_resume"
	KindNoResultsFound     Kind = "no_results_found"
	KindMalformedResponse  Kind = "malformed_response"
	KindNoVariantsProduced Kind = "no_variants_produced"
)

// Sentinels for errors.Is
var (
	ErrUnsupportedFormat  = &Error{Kind: KindUnsupportedFormat}
	ErrParseError         = &Error{Kind: KindParseError}
	ErrMissingCredential  = &Error{Kind: KindMissingCredential}
	ErrTransient          = &Error{Kind: KindTransient}
	ErrService            = &Error{Kind: KindService}
	ErrInvalidOption      = &Error{Kind: KindInvalidOption}
	ErrInvalidResume      = &Error{Kind: KindInvalidResume}
	ErrNoResultsFound     = &Error{Kind: KindNoResultsFound}
	ErrMalformedResponse  = &Error{Kind: KindMalformedResponse}
	ErrNoVariantsProduced = &Error{Kind: KindNoVariantsProduced}
)

// Error is the user-reportable failure of a pipeline component
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.ReplaceAll(string(e.Kind), "_", " ")
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func invalidOption(field, value string, allowed []string) *Error {
	return &Error{
		Kind:    KindInvalidOption,
		Field:   field,
		Message: fmt.Sprintf("invalid %s %q: must be one of %s", field, value, strings.Join(allowed, ", ")),
	}
}

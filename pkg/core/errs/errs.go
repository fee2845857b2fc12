package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code names a user-facing workflow error
type Code string

const (
	CodeValidation            Code = "VALIDATION"
	CodeIllegalTransition     Code = "ILLEGAL_TRANSITION"
	CodeNotFound              Code = "NOT_FOUND"
	CodeIneligibleProject     Code = "INELIGIBLE_PROJECT"
	CodeDuplicateApplication  Code = "DUPLICATE_APPLICATION"
	CodeReapplicationBlocked  Code = "REAPPLICATION_BLOCKED"
	CodeAlreadyParticipant    Code = "ALREADY_PARTICIPANT"
	CodeAlreadyRejected       Code = "ALREADY_REJECTED"
	CodeCannotWithdraw        Code = "CANNOT_WITHDRAW"
	CodeCannotDraftFromStatus Code = "CANNOT_DRAFT_FROM_STATUS"
	CodeProjectLocked         Code = "PROJECT_LOCKED"
	CodeNotAuthorized         Code = "NOT_AUTHORIZED"
	CodeInternal              Code = "INTERNAL"
)

// Kind groups codes the way callers react to them
type Kind string

const (
	KindValidation    Kind = "validation"
	KindStateConflict Kind = "state_conflict"
	KindAuthorization Kind = "authorization"
	KindNotFound      Kind = "not_found"
	KindInternal      Kind = "internal"
)

var kinds = map[Code]Kind{
	CodeValidation:            KindValidation,
	CodeIllegalTransition:     KindValidation,
	CodeNotFound:              KindNotFound,
	CodeIneligibleProject:     KindAuthorization,
	CodeNotAuthorized:         KindAuthorization,
	CodeDuplicateApplication:  KindStateConflict,
	CodeReapplicationBlocked:  KindStateConflict,
	CodeAlreadyParticipant:    KindStateConflict,
	CodeAlreadyRejected:       KindStateConflict,
	CodeCannotWithdraw:        KindStateConflict,
	CodeCannotDraftFromStatus: KindStateConflict,
	CodeProjectLocked:         KindStateConflict,
	CodeInternal:              KindInternal,
}

// KindOf returns the kind a code belongs to
func KindOf(code Code) Kind {
	if k, ok := kinds[code]; ok {
		return k
	}
	return KindInternal
}

// Error is the structured result of a failed workflow operation
type Error struct {
	Code    Code
	Message string
	Fields  FieldErrors
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Fields) > 0 {
		b.WriteString(" (")
		b.WriteString(e.Fields.String())
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Kind() Kind {
	return KindOf(e.Code)
}

// New creates an error with the given code and message
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error with the given code that wraps a cause
func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// Validation creates a validation error carrying the per-field messages
func Validation(fields FieldErrors) *Error {
	return &Error{Code: CodeValidation, Message: "validation failed", Fields: fields}
}

// As extracts a *Error from err
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err carries the given code
func Is(err error, code Code) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

// CodeOf returns the code carried by err, or CodeInternal for foreign errors
func CodeOf(err error) Code {
	if e, ok := As(err); ok {
		return e.Code
	}
	return CodeInternal
}

// FieldErrors maps a field name to every message recorded against it
type FieldErrors map[string][]string

// Add records a message against a field
func (f FieldErrors) Add(field, format string, args ...any) {
	f[field] = append(f[field], fmt.Sprintf(format, args...))
}

// Merge copies every message from other into f
func (f FieldErrors) Merge(other FieldErrors) {
	for field, msgs := range other {
		f[field] = append(f[field], msgs...)
	}
}

func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Err returns a validation error when any field failed, nil otherwise
func (f FieldErrors) Err() error {
	if f.Empty() {
		return nil
	}
	return Validation(f)
}

// String renders the fields in a stable order
func (f FieldErrors) String() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(f[field], "; ")))
	}
	return strings.Join(parts, ", ")
}

// Package errors provides the error and warning types shared by hepkit.
// Errors carry a stack trace through cockroachdb/errors and can be written as
// structured zerolog objects.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("hepkit-Warning: %v\n", w)
	}
	// set by pkg/log; kept as a func to avoid an import cycle
	zerologWarnFunc func(warning error)
)

// SetWarningHandler replaces the handler that receives warnings raised through Warn.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // ignore warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
	zerologWarnFunc = nil
}

// SetZerologWarnFunc installs the structured warning sink.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn raises a warning. The zerolog sink wins when installed.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warnings
//
// ===========================================================================

// DataConversionWarning is raised when column values are implicitly converted,
// e.g. an integer column promoted to float during concatenation.
type DataConversionWarning struct {
	Column   string
	FromType string
	ToType   string
	Reason   string
}

func (w *DataConversionWarning) Error() string {
	return fmt.Sprintf("column '%s' converted from %s to %s. Reason: %s", w.Column, w.FromType, w.ToType, w.Reason)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *DataConversionWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("column", w.Column).
		Str("from_type", w.FromType).
		Str("to_type", w.ToType).
		Str("reason", w.Reason).
		Str("type", "DataConversionWarning")
}

// NewDataConversionWarning creates a DataConversionWarning.
func NewDataConversionWarning(column, from, to, reason string) *DataConversionWarning {
	return &DataConversionWarning{Column: column, FromType: from, ToType: to, Reason: reason}
}

// ===========================================================================
//
//	Structured errors
//
// ===========================================================================

// FileReadError reports a file that could not be read into a table.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("hepkit: can not open file %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *FileReadError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		AnErr("cause", e.Err).
		Str("type", "FileReadError")
}

// NewFileReadError creates a FileReadError with a stack trace.
func NewFileReadError(path string, err error) error {
	return errors.WithStack(&FileReadError{Path: path, Err: err})
}

// ConcatError reports a table that could not be appended to a merged table.
type ConcatError struct {
	Source string
	Err    error
}

func (e *ConcatError) Error() string {
	return fmt.Sprintf("hepkit: file %s has not been added to resulting table: %v", e.Source, e.Err)
}

func (e *ConcatError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ConcatError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("source", e.Source).
		AnErr("cause", e.Err).
		Str("type", "ConcatError")
}

// NewConcatError creates a ConcatError with a stack trace.
func NewConcatError(source string, err error) error {
	return errors.WithStack(&ConcatError{Source: source, Err: err})
}

// ColumnNotFoundError is returned when an operation names a column the table lacks.
type ColumnNotFoundError struct {
	Op     string
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("hepkit: %s: column '%s' not found", e.Op, e.Column)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ColumnNotFoundError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("type", "ColumnNotFoundError")
}

// NewColumnNotFoundError creates a ColumnNotFoundError with a stack trace.
func NewColumnNotFoundError(op, column string) error {
	return errors.WithStack(&ColumnNotFoundError{Op: op, Column: column})
}

// ColumnKindError is returned when two tables disagree on a column type that
// cannot be reconciled.
type ColumnKindError struct {
	Column string
	Left   string
	Right  string
}

func (e *ColumnKindError) Error() string {
	return fmt.Sprintf("hepkit: column '%s' has incompatible types %s and %s", e.Column, e.Left, e.Right)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ColumnKindError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("column", e.Column).
		Str("left", e.Left).
		Str("right", e.Right).
		Str("type", "ColumnKindError")
}

// NewColumnKindError creates a ColumnKindError with a stack trace.
func NewColumnKindError(column, left, right string) error {
	return errors.WithStack(&ColumnKindError{Column: column, Left: left, Right: right})
}

// NonNumericError is returned when a numeric operation is applied to a text column.
type NonNumericError struct {
	Column string
	Kind   string
}

func (e *NonNumericError) Error() string {
	return fmt.Sprintf("hepkit: could not convert column '%s' of type %s to float", e.Column, e.Kind)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *NonNumericError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("column", e.Column).
		Str("kind", e.Kind).
		Str("type", "NonNumericError")
}

// NewNonNumericError creates a NonNumericError with a stack trace.
func NewNonNumericError(column, kind string) error {
	return errors.WithStack(&NonNumericError{Column: column, Kind: kind})
}

// ValidationError reports an invalid argument.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("hepkit: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError reports an argument whose value is unusable for the operation.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("hepkit: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap annotates err with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates an error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Sentinel errors
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an operation needs at least one row.
	ErrEmptyData = New("empty data")

	// ErrNoHeader is returned when a delimited file has no header row.
	ErrNoHeader = New("no header row")
)

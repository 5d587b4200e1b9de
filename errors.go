// Package seedgen defines the error kinds shared by every package in this
// module (spec §7): ModelError, ReferenceError, DialectError and IoError.
package seedgen

import (
	"errors"
	"fmt"
)

// Sentinel errors usable with errors.Is.
var (
	// ErrModel marks a declarative-model inconsistency detected at
	// descriptor build time: a missing identifier, unresolvable
	// inheritance, an unsupported joined-id shape, or no provider
	// constructor that can be satisfied.
	ErrModel = errors.New("seedgen: model error")

	// ErrReference marks a pending update that could never be resolved
	// because its target entity was never written.
	ErrReference = errors.New("seedgen: reference error")

	// ErrDialect marks a feature required by the model that the active
	// dialect does not support.
	ErrDialect = errors.New("seedgen: dialect error")

	// ErrIO marks a failure from the statement writer or its underlying
	// sink.
	ErrIO = errors.New("seedgen: io error")
)

// ModelError reports a declarative-model inconsistency. Fatal at build
// time (spec §7).
type ModelError struct {
	Entity string
	Reason string
}

func (e *ModelError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("seedgen: model error on %s: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("seedgen: model error: %s", e.Reason)
}

func (e *ModelError) Is(target error) bool { return target == ErrModel }

// NewModelError returns a new ModelError for the named entity.
func NewModelError(entity, reason string) *ModelError {
	return &ModelError{Entity: entity, Reason: reason}
}

// IsModelError reports whether err is (or wraps) a ModelError.
func IsModelError(err error) bool {
	var e *ModelError
	return errors.As(err, &e) || errors.Is(err, ErrModel)
}

// ReferenceError reports a pending update that can never be resolved
// because its target entity was never written (spec §7, Testable Property
// 2).
type ReferenceError struct {
	Entity   string
	Property string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("seedgen: reference error: %s.%s was never resolved", e.Entity, e.Property)
}

func (e *ReferenceError) Is(target error) bool { return target == ErrReference }

// NewReferenceError returns a new ReferenceError.
func NewReferenceError(entity, property string) *ReferenceError {
	return &ReferenceError{Entity: entity, Property: property}
}

// IsReferenceError reports whether err is (or wraps) a ReferenceError.
func IsReferenceError(err error) bool {
	var e *ReferenceError
	return errors.As(err, &e) || errors.Is(err, ErrReference)
}

// DialectError reports a model feature unsupported by the active dialect.
type DialectError struct {
	Dialect string
	Feature string
}

func (e *DialectError) Error() string {
	return fmt.Sprintf("seedgen: dialect %s does not support %s", e.Dialect, e.Feature)
}

func (e *DialectError) Is(target error) bool { return target == ErrDialect }

// NewDialectError returns a new DialectError.
func NewDialectError(dialectName, feature string) *DialectError {
	return &DialectError{Dialect: dialectName, Feature: feature}
}

// IsDialectError reports whether err is (or wraps) a DialectError.
func IsDialectError(err error) bool {
	var e *DialectError
	return errors.As(err, &e) || errors.Is(err, ErrDialect)
}

// IoError wraps a failure from the statement writer or its underlying
// sink.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("seedgen: io error during %s: %v", e.Op, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

func (e *IoError) Is(target error) bool { return target == ErrIO }

// NewIoError wraps err as an IoError for operation op.
func NewIoError(op string, err error) *IoError {
	return &IoError{Op: op, Err: err}
}

// IsIoError reports whether err is (or wraps) an IoError.
func IsIoError(err error) bool {
	var e *IoError
	return errors.As(err, &e) || errors.Is(err, ErrIO)
}

// AggregateError collects multiple errors produced while validating or
// flushing residual state (e.g. several unresolved ReferenceErrors found
// at orchestrator shutdown).
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("seedgen: %d errors:", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("\n  [%d] %v", i+1, err)
	}
	return msg
}

// NewAggregateError returns an error aggregating every non-nil err in errs,
// or nil if all are nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	default:
		return &AggregateError{Errors: filtered}
	}
}

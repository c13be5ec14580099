// Package errors provides error handling for pytestgen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Sentinel marking for error taxonomy checks across wrap layers
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Classify against the generation taxonomy
//	if errors.Is(err, errors.ErrFileFormat) {
//	    // skip malformed document
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
	Mark      = crdb.Mark
)

// Generation error taxonomy. These are sentinel errors: attach them to a
// descriptive error with errors.Mark() and classify with errors.Is().
var (
	// ErrParams indicates a disallowed testcase source extension or other
	// invalid caller-supplied parameter.
	ErrParams = New("params error")

	// ErrTestCaseFormat indicates a structurally invalid testcase document,
	// e.g. a step carrying neither a request nor a testcase reference.
	ErrTestCaseFormat = New("testcase format error")

	// ErrTestSuiteFormat indicates a structurally invalid testsuite document.
	ErrTestSuiteFormat = New("testsuite format error")

	// ErrFileNotFound indicates a referenced document file does not exist.
	ErrFileNotFound = New("file not found")

	// ErrFileFormat indicates a document file could not be deserialized.
	ErrFileFormat = New("file format error")

	// ErrTestCaseNotFound indicates an input path is neither file nor directory.
	ErrTestCaseNotFound = New("testcase not found")

	// ErrCyclicReference indicates testcase A references B which (perhaps
	// transitively) references A again while A is still being generated.
	ErrCyclicReference = New("cyclic testcase reference")
)

// IsFormatError checks whether an error is a document format error of either
// kind. Batch generation skips these and continues with the remaining files.
func IsFormatError(err error) bool {
	return err != nil && IsAny(err, ErrTestCaseFormat, ErrTestSuiteFormat)
}

// IsSkippable checks whether a per-file error should be logged and skipped
// during folder or reference-driven generation.
func IsSkippable(err error) bool {
	return err != nil && IsAny(err, ErrFileNotFound, ErrFileFormat)
}

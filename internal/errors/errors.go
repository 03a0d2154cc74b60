// Package errors defines the stable error code system for roleflow.
//
// Every failure surfaced to the user carries one of the codes below on a
// gofulmen ErrorEnvelope so commands and tests can branch on the code
// instead of matching message text.
package errors

import (
	stderrors "errors"

	"fmt"

	gferrors "github.com/fulmenhq/gofulmen/errors"
)

// Error codes. Stable public contract.
const (
	// Parsing and serialization
	CodeInvalidDuration   = "INVALID_DURATION"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeMalformedJSON     = "MALFORMED_JSON"
	CodeMalformedMapping  = "MALFORMED_MAPPING"
	CodeNotAMapping       = "NOT_A_MAPPING"

	// Template naming and path resolution
	CodeInvalidName    = "INVALID_NAME"
	CodeNotFound       = "NOT_FOUND"
	CodeAmbiguousName  = "AMBIGUOUS_NAME"
	CodeFormatConflict = "FORMAT_CONFLICT"
	CodeDuplicateStem  = "DUPLICATE_STEM"

	// Template normalization
	CodeMissingField        = "MISSING_FIELD"
	CodeEmptyField          = "EMPTY_FIELD"
	CodeInvalidScope        = "INVALID_SCOPE"
	CodeMissingSpecificTo   = "MISSING_SPECIFIC_TO"
	CodeDanglingRepeatEvery = "DANGLING_REPEAT_EVERY"

	// Config and profiles
	CodeEmptyDefaultProfile   = "EMPTY_DEFAULT_PROFILE"
	CodeEmptyProfiles         = "EMPTY_PROFILES"
	CodeUnknownDefaultProfile = "UNKNOWN_DEFAULT_PROFILE"
	CodeInvalidTemplateFormat = "INVALID_TEMPLATE_FORMAT"
	CodeInvalidProfile        = "INVALID_PROFILE"
	CodeProfileNotFound       = "PROFILE_NOT_FOUND"

	// Execution
	CodeInvalidCadence    = "INVALID_CADENCE"
	CodeRunnerNotFound    = "RUNNER_NOT_FOUND"
	CodeRunnerExecFailure = "RUNNER_EXEC_FAILURE"

	// Workspace state and user input
	CodeNotInitialized = "NOT_INITIALIZED"
	CodeAlreadyExists  = "ALREADY_EXISTS"
	CodeInvalidInput   = "INVALID_INPUT"
	CodePersistFailed  = "PERSIST_FAILED"
)

// New creates an envelope with the given code and message.
func New(code, message string) *gferrors.ErrorEnvelope {
	return gferrors.NewErrorEnvelope(code, message)
}

// Newf creates an envelope with a formatted message.
func Newf(code, format string, args ...any) *gferrors.ErrorEnvelope {
	return gferrors.NewErrorEnvelope(code, fmt.Sprintf(format, args...))
}

// Wrap creates an envelope carrying the underlying error in its context.
func Wrap(code string, err error, message string) *gferrors.ErrorEnvelope {
	envelope := gferrors.NewErrorEnvelope(code, message)
	if err == nil {
		return envelope
	}
	updated, updateErr := envelope.WithContext(map[string]interface{}{
		"wrapped_error": err.Error(),
	})
	if updateErr != nil {
		return envelope
	}
	return updated
}

// Wrapf is Wrap with a formatted message.
func Wrapf(code string, err error, format string, args ...any) *gferrors.ErrorEnvelope {
	return Wrap(code, err, fmt.Sprintf(format, args...))
}

// CodeOf extracts the error code, or empty string for non-envelope errors.
func CodeOf(err error) string {
	if envelope := AsEnvelope(err); envelope != nil {
		return envelope.Code
	}
	return ""
}

// AsEnvelope returns the ErrorEnvelope carried by err, or nil.
func AsEnvelope(err error) *gferrors.ErrorEnvelope {
	if err == nil {
		return nil
	}
	if envelope, ok := err.(*gferrors.ErrorEnvelope); ok {
		return envelope
	}
	var envelope *gferrors.ErrorEnvelope
	if stderrors.As(err, &envelope) {
		return envelope
	}
	return nil
}

// EnsureEnvelope normalizes any error into an envelope so the exit path
// always has a code to report.
func EnsureEnvelope(err error) *gferrors.ErrorEnvelope {
	if envelope := AsEnvelope(err); envelope != nil {
		return envelope
	}
	if err == nil {
		return gferrors.NewErrorEnvelope("INTERNAL_ERROR", "unexpected nil error")
	}
	return Wrap("INTERNAL_ERROR", err, err.Error())
}

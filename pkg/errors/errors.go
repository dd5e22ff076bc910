// Package errors provides the structured error type shared by every layer of
// gem-thermo.  Process-level failures (unreadable model files, broken
// configuration, unreachable stores) travel as *AppError so the CLI, the HTTP
// read API and the logs all see the same code and message.
//
// Per-entry failures recorded inside the caches (a compound that cannot be
// resolved, a ΔG query that the service rejects) are NOT AppErrors; those are
// data and live in the entries' errors arrays.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth bounds the number of frames captured per error.
const stackDepth = 32

// captureStack formats the call stack above the caller of New/Wrap.
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the structured error carried across package boundaries.
//
//	return errors.New(errors.ErrCodeModelInvalid, "reaction R1 references unknown metabolite")
//	return errors.Wrap(err, errors.ErrCodeCacheWriteFailed, "writing compound cache")
type AppError struct {
	// Code classifies the failure; see codes.go.
	Code ErrorCode

	// Message is the human-readable summary.
	Message string

	// Detail carries optional context such as a file path or an entity id.
	Detail string

	// Cause is the wrapped lower-level error, if any.
	Cause error

	// Stack is captured at construction time and never printed by Error().
	Stack string
}

// Error renders "[CODE] message" or "[CODE] message: detail", followed by the
// cause when one is attached.
func (e *AppError) Error() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(e.Code.String())
	sb.WriteString("] ")
	sb.WriteString(e.Message)
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap exposes Cause to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a copy of e with Detail replaced.  Nil-safe.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithDetailf is WithDetail with fmt.Sprintf formatting.
func (e *AppError) WithDetailf(format string, args ...interface{}) *AppError {
	return e.WithDetail(fmt.Sprintf(format, args...))
}

// WithCause returns a copy of e with Cause replaced.  Nil-safe.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Constructors
// ─────────────────────────────────────────────────────────────────────────────

// New builds an AppError with no cause.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Newf builds an AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(1),
	}
}

// Wrap attaches err as the cause of a new AppError.  A nil err yields nil so
// Wrap can be used inline on return paths.  Passing CodeUnknown keeps the code
// of the innermost AppError found in err's chain.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	if err == nil {
		return nil
	}
	ae := Wrap(err, code, fmt.Sprintf(format, args...))
	ae.Stack = captureStack(1)
	return ae
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain inspection
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any AppError in err's chain carries code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		var ae *AppError
		if errors.As(err, &ae) {
			if ae.Code == code {
				return true
			}
			err = ae.Cause
			continue
		}
		return false
	}
	return false
}

// IsNotFound reports whether err's chain contains any of the not-found codes.
func IsNotFound(err error) bool {
	for _, code := range notFoundCodes {
		if IsCode(err, code) {
			return true
		}
	}
	return false
}

// GetCode returns the code of the outermost AppError in err's chain, CodeOK
// for nil and CodeUnknown when the chain has no AppError.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// Describe renders err as "message: detail: cause" without code prefixes.
// Cache entries store failure text in this form so it reads the same no
// matter which layer produced it.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	ae, ok := err.(*AppError)
	if !ok {
		return err.Error()
	}
	parts := []string{ae.Message}
	if ae.Detail != "" {
		parts = append(parts, ae.Detail)
	}
	if ae.Cause != nil {
		parts = append(parts, Describe(ae.Cause))
	}
	return strings.Join(parts, ": ")
}

// Is and As re-export the standard library helpers so callers importing this
// package under the name "errors" keep access to them.
func Is(err, target error) bool { return errors.Is(err, target) }

// As is errors.As.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// ─────────────────────────────────────────────────────────────────────────────
// Shorthand factories
// ─────────────────────────────────────────────────────────────────────────────

// NotFound builds an ErrCodeNotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message, Stack: captureStack(1)}
}

// InvalidParam builds an ErrCodeBadRequest error.
func InvalidParam(message string) *AppError {
	return &AppError{Code: ErrCodeBadRequest, Message: message, Stack: captureStack(1)}
}

// Internal builds an ErrCodeInternal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Stack: captureStack(1)}
}

// InvalidConfig builds an ErrCodeInvalidConfig error.
func InvalidConfig(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidConfig, Message: message, Stack: captureStack(1)}
}

// Unavailable builds an ErrCodeServiceUnavailable error.
func Unavailable(message string) *AppError {
	return &AppError{Code: ErrCodeServiceUnavailable, Message: message, Stack: captureStack(1)}
}

//Personal.AI order the ending

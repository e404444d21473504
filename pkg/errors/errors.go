// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a structured error classification.
type ErrorCode string

const (
	// ErrCodeFactUnavailable indicates the local computer name or console
	// user could not be determined.
	ErrCodeFactUnavailable ErrorCode = "FACT_UNAVAILABLE"
	// ErrCodeServiceError indicates the directory service call failed at the
	// transport level or returned a non-2xx status.
	ErrCodeServiceError ErrorCode = "SERVICE_ERROR"
	// ErrCodeMalformedResponse indicates the service answered 2xx but the body
	// is not the expected XML document.
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	// ErrCodeQueueOperation indicates a single spooler operation failed.
	// It is never fatal to a run.
	ErrCodeQueueOperation ErrorCode = "QUEUE_OPERATION_FAILED"
	// ErrCodeInvalidConfig indicates missing or invalid configuration.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeTimeout indicates an operation exceeded its time limit.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal indicates an internal system error.
	ErrCodeInternal ErrorCode = "INTERNAL"
	// ErrCodeUnavailable indicates the network or the print spooler is not ready.
	ErrCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// Context keys used by the typed constructors below.
const (
	ContextStatusCode = "statusCode"
	ContextFault      = "fault"
	ContextQueue      = "queue"
	ContextOperation  = "operation"
)

// StructuredError provides structured error information for better observability.
// It includes an error code for programmatic handling, a human-readable message,
// the underlying cause, and optional context for debugging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// NewWithContext creates a new StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Context: context,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// NewServiceError reports a non-2xx answer from the directory service.
// fault is the SOAP faultstring and may be empty.
func NewServiceError(statusCode int, fault string) *StructuredError {
	ctx := map[string]any{ContextStatusCode: statusCode}
	if fault != "" {
		ctx[ContextFault] = fault
	}
	msg := fmt.Sprintf("directory service returned status %d", statusCode)
	if fault != "" {
		msg = fmt.Sprintf("%s (%s)", msg, fault)
	}
	return NewWithContext(ErrCodeServiceError, msg, ctx)
}

// NewQueueError reports a failed spooler operation for a single queue.
func NewQueueError(queue, operation string, cause error) *StructuredError {
	return WrapWithContext(ErrCodeQueueOperation,
		fmt.Sprintf("%s %q failed", operation, queue),
		cause,
		map[string]any{
			ContextQueue:     queue,
			ContextOperation: operation,
		})
}

// CodeOf returns the code of the first StructuredError in err's chain,
// or the empty code when there is none.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsCode reports whether err's chain carries a StructuredError with code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// StatusCode returns the HTTP status recorded by NewServiceError.
func StatusCode(err error) (int, bool) {
	var se *StructuredError
	if !stderrors.As(err, &se) || se.Context == nil {
		return 0, false
	}
	code, ok := se.Context[ContextStatusCode].(int)
	return code, ok
}

// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Fatal codes (FACT_UNAVAILABLE, SERVICE_ERROR, MALFORMED_RESPONSE,
// INVALID_CONFIG, SERVICE_UNAVAILABLE) abort a run before any installed
// queue is touched. QUEUE_OPERATION_FAILED is recorded and the run continues.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeFactUnavailable,
//	    "failed to read computer name",
//	    cause,
//	    map[string]interface{}{
//	        "command": "scutil --get ComputerName",
//	    },
//	)
package errors

// Package errors provides structured error types for better observability
// and programmatic error handling across the collector.
//
// The codes map onto the collector's failure taxonomy:
//   - ErrCodeProviderFailure: a metrics or unit provider read failed
//   - ErrCodeSerializationFailure: a record could not be encoded
//   - ErrCodeIOFailure: the journal could not be opened or written
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeProviderFailure,
//	    "failed to list service units",
//	    cause,
//	    map[string]any{
//	        "provider": "systemd",
//	    },
//	)
//
//	if errors.HasCode(err, errors.ErrCodeProviderFailure) {
//	    // skip the cycle
//	}
package errors

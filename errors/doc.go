// Package errors provides structured error types for the interop core.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go type and wire construct names,
// and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
//		Path("options", "callback").
//		GoType("func()").
//		WireType("number").
//		Detail("expected callback resource").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseDecode, offset, 4, remaining)
//	err := errors.NotFound(errors.PhaseResource, "resource", id)
//
// All errors implement the standard error interface and support errors.Is/As.
// errors.Is matches on Phase and Kind; an empty Phase or Kind on the target
// matches any value, so callers can test for a kind regardless of phase:
//
//	if errors.Is(err, &errors.Error{Kind: errors.KindOutOfBounds}) { ... }
package errors

package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode   Phase = "encode"   // Go to wire
	PhaseDecode   Phase = "decode"   // wire to Go
	PhaseResource Phase = "resource" // resource holder operations
	PhaseBuffer   Phase = "buffer"   // buffer growth and native export
	PhaseCustom   Phase = "custom"   // custom kind registration and dispatch
	PhaseCallback Phase = "callback" // callback and promise bridging
	PhasePeer     Phase = "peer"     // native peer calls
	PhaseSchema   Phase = "schema"   // inspection schemas
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfBounds   Kind = "out_of_bounds"
	KindUnknownTag    Kind = "unknown_tag"
	KindNotFound      Kind = "not_found"
	KindInvalidSize   Kind = "invalid_size"
	KindInvalidUTF8   Kind = "invalid_utf8"
	KindInvalidData   Kind = "invalid_data"
	KindTypeMismatch  Kind = "type_mismatch"
	KindUnsupported   Kind = "unsupported"
	KindAllocation    Kind = "allocation"
	KindClosed        Kind = "closed"
	KindCanceled      Kind = "canceled"
	KindRegistration  Kind = "registration"
	KindInstantiation Kind = "instantiation"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	WireType string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Phase, e.Kind)

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	var types []string
	if e.GoType != "" {
		types = append(types, "Go type "+e.GoType)
	}
	if e.WireType != "" {
		types = append(types, "wire type "+e.WireType)
	}

	sep := ": "
	if len(types) > 0 {
		b.WriteString(sep)
		b.WriteString(strings.Join(types, ", "))
		sep = " - "
	}
	if e.Detail != "" {
		b.WriteString(sep)
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// An empty Phase or Kind on the target acts as a wildcard.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return t.Kind == "" || t.Kind == e.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// WireType sets the wire construct name
func (b *Builder) WireType(t string) *Builder {
	b.err.WireType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OutOfBounds creates a bounds error for a read of want bytes with only
// remaining bytes left at offset.
func OutOfBounds(phase Phase, offset, want, remaining int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("read of %d bytes at offset %d exceeds buffer (%d remaining)", want, offset, remaining),
		Value:  offset,
	}
}

// UnknownTag creates an unknown tag error
func UnknownTag(phase Phase, what string, tag uint8) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindUnknownTag,
		WireType: what,
		Detail:   fmt.Sprintf("unknown tag %d", tag),
		Value:    tag,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what string, id any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %v not found", what, id),
		Value:  id,
	}
}

// InvalidSize creates an invalid size error
func InvalidSize(phase Phase, size int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidSize,
		Detail: fmt.Sprintf("invalid size %d", size),
		Value:  size,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, wireType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		GoType:   goType,
		WireType: wireType,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size uint32, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Cause:  cause,
	}
}

// Closed creates an error for operations on a closed or disposed object
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
	}
}

// Canceled creates a cancellation error
func Canceled(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCanceled,
		Detail: detail,
	}
}

// Registration creates a registration error
func Registration(phase Phase, name string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s", name),
		Cause:  cause,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhasePeer,
		Kind:   KindInstantiation,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

package codec

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/peer-interop/errors"
	"github.com/wippyai/peer-interop/resource"
)

// CallbackKind identifies the signature of a callback invoked by the native
// side.
type CallbackKind int32

// Handler decodes the arguments of a callback message and invokes target,
// the object registered under the message's resource ID.
type Handler func(target any, d *Deserializer) error

// Invocable is implemented by targets that decode their own arguments.
// Promise continuations are Invocable.
type Invocable interface {
	Invoke(d *Deserializer) error
}

// Dispatcher routes callback messages to handlers by kind.
//
// A message is int32 kind, int32 resource ID, then the arguments.
type Dispatcher struct {
	handlers map[CallbackKind]Handler
	mu       sync.RWMutex
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[CallbackKind]Handler)}
}

// Register installs h for kind. Registering a kind twice fails.
func (x *Dispatcher) Register(kind CallbackKind, h Handler) error {
	if h == nil {
		return errors.Registration(errors.PhaseCallback, "nil handler", nil)
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.handlers[kind]; ok {
		return errors.New(errors.PhaseCallback, errors.KindRegistration).
			Value(kind).
			Detail("callback kind %d already registered", kind).
			Build()
	}
	x.handlers[kind] = h
	return nil
}

// Dispatch reads one message from d and invokes its target. Targets without
// a handler for the kind are invoked directly when they are Invocable.
func (x *Dispatcher) Dispatch(d *Deserializer) error {
	kind, err := d.ReadInt32()
	if err != nil {
		return err
	}
	id, err := d.ReadInt32()
	if err != nil {
		return err
	}
	target, err := d.Holder().Get(resource.ID(id))
	if err != nil {
		return err
	}

	x.mu.RLock()
	h, ok := x.handlers[CallbackKind(kind)]
	x.mu.RUnlock()

	Logger().Debug("dispatch callback", zap.Int32("kind", kind), zap.Int32("id", id))

	if ok {
		return h(target, d)
	}
	if inv, ok := target.(Invocable); ok {
		return inv.Invoke(d)
	}
	return errors.New(errors.PhaseCallback, errors.KindUnknownTag).
		Value(kind).
		GoType(typeName(target)).
		Detail("unknown callback kind %d", kind).
		Build()
}

// WriteCallbackMessage writes the header of a message for Dispatch.
func WriteCallbackMessage(s *Serializer, kind CallbackKind, id resource.ID) {
	s.WriteInt32(int32(kind))
	s.WriteInt32(int32(id))
}

// Func returns a handler for targets of type func(A), reading A with read.
func Func[A any](read func(*Deserializer) (A, error)) Handler {
	return func(target any, d *Deserializer) error {
		fn, ok := target.(func(A))
		if !ok {
			var zero A
			return errors.TypeMismatch(errors.PhaseCallback, nil, typeName(target), "func("+typeName(zero)+")")
		}
		a, err := read(d)
		if err != nil {
			return err
		}
		fn(a)
		return nil
	}
}

// FuncVoid returns a handler for targets of type func().
func FuncVoid() Handler {
	return func(target any, _ *Deserializer) error {
		fn, ok := target.(func())
		if !ok {
			return errors.TypeMismatch(errors.PhaseCallback, nil, typeName(target), "func()")
		}
		fn()
		return nil
	}
}

package codec

import (
	"errors"
	"testing"

	ierrors "github.com/wippyai/peer-interop/errors"
	"github.com/wippyai/peer-interop/resource"
)

const (
	kindStringVoid CallbackKind = 17
	kindVoid       CallbackKind = 18
)

func TestDispatcher_Handlers(t *testing.T) {
	holder := resource.NewHolder()
	x := NewDispatcher()
	if err := x.Register(kindStringVoid, Func((*Deserializer).ReadString)); err != nil {
		t.Fatal(err)
	}
	if err := x.Register(kindVoid, FuncVoid()); err != nil {
		t.Fatal(err)
	}

	var got string
	var called bool
	onText := holder.RegisterAndHold(func(v string) { got = v })
	onTap := holder.RegisterAndHold(func() { called = true })

	s := NewSerializer(holder)
	defer s.Close()
	WriteCallbackMessage(s, kindStringVoid, onText)
	s.WriteString("typed")
	WriteCallbackMessage(s, kindVoid, onTap)

	d := NewDeserializer(s.Bytes(), holder)
	if err := x.Dispatch(d); err != nil {
		t.Fatalf("first Dispatch: %v", err)
	}
	if err := x.Dispatch(d); err != nil {
		t.Fatalf("second Dispatch: %v", err)
	}
	if got != "typed" || !called {
		t.Fatalf("got %q, called %v", got, called)
	}
	if d.Remaining() != 0 {
		t.Fatalf("Remaining = %d", d.Remaining())
	}
}

func TestDispatcher_Errors(t *testing.T) {
	holder := resource.NewHolder()
	x := NewDispatcher()
	_ = x.Register(kindVoid, FuncVoid())

	t.Run("duplicate kind", func(t *testing.T) {
		err := x.Register(kindVoid, FuncVoid())
		if !errors.Is(err, &ierrors.Error{Kind: ierrors.KindRegistration}) {
			t.Fatalf("err = %v", err)
		}
		if err := x.Register(99, nil); err == nil {
			t.Fatal("nil handler should fail")
		}
	})

	t.Run("unknown resource", func(t *testing.T) {
		s := NewSerializer(holder)
		defer s.Close()
		WriteCallbackMessage(s, kindVoid, 4242)
		err := x.Dispatch(NewDeserializer(s.Bytes(), holder))
		if !errors.Is(err, resource.ErrNotFound) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		id := holder.RegisterAndHold("not invocable")
		s := NewSerializer(holder)
		defer s.Close()
		WriteCallbackMessage(s, 1234, id)
		err := x.Dispatch(NewDeserializer(s.Bytes(), holder))
		if !errors.Is(err, &ierrors.Error{Phase: ierrors.PhaseCallback, Kind: ierrors.KindUnknownTag}) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("target type mismatch", func(t *testing.T) {
		id := holder.RegisterAndHold(func(int) {})
		s := NewSerializer(holder)
		defer s.Close()
		WriteCallbackMessage(s, kindVoid, id)
		err := x.Dispatch(NewDeserializer(s.Bytes(), holder))
		if !errors.Is(err, &ierrors.Error{Kind: ierrors.KindTypeMismatch}) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("truncated header", func(t *testing.T) {
		err := x.Dispatch(NewDeserializer([]byte{1, 0}, holder))
		if !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("err = %v", err)
		}
	})
}

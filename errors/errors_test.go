package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseDecode,
				Kind:     KindTypeMismatch,
				Path:     []string{"options", "callback"},
				GoType:   "func()",
				WireType: "number",
				Detail:   "cannot convert",
			},
			contains: []string{"[decode]", "type_mismatch", "options.callback", "func()", "number", "cannot convert"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[decode]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhasePeer,
				Kind:   KindAllocation,
				Detail: "memory full",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[peer]", "allocation", "memory full", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseResource,
		Kind:  KindNotFound,
		Value: 100,
	}

	if !err.Is(&Error{Phase: PhaseResource, Kind: KindNotFound}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindNotFound}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseResource, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different kind")
	}
	if !err.Is(&Error{Kind: KindNotFound}) {
		t.Error("empty phase should match any phase")
	}
	if !err.Is(&Error{Phase: PhaseResource}) {
		t.Error("empty kind should match any kind")
	}
	if err.Is(errors.New("plain")) {
		t.Error("Is should not match foreign error types")
	}

	wrapped := Wrap(PhasePeer, KindInvalidData, err, "call failed")
	if !errors.Is(wrapped, &Error{Phase: PhaseResource, Kind: KindNotFound}) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseEncode, KindTypeMismatch).
		Path("options", "title").
		GoType("chan int").
		WireType("string").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "string", "chan").
		Build()

	if err.Phase != PhaseEncode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseEncode)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if len(err.Path) != 2 || err.Path[0] != "options" || err.Path[1] != "title" {
		t.Errorf("Path = %v, want [options title]", err.Path)
	}
	if err.GoType != "chan int" {
		t.Errorf("GoType = %v, want 'chan int'", err.GoType)
	}
	if err.WireType != "string" {
		t.Errorf("WireType = %v, want 'string'", err.WireType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected string, got chan" {
		t.Errorf("Detail = %v, want 'expected string, got chan'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseDecode, 12, 4, 1)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != 12 {
			t.Errorf("Value = %v, want 12", err.Value)
		}
		if !strings.Contains(err.Detail, "1 remaining") {
			t.Errorf("Detail = %v, should mention remaining bytes", err.Detail)
		}
	})

	t.Run("UnknownTag", func(t *testing.T) {
		err := UnknownTag(PhaseDecode, "number", 7)
		if err.Kind != KindUnknownTag {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnknownTag)
		}
		if err.Value != uint8(7) {
			t.Errorf("Value = %v, want 7", err.Value)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseResource, "resource", 100)
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
		if !strings.Contains(err.Detail, "100") {
			t.Errorf("Detail = %v, should contain id", err.Detail)
		}
	})

	t.Run("InvalidSize", func(t *testing.T) {
		err := InvalidSize(PhaseBuffer, -1)
		if err.Kind != KindInvalidSize {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidSize)
		}
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		err := InvalidUTF8(PhaseDecode, []string{"str"}, []byte{0xff, 0xfe})
		if err.Kind != KindInvalidUTF8 {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidUTF8)
		}
	})

	t.Run("AllocationFailed", func(t *testing.T) {
		err := AllocationFailed(PhaseBuffer, 1024, errors.New("oom"))
		if err.Kind != KindAllocation {
			t.Errorf("Kind = %v, want %v", err.Kind, KindAllocation)
		}
		if !strings.Contains(err.Detail, "1024") {
			t.Errorf("Detail = %v, should contain size", err.Detail)
		}
	})

	t.Run("Closed", func(t *testing.T) {
		err := Closed(PhaseBuffer, "buffer")
		if err.Kind != KindClosed {
			t.Errorf("Kind = %v, want %v", err.Kind, KindClosed)
		}
	})

	t.Run("Canceled", func(t *testing.T) {
		err := Canceled(PhaseCallback, "promise canceled")
		if err.Kind != KindCanceled {
			t.Errorf("Kind = %v, want %v", err.Kind, KindCanceled)
		}
	})

	t.Run("Registration", func(t *testing.T) {
		err := Registration(PhasePeer, "interop#hold", errors.New("dup"))
		if err.Kind != KindRegistration {
			t.Errorf("Kind = %v, want %v", err.Kind, KindRegistration)
		}
		if err.Cause == nil {
			t.Error("Registration should keep its cause")
		}
	})

	t.Run("Instantiation", func(t *testing.T) {
		err := Instantiation(errors.New("bad module"))
		if err.Phase != PhasePeer || err.Kind != KindInstantiation {
			t.Errorf("got [%v] %v", err.Phase, err.Kind)
		}
	})
}

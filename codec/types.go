package codec

import (
	"math"
	"strconv"

	interop "github.com/wippyai/peer-interop"
	"github.com/wippyai/peer-interop/errors"
	"github.com/wippyai/peer-interop/resource"
	"github.com/wippyai/peer-interop/wire"
)

// Sentinels for errors.Is.
var (
	ErrOutOfBounds = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindOutOfBounds}
	ErrUnknownTag  = &errors.Error{Kind: errors.KindUnknownTag}
	ErrCanceled    = &errors.Error{Phase: errors.PhaseCallback, Kind: errors.KindCanceled}
)

// Pointer is a native address or function identifier. It is always 8 bytes
// on the wire.
type Pointer = uint64

// Number is a possibly undefined JavaScript-style number.
type Number struct {
	Value float64
	Valid bool
}

// NumberUndefined is the absent number.
var NumberUndefined = Number{}

// NumberOf returns a defined number.
func NumberOf(v float64) Number {
	return Number{Value: v, Valid: true}
}

// IsInt32 reports whether n is defined, whole and within int32 range.
// NaN and infinities are not.
func (n Number) IsInt32() bool {
	return n.Valid &&
		n.Value == math.Trunc(n.Value) &&
		n.Value >= math.MinInt32 &&
		n.Value <= math.MaxInt32
}

func (n Number) String() string {
	if !n.Valid {
		return "undefined"
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// Boolean is a tri-state boolean whose values are the wire sentinels.
type Boolean uint8

const (
	BooleanFalse     = Boolean(wire.BoolFalse)
	BooleanTrue      = Boolean(wire.BoolTrue)
	BooleanUndefined = Boolean(wire.BoolUndefined)
)

// BooleanOf converts a Go bool.
func BooleanOf(v bool) Boolean {
	if v {
		return BooleanTrue
	}
	return BooleanFalse
}

// Valid reports whether b is one of the three sentinels.
func (b Boolean) Valid() bool {
	return b == BooleanFalse || b == BooleanTrue || b == BooleanUndefined
}

// Defined reports whether b is true or false.
func (b Boolean) Defined() bool {
	return b == BooleanFalse || b == BooleanTrue
}

// Bool reports whether b is BooleanTrue.
func (b Boolean) Bool() bool {
	return b == BooleanTrue
}

func (b Boolean) String() string {
	switch b {
	case BooleanFalse:
		return "false"
	case BooleanTrue:
		return "true"
	case BooleanUndefined:
		return "undefined"
	}
	return "Boolean(" + strconv.Itoa(int(b)) + ")"
}

// Hooks are the native function identifiers embedded in callback resources.
// The native side calls Hold and Release to adjust the holders count and
// Call or CallSync to invoke the callback.
type Hooks struct {
	Hold     Pointer
	Release  Pointer
	Call     Pointer
	CallSync Pointer
}

// CallbackResource is a resource ID plus its native hold and release hooks.
type CallbackResource struct {
	ID      resource.ID
	Hold    Pointer
	Release Pointer
}

// NativeCallback is a callback owned by the native side.
type NativeCallback struct {
	CallbackResource
	Call     Pointer
	CallSync Pointer
}

// NativeBuffer is a view over native-owned bytes, reference counted through
// its callback resource.
type NativeBuffer struct {
	Resource CallbackResource
	Data     Pointer
	Length   int64
}

// Read copies the viewed bytes out of mem.
func (b NativeBuffer) Read(mem interop.Memory) ([]byte, error) {
	if b.Length < 0 || b.Length > math.MaxUint32 || b.Data > math.MaxUint32 {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			WireType("buffer").
			Detail("buffer 0x%x+%d is outside 32-bit memory", b.Data, b.Length).
			Build()
	}
	if b.Length == 0 {
		return []byte{}, nil
	}
	data, err := mem.Read(uint32(b.Data), uint32(b.Length))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "read native buffer")
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// LengthUnit is the unit of a Length.
type LengthUnit int32

const (
	UnitPX LengthUnit = iota
	UnitVP
	UnitFP
	UnitPercent
	UnitLPX
)

func (u LengthUnit) String() string {
	switch u {
	case UnitPX:
		return "px"
	case UnitVP:
		return "vp"
	case UnitFP:
		return "fp"
	case UnitPercent:
		return "%"
	case UnitLPX:
		return "lpx"
	}
	return "unit(" + strconv.Itoa(int(u)) + ")"
}

// Length is a dimension with a unit, written under the LENGTH tag.
type Length struct {
	Value float32
	Unit  LengthUnit
}

func (l Length) String() string {
	return strconv.FormatFloat(float64(l.Value), 'g', -1, 32) + l.Unit.String()
}

// Ref references an existing resource by ID, written under the RESOURCE tag.
// Writing a Ref does not register or hold anything.
type Ref struct {
	ID resource.ID
}

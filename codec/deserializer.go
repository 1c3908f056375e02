package codec

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/wippyai/peer-interop/errors"
	"github.com/wippyai/peer-interop/resource"
	"github.com/wippyai/peer-interop/wire"
)

// Deserializer reads values in the order they were written, bounds checking
// every read. Any error leaves the stream unusable.
//
// A Deserializer owns no resources; it only resolves IDs through its holder.
type Deserializer struct {
	holder   *resource.Holder
	registry *Registry
	data     []byte
	pos      int
}

// NewDeserializer creates a deserializer over data resolving objects in
// holder. A nil holder uses resource.Default().
func NewDeserializer(data []byte, holder *resource.Holder) *Deserializer {
	return NewDeserializerWithConfig(data, &Config{Holder: holder})
}

// NewDeserializerWithConfig creates a deserializer. A nil cfg uses defaults.
func NewDeserializerWithConfig(data []byte, cfg *Config) *Deserializer {
	c := cfg.withDefaults()
	return &Deserializer{
		data:     data,
		holder:   c.Holder,
		registry: c.Registry,
	}
}

// Holder returns the holder objects are resolved in.
func (d *Deserializer) Holder() *resource.Holder {
	return d.holder
}

// Registry returns the custom kind registry.
func (d *Deserializer) Registry() *Registry {
	return d.registry
}

// Position returns the cursor offset.
func (d *Deserializer) Position() int {
	return d.pos
}

// Len returns the declared length of the input.
func (d *Deserializer) Len() int {
	return len(d.data)
}

// Remaining returns the number of unread bytes.
func (d *Deserializer) Remaining() int {
	return len(d.data) - d.pos
}

// CheckCapacity fails when fewer than n bytes remain.
func (d *Deserializer) CheckCapacity(n int) error {
	if n < 0 || n > d.Remaining() {
		return errors.OutOfBounds(errors.PhaseDecode, d.pos, n, d.Remaining())
	}
	return nil
}

func (d *Deserializer) take(n int) ([]byte, error) {
	if err := d.CheckCapacity(n); err != nil {
		return nil, err
	}
	p := d.data[d.pos : d.pos+n]
	d.pos += n
	return p, nil
}

// ReadInt8 reads one byte.
func (d *Deserializer) ReadInt8() (int8, error) {
	p, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return int8(p[0]), nil
}

func (d *Deserializer) readByte() (byte, error) {
	p, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

// ReadInt32 reads 4 little-endian bytes.
func (d *Deserializer) ReadInt32() (int32, error) {
	p, err := d.take(wire.SizeInt32)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(p)), nil
}

// ReadInt64 reads 8 little-endian bytes.
func (d *Deserializer) ReadInt64() (int64, error) {
	p, err := d.take(wire.SizeInt64)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(p)), nil
}

// ReadPointer reads an 8-byte pointer.
func (d *Deserializer) ReadPointer() (Pointer, error) {
	p, err := d.take(wire.SizePointer)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(p), nil
}

// ReadFloat32 reads 4 little-endian IEEE-754 bytes.
func (d *Deserializer) ReadFloat32() (float32, error) {
	p, err := d.take(wire.SizeFloat32)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(p)), nil
}

// ReadBoolean reads one byte and reports whether it is the true sentinel.
func (d *Deserializer) ReadBoolean() (bool, error) {
	b, err := d.readByte()
	if err != nil {
		return false, err
	}
	return b == wire.BoolTrue, nil
}

// ReadOptionalBoolean reads a tri-state boolean. Bytes other than the three
// sentinels are rejected.
func (d *Deserializer) ReadOptionalBoolean() (Boolean, error) {
	at := d.pos
	b, err := d.readByte()
	if err != nil {
		return BooleanUndefined, err
	}
	v := Boolean(b)
	if !v.Valid() {
		return BooleanUndefined, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			WireType("boolean").
			Value(b).
			Detail("invalid boolean byte %d at offset %d", b, at).
			Build()
	}
	return v, nil
}

// ReadRuntimeType reads the one-byte presence or union discriminant.
func (d *Deserializer) ReadRuntimeType() (wire.RuntimeType, error) {
	v, err := d.ReadInt8()
	if err != nil {
		return wire.RuntimeUnexpected, err
	}
	return wire.RuntimeType(v), nil
}

// ReadNumber reads a tagged number. UNDEFINED yields NumberUndefined.
func (d *Deserializer) ReadNumber() (Number, error) {
	tag, err := d.readByte()
	if err != nil {
		return NumberUndefined, err
	}
	switch wire.Tag(tag) {
	case wire.TagUndefined:
		return NumberUndefined, nil
	case wire.TagInt32:
		v, err := d.ReadInt32()
		if err != nil {
			return NumberUndefined, err
		}
		return NumberOf(float64(v)), nil
	case wire.TagFloat32:
		v, err := d.ReadFloat32()
		if err != nil {
			return NumberUndefined, err
		}
		return NumberOf(float64(v)), nil
	}
	return NumberUndefined, errors.UnknownTag(errors.PhaseDecode, "number", tag)
}

// ReadString reads int32 L then L bytes, dropping the trailing NUL.
// L == 0 yields the empty string.
func (d *Deserializer) ReadString() (string, error) {
	at := d.pos
	n, err := d.ReadInt32()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", errors.New(errors.PhaseDecode, errors.KindInvalidSize).
			WireType("string").
			Value(n).
			Detail("negative string length %d at offset %d", n, at).
			Build()
	}
	p, err := d.take(int(n))
	if err != nil {
		return "", err
	}
	if len(p) > 0 && p[len(p)-1] == 0 {
		p = p[:len(p)-1]
	}
	if !utf8.Valid(p) {
		return "", errors.InvalidUTF8(errors.PhaseDecode, nil, p)
	}
	return string(p), nil
}

// ReadCallbackResource reads (id, hold, release).
func (d *Deserializer) ReadCallbackResource() (CallbackResource, error) {
	id, err := d.ReadInt32()
	if err != nil {
		return CallbackResource{}, err
	}
	hold, err := d.ReadPointer()
	if err != nil {
		return CallbackResource{}, err
	}
	release, err := d.ReadPointer()
	if err != nil {
		return CallbackResource{}, err
	}
	return CallbackResource{ID: resource.ID(id), Hold: hold, Release: release}, nil
}

// ReadCallback reads a callback resource followed by call and callSync.
func (d *Deserializer) ReadCallback() (NativeCallback, error) {
	r, err := d.ReadCallbackResource()
	if err != nil {
		return NativeCallback{}, err
	}
	call, err := d.ReadPointer()
	if err != nil {
		return NativeCallback{}, err
	}
	callSync, err := d.ReadPointer()
	if err != nil {
		return NativeCallback{}, err
	}
	return NativeCallback{CallbackResource: r, Call: call, CallSync: callSync}, nil
}

// ReadObject reads a callback resource and returns the object registered
// under its ID.
func (d *Deserializer) ReadObject() (any, error) {
	r, err := d.ReadCallbackResource()
	if err != nil {
		return nil, err
	}
	return d.holder.Get(r.ID)
}

// ReadResource reads a bare int32 ID and returns the object registered
// under it.
func (d *Deserializer) ReadResource() (any, error) {
	id, err := d.ReadInt32()
	if err != nil {
		return nil, err
	}
	return d.holder.Get(resource.ID(id))
}

// ReadBuffer reads a buffer handle without copying the viewed bytes.
func (d *Deserializer) ReadBuffer() (NativeBuffer, error) {
	r, err := d.ReadCallbackResource()
	if err != nil {
		return NativeBuffer{}, err
	}
	data, err := d.ReadPointer()
	if err != nil {
		return NativeBuffer{}, err
	}
	length, err := d.ReadInt64()
	if err != nil {
		return NativeBuffer{}, err
	}
	return NativeBuffer{Resource: r, Data: data, Length: length}, nil
}

// ReadCustomObject decodes a value with the highest priority deserializer
// registered for kind. When none is registered one tag byte is consumed
// and an unknown tag error is returned.
func (d *Deserializer) ReadCustomObject(kind string) (any, error) {
	fn, ok := d.registry.Deserializer(kind)
	if ok {
		return fn(d)
	}
	at := d.pos
	if _, err := d.readByte(); err != nil {
		return nil, err
	}
	return nil, errors.New(errors.PhaseCustom, errors.KindUnknownTag).
		GoType(kind).
		Value(at).
		Detail("no custom deserializer for kind %q", kind).
		Build()
}

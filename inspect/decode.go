package inspect

import (
	"fmt"
	"strconv"

	"github.com/wippyai/peer-interop/codec"
	"github.com/wippyai/peer-interop/errors"
	"github.com/wippyai/peer-interop/resource"
	"github.com/wippyai/peer-interop/wire"
)

// Value is one decoded field.
type Value struct {
	Value  any    `json:"value"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
}

// String formats the decoded value for display.
func (v Value) String() string {
	switch x := v.Value.(type) {
	case nil:
		return "undefined"
	case string:
		return strconv.Quote(x)
	case codec.CallbackResource:
		return fmt.Sprintf("resource #%d hold=%#x release=%#x", x.ID, x.Hold, x.Release)
	case codec.NativeCallback:
		return fmt.Sprintf("callback #%d hold=%#x release=%#x call=%#x callSync=%#x",
			x.ID, x.Hold, x.Release, x.Call, x.CallSync)
	case codec.NativeBuffer:
		return fmt.Sprintf("buffer #%d data=%#x len=%d", x.Resource.ID, x.Data, x.Length)
	case codec.Ref:
		return fmt.Sprintf("ref #%d", x.ID)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v.Value)
}

// Decode reads data field by field following schema. A nil schema reads
// tagged values until the data is exhausted. Values decoded before a
// failure are returned with the error.
//
// Object references are reported as callback resources rather than being
// resolved, so Decode works on dumps taken from another process.
func Decode(data []byte, schema *Schema, registry *codec.Registry) ([]Value, error) {
	d := codec.NewDeserializerWithConfig(data, &codec.Config{
		Holder:   resource.NewHolder(),
		Registry: registry,
	})

	if schema == nil {
		var out []Value
		for i := 0; d.Remaining() > 0; i++ {
			v, err := decodeField(d, data, Field{Name: "#" + strconv.Itoa(i), Kind: KindTagged})
			if err != nil {
				return out, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	out := make([]Value, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		v, err := decodeField(d, data, f)
		if err != nil {
			return out, fieldError(schema.Name, f, err)
		}
		out = append(out, v)
	}
	if d.Remaining() > 0 {
		return out, errors.New(errors.PhaseSchema, errors.KindInvalidData).
			Path(schema.Name).
			Value(d.Position()).
			Detail("%d trailing bytes", d.Remaining()).
			Build()
	}
	return out, nil
}

func fieldError(schema string, f Field, err error) error {
	return errors.New(errors.PhaseSchema, errors.KindInvalidData).
		Path(schema, f.Name).
		WireType(f.Kind).
		Cause(err).
		Build()
}

func decodeField(d *codec.Deserializer, data []byte, f Field) (Value, error) {
	start := d.Position()
	v, err := decodeKind(d, data, f)
	if err != nil {
		return Value{}, err
	}
	return Value{Name: f.Name, Kind: f.Kind, Offset: start, Size: d.Position() - start, Value: v}, nil
}

func decodeKind(d *codec.Deserializer, data []byte, f Field) (any, error) {
	if kind, ok := f.Custom(); ok {
		return d.ReadCustomObject(kind)
	}

	switch f.Kind {
	case KindInt8:
		return d.ReadInt8()
	case KindInt32:
		return d.ReadInt32()
	case KindInt64:
		return d.ReadInt64()
	case KindFloat32:
		return d.ReadFloat32()
	case KindPointer:
		return d.ReadPointer()
	case KindBoolean:
		return d.ReadOptionalBoolean()
	case KindNumber:
		return d.ReadNumber()
	case KindString:
		return d.ReadString()
	case KindRuntimeType:
		return d.ReadRuntimeType()
	case KindCallbackResource:
		return d.ReadCallbackResource()
	case KindCallback:
		return d.ReadCallback()
	case KindBuffer:
		return d.ReadBuffer()
	case KindLength:
		if err := expectTag(d, data, wire.TagLength); err != nil {
			return nil, err
		}
		return readLength(d)
	case KindTagged:
		return readTagged(d, data)
	}
	return nil, errors.Unsupported(errors.PhaseSchema, "field kind "+f.Kind)
}

func peekTag(d *codec.Deserializer, data []byte) (wire.Tag, error) {
	if err := d.CheckCapacity(wire.SizeTag); err != nil {
		return 0, err
	}
	return wire.Tag(data[d.Position()]), nil
}

func expectTag(d *codec.Deserializer, data []byte, want wire.Tag) error {
	tag, err := peekTag(d, data)
	if err != nil {
		return err
	}
	if tag != want {
		return errors.UnknownTag(errors.PhaseDecode, want.String(), uint8(tag))
	}
	_, err = d.ReadInt8()
	return err
}

func readLength(d *codec.Deserializer) (codec.Length, error) {
	v, err := d.ReadFloat32()
	if err != nil {
		return codec.Length{}, err
	}
	unit, err := d.ReadInt32()
	if err != nil {
		return codec.Length{}, err
	}
	return codec.Length{Value: v, Unit: codec.LengthUnit(unit)}, nil
}

// readTagged is ReadTagged without resolving OBJECT references.
func readTagged(d *codec.Deserializer, data []byte) (any, error) {
	tag, err := peekTag(d, data)
	if err != nil {
		return nil, err
	}
	if tag != wire.TagObject {
		return d.ReadTagged()
	}
	if _, err := d.ReadInt8(); err != nil {
		return nil, err
	}
	return d.ReadCallbackResource()
}

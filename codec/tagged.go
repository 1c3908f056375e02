package codec

import (
	"math"

	"github.com/wippyai/peer-interop/errors"
	"github.com/wippyai/peer-interop/resource"
	"github.com/wippyai/peer-interop/wire"
)

// WriteTagged writes a dynamically typed value behind a leading tag:
//
//	nil                      UNDEFINED
//	int types in int32 range INT32 + int32
//	other numbers, Number    number encoding (UNDEFINED, INT32 or FLOAT32)
//	string                   STRING + string
//	Length                   LENGTH + float32 + int32 unit
//	Ref                      RESOURCE + int32 id
//	anything else            OBJECT + callback resource of the registered value
func (s *Serializer) WriteTagged(v any) {
	switch x := v.(type) {
	case nil:
		s.writeTag(wire.TagUndefined)
	case int:
		s.writeInteger(int64(x))
	case int8:
		s.writeInteger(int64(x))
	case int16:
		s.writeInteger(int64(x))
	case int32:
		s.writeInteger(int64(x))
	case int64:
		s.writeInteger(x)
	case uint8:
		s.writeInteger(int64(x))
	case uint16:
		s.writeInteger(int64(x))
	case uint32:
		s.writeInteger(int64(x))
	case uint:
		s.writeUnsigned(uint64(x))
	case uint64:
		s.writeUnsigned(x)
	case float32:
		s.WriteNumber(NumberOf(float64(x)))
	case float64:
		s.WriteNumber(NumberOf(x))
	case Number:
		s.WriteNumber(x)
	case string:
		s.writeTag(wire.TagString)
		s.WriteString(x)
	case Length:
		s.writeTag(wire.TagLength)
		s.buf.WriteFloat32(x.Value)
		s.buf.WriteInt32(int32(x.Unit))
	case Ref:
		s.writeTag(wire.TagResource)
		s.buf.WriteInt32(int32(x.ID))
	default:
		s.writeTag(wire.TagObject)
		s.HoldAndWriteObject(v)
	}
}

func (s *Serializer) writeInteger(v int64) {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		s.writeTag(wire.TagInt32)
		s.buf.WriteInt32(int32(v))
		return
	}
	s.writeTag(wire.TagFloat32)
	s.buf.WriteFloat32(float32(v))
}

func (s *Serializer) writeUnsigned(v uint64) {
	if v <= math.MaxInt32 {
		s.writeInteger(int64(v))
		return
	}
	s.writeTag(wire.TagFloat32)
	s.buf.WriteFloat32(float32(v))
}

// ReadTagged reads a value written by WriteTagged. INT32 yields int32,
// FLOAT32 float32, UNDEFINED nil, RESOURCE a Ref and OBJECT the registered
// object.
func (d *Deserializer) ReadTagged() (any, error) {
	tag, err := d.readByte()
	if err != nil {
		return nil, err
	}
	switch wire.Tag(tag) {
	case wire.TagUndefined:
		return nil, nil
	case wire.TagInt32:
		return d.ReadInt32()
	case wire.TagFloat32:
		return d.ReadFloat32()
	case wire.TagString:
		return d.ReadString()
	case wire.TagLength:
		v, err := d.ReadFloat32()
		if err != nil {
			return nil, err
		}
		unit, err := d.ReadInt32()
		if err != nil {
			return nil, err
		}
		return Length{Value: v, Unit: LengthUnit(unit)}, nil
	case wire.TagResource:
		id, err := d.ReadInt32()
		if err != nil {
			return nil, err
		}
		return Ref{ID: resource.ID(id)}, nil
	case wire.TagObject:
		return d.ReadObject()
	}
	return nil, errors.UnknownTag(errors.PhaseDecode, "tagged value", tag)
}

package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/peer-interop/resource"
	"github.com/wippyai/peer-interop/wire"
)

func TestTagged_RoundTrip(t *testing.T) {
	holder := resource.NewHolder()
	obj := &struct{ name string }{"peer"}

	tests := []struct {
		name string
		in   any
		tag  wire.Tag
		want any
	}{
		{"nil", nil, wire.TagUndefined, nil},
		{"int", 7, wire.TagInt32, int32(7)},
		{"int64 in range", int64(-9), wire.TagInt32, int32(-9)},
		{"int64 out of range", int64(math.MaxInt32) + 1, wire.TagFloat32, float32(math.MaxInt32 + 1)},
		{"uint64 out of range", uint64(1) << 40, wire.TagFloat32, float32(1 << 40)},
		{"uint8", uint8(200), wire.TagInt32, int32(200)},
		{"whole float", 3.0, wire.TagInt32, int32(3)},
		{"fraction", 2.5, wire.TagFloat32, float32(2.5)},
		{"undefined number", NumberUndefined, wire.TagUndefined, nil},
		{"string", "héllo", wire.TagString, "héllo"},
		{"length", Length{Value: 12.5, Unit: UnitVP}, wire.TagLength, Length{Value: 12.5, Unit: UnitVP}},
		{"ref", Ref{ID: 321}, wire.TagResource, Ref{ID: 321}},
		{"object", obj, wire.TagObject, obj},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSerializer(holder)
			defer s.Close()

			s.WriteTagged(tt.in)
			require.Equal(t, byte(tt.tag), s.Bytes()[0])

			d := NewDeserializer(s.Bytes(), holder)
			got, err := d.ReadTagged()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Zero(t, d.Remaining())
		})
	}
}

func TestTagged_ObjectIsReleased(t *testing.T) {
	holder := resource.NewHolder()
	s := NewSerializer(holder)

	s.WriteTagged(struct{ X int }{1})
	require.Equal(t, 1, holder.Len())
	require.NoError(t, s.Close())
	assert.Zero(t, holder.Len())
}

func TestTagged_UnknownTag(t *testing.T) {
	d := NewDeserializer([]byte{42}, resource.NewHolder())
	_, err := d.ReadTagged()
	require.ErrorIs(t, err, ErrUnknownTag)
}

func TestLengthString(t *testing.T) {
	assert.Equal(t, "12.5vp", Length{Value: 12.5, Unit: UnitVP}.String())
	assert.Equal(t, "50%", Length{Value: 50, Unit: UnitPercent}.String())
	assert.Equal(t, "unit(9)", LengthUnit(9).String())
}

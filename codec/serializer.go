package codec

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/peer-interop/buffer"
	"github.com/wippyai/peer-interop/resource"
	"github.com/wippyai/peer-interop/wire"
)

// Serializer encodes values into the wire format in call order and tracks
// every resource it registers so they can be released together.
//
// A Serializer belongs to one in-flight call and is not safe for concurrent use.
type Serializer struct {
	buf      *buffer.Buffer
	holder   *resource.Holder
	registry *Registry
	pool     *SerializerPool
	held     []resource.ID
	hooks    Hooks
	closed   bool
}

// NewSerializer creates a serializer registering resources in holder.
// A nil holder uses resource.Default().
func NewSerializer(holder *resource.Holder) *Serializer {
	return NewSerializerWithConfig(&Config{Holder: holder})
}

// NewSerializerWithConfig creates a serializer. A nil cfg uses defaults.
func NewSerializerWithConfig(cfg *Config) *Serializer {
	c := cfg.withDefaults()

	var buf *buffer.Buffer
	if c.InitialCapacity <= buffer.InitialCapacity {
		buf = buffer.Get()
	} else {
		buf = buffer.NewWithCapacity(c.InitialCapacity)
	}
	buf.SetGrowHook(c.GrowHook)

	return &Serializer{
		buf:      buf,
		holder:   c.Holder,
		registry: c.Registry,
		hooks:    c.Hooks,
	}
}

// Holder returns the holder resources are registered in.
func (s *Serializer) Holder() *resource.Holder {
	return s.holder
}

// Registry returns the custom kind registry.
func (s *Serializer) Registry() *Registry {
	return s.registry
}

// Hooks returns the hooks embedded in written callback resources.
func (s *Serializer) Hooks() Hooks {
	return s.hooks
}

// Bytes returns the encoded bytes. The slice is valid until the next write,
// Release or Close.
func (s *Serializer) Bytes() []byte {
	return s.buf.Bytes()
}

// Length returns the number of bytes written.
func (s *Serializer) Length() int {
	return s.buf.Len()
}

// Held returns a copy of the IDs registered since the last Release.
func (s *Serializer) Held() []resource.ID {
	out := make([]resource.ID, len(s.held))
	copy(out, s.held)
	return out
}

// Buffer exposes the underlying buffer for custom kinds that write raw bytes.
func (s *Serializer) Buffer() *buffer.Buffer {
	return s.buf
}

func (s *Serializer) WriteInt8(v int8)       { s.buf.WriteInt8(v) }
func (s *Serializer) WriteInt32(v int32)     { s.buf.WriteInt32(v) }
func (s *Serializer) WriteInt64(v int64)     { s.buf.WriteInt64(v) }
func (s *Serializer) WriteFloat32(v float32) { s.buf.WriteFloat32(v) }
func (s *Serializer) WritePointer(v Pointer) { s.buf.WritePointer(v) }

func (s *Serializer) writeTag(t wire.Tag) {
	_ = s.buf.WriteByte(byte(t))
}

// WriteUndefined writes a single UNDEFINED tag.
func (s *Serializer) WriteUndefined() {
	s.writeTag(wire.TagUndefined)
}

// WriteRuntimeType writes the one-byte presence or union discriminant.
func (s *Serializer) WriteRuntimeType(t wire.RuntimeType) {
	s.buf.WriteInt8(int8(t))
}

// WriteNumber writes UNDEFINED, INT32 + int32 when n is whole and within
// int32 range, or FLOAT32 + float32 otherwise.
func (s *Serializer) WriteNumber(n Number) {
	switch {
	case !n.Valid:
		s.writeTag(wire.TagUndefined)
	case n.IsInt32():
		s.writeTag(wire.TagInt32)
		s.buf.WriteInt32(int32(n.Value))
	default:
		s.writeTag(wire.TagFloat32)
		s.buf.WriteFloat32(float32(n.Value))
	}
}

// WriteBoolean writes the sentinel byte of b. Values other than the three
// sentinels are written as undefined.
func (s *Serializer) WriteBoolean(b Boolean) {
	if !b.Valid() {
		b = BooleanUndefined
	}
	_ = s.buf.WriteByte(byte(b))
}

// WriteString writes int32(len+1), the UTF-8 bytes and a NUL pad.
// Invalid UTF-8 sequences are replaced with U+FFFD so that every written
// string reads back.
func (s *Serializer) WriteString(v string) {
	if !utf8.ValidString(v) {
		v = strings.ToValidUTF8(v, string(utf8.RuneError))
	}
	n := len(v)
	if err := s.buf.EnsureCapacity(wire.SizeInt32 + n + 1); err != nil {
		panic(err)
	}
	s.buf.WriteInt32(int32(n + 1))
	_, _ = s.buf.Write([]byte(v))
	_ = s.buf.WriteByte(0)
}

// WriteCallbackResource writes the (id, hold, release) triple.
func (s *Serializer) WriteCallbackResource(r CallbackResource) {
	s.buf.WriteInt32(int32(r.ID))
	s.buf.WritePointer(r.Hold)
	s.buf.WritePointer(r.Release)
}

// WriteCallback writes a callback resource followed by call and callSync.
func (s *Serializer) WriteCallback(c NativeCallback) {
	s.WriteCallbackResource(c.CallbackResource)
	s.buf.WritePointer(c.Call)
	s.buf.WritePointer(c.CallSync)
}

// hold registers v and records its ID for Release.
func (s *Serializer) hold(v any) resource.ID {
	id := s.holder.RegisterAndHold(v)
	s.held = append(s.held, id)
	return id
}

// HoldAndWriteObject registers obj and writes it as a callback resource
// carrying the configured hold and release hooks.
func (s *Serializer) HoldAndWriteObject(obj any) resource.ID {
	id := s.hold(obj)
	s.WriteCallbackResource(CallbackResource{ID: id, Hold: s.hooks.Hold, Release: s.hooks.Release})
	return id
}

// WriteResource registers obj and writes only its int32 ID.
func (s *Serializer) WriteResource(obj any) resource.ID {
	id := s.hold(obj)
	s.buf.WriteInt32(int32(id))
	return id
}

// HoldAndWriteCallback registers cb and writes (id, hold, release, call,
// callSync). Zero pointers fall back to the configured hooks.
func (s *Serializer) HoldAndWriteCallback(cb any, hold, release, call, callSync Pointer) resource.ID {
	id := s.hold(cb)
	s.WriteCallback(NativeCallback{
		CallbackResource: CallbackResource{
			ID:      id,
			Hold:    orDefault(hold, s.hooks.Hold),
			Release: orDefault(release, s.hooks.Release),
		},
		Call:     orDefault(call, s.hooks.Call),
		CallSync: orDefault(callSync, s.hooks.CallSync),
	})
	return id
}

func orDefault(p, def Pointer) Pointer {
	if p == 0 {
		return def
	}
	return p
}

// WriteBuffer writes the buffer's callback resource, data pointer and int64
// length.
func (s *Serializer) WriteBuffer(b NativeBuffer) {
	s.WriteCallbackResource(b.Resource)
	s.buf.WritePointer(b.Data)
	s.buf.WriteInt64(b.Length)
}

// WriteCustomObject encodes v with the highest priority serializer
// registered for kind. When none is registered a single UNDEFINED tag is
// written so the rest of the stream stays well formed.
func (s *Serializer) WriteCustomObject(kind string, v any) error {
	fn, ok := s.registry.Serializer(kind)
	if !ok {
		Logger().Debug("no custom serializer, writing undefined", zap.String("kind", kind))
		s.writeTag(wire.TagUndefined)
		return nil
	}
	return fn(s, v)
}

// Release releases every resource registered since the last Release and
// rewinds the buffer. All lookup failures are combined.
func (s *Serializer) Release() error {
	var err error
	for _, id := range s.held {
		err = multierr.Append(err, s.holder.Release(id))
	}
	s.held = s.held[:0]
	s.buf.Reset()
	return err
}

// Close releases held resources and returns the serializer's memory to its
// pool. A closed serializer must not be used.
func (s *Serializer) Close() error {
	if s.closed {
		return nil
	}
	if s.pool != nil {
		return s.pool.put(s)
	}
	err := s.Release()
	s.closed = true
	buffer.Put(s.buf)
	s.buf = nil
	return err
}

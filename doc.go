// Package interop moves structured values between Go and a native peer.
//
// Values cross the boundary as a compact tagged binary wire format. Go objects
// and callbacks never cross directly: they are registered in a reference-counted
// resource holder and only their integer resource IDs are exchanged.
//
// # Architecture Overview
//
//	interop/             Root package with Memory, Allocator and Boundary interfaces
//	├── wire/            Tag constants, boolean sentinels, fixed widths
//	├── resource/        Reference-counted resource holder
//	├── buffer/          Growable byte buffer and native-memory export
//	├── codec/           Serializer, Deserializer, custom kinds, callbacks, promises
//	├── peer/            wazero-hosted native peer
//	├── metrics/         Prometheus collector
//	├── inspect/         Schema-driven wire decoding for tooling
//	├── errors/          Structured error types
//	└── cmd/wiredump/    Wire dump inspector
//
// # Quick Start
//
// Encode a call, send it across the boundary, decode the result:
//
//	holder := resource.NewHolder()
//
//	s := codec.NewSerializer(holder)
//	defer s.Close()
//
//	s.WriteNumber(codec.NumberOf(42))
//	s.WriteString("hi")
//	s.WriteBoolean(codec.BooleanUndefined)
//
//	out, err := p.Call(ctx, "set_title", s.Bytes())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := s.Release(); err != nil {
//	    log.Fatal(err)
//	}
//
//	d := codec.NewDeserializer(out, holder)
//	n, err := d.ReadNumber()
//
// # Wire Format
//
// Every value is written in call order with no field names. The only
// self-description is the per-value tag on numbers and tagged values, so the
// reader must consume fields in exactly the order the writer produced them:
//
//	int8            1 byte
//	int32/float32   4 bytes little-endian
//	int64/pointer   8 bytes little-endian
//	boolean         1 byte: 0=false, 1=true, 5=undefined
//	number          tag (101 undefined, 102 int32, 103 float32) + payload
//	string          int32 (len+1) + UTF-8 bytes + NUL
//	callback        int32 id + hold + release [+ call + callSync]
//	buffer          callback resource + data pointer + int64 length
//
// # Thread Safety
//
// The resource holder is safe for concurrent use. Serializer and Deserializer
// are NOT thread-safe and belong to a single in-flight call.
package interop

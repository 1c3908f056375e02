// Package codec implements the Serializer and Deserializer of the interop
// wire format.
//
// Values are written in call order with no field names and must be read
// back in exactly the same order:
//
//	holder := resource.NewHolder()
//	s := codec.NewSerializer(holder)
//	s.WriteNumber(codec.NumberOf(42))
//	s.WriteString("hi")
//	s.WriteBoolean(codec.BooleanUndefined)
//	// s.Bytes() == [102 42 0 0 0 3 0 0 0 'h' 'i' 0 5]
//
//	d := codec.NewDeserializer(s.Bytes(), holder)
//	n, _ := d.ReadNumber()         // 42
//	str, _ := d.ReadString()       // "hi"
//	b, _ := d.ReadOptionalBoolean() // BooleanUndefined
//
// # Resources
//
// HoldAndWriteObject, WriteResource and HoldAndWriteCallback register their
// argument in the holder and write its ID. Serializer.Release releases all
// of them and rewinds the buffer for reuse. ReadObject and ReadResource
// resolve IDs back to the original objects.
//
// # Custom Kinds
//
// A Registry maps exact kind names to prioritized strategies. The default
// registry encodes "Date" (time.Time) as an ISO-8601 string. An unknown
// kind is written as a single UNDEFINED tag; reading one consumes a byte
// and fails.
//
// # Callbacks and Promises
//
// HoldAndWriteCallbackForPromise registers a continuation and returns a
// Promise. The native side later sends a callback message (kind, id, args)
// which a Dispatcher routes to the continuation, settling the promise.
// Cancel rejects a pending promise and releases its hold.
//
//	p := codec.HoldAndWriteCallbackForPromise(s, (*codec.Deserializer).ReadString)
//	// ... call the peer, which eventually dispatches a message for p.ID()
//	v, err := p.Await(ctx)
package codec

// Package wire defines the byte-level constants of the interop wire format.
//
// Tag values must match the native side bit-for-bit.
package wire

import "strconv"

// Tag is the leading discriminant byte of a tagged value.
type Tag uint8

const (
	TagUndefined Tag = 101
	TagInt32     Tag = 102
	TagFloat32   Tag = 103
	TagString    Tag = 104
	TagLength    Tag = 105
	TagResource  Tag = 106
	TagObject    Tag = 107
)

var tagNames = [...]string{
	TagUndefined - TagUndefined: "UNDEFINED",
	TagInt32 - TagUndefined:     "INT32",
	TagFloat32 - TagUndefined:   "FLOAT32",
	TagString - TagUndefined:    "STRING",
	TagLength - TagUndefined:    "LENGTH",
	TagResource - TagUndefined:  "RESOURCE",
	TagObject - TagUndefined:    "OBJECT",
}

// Valid reports whether t is one of the recognized tags.
func (t Tag) Valid() bool {
	return t >= TagUndefined && t <= TagObject
}

func (t Tag) String() string {
	if !t.Valid() {
		return "Tag(" + strconv.Itoa(int(t)) + ")"
	}
	return tagNames[t-TagUndefined]
}

// Boolean sentinels. The undefined sentinel equals RuntimeUndefined.
const (
	BoolFalse     byte = 0
	BoolTrue      byte = 1
	BoolUndefined byte = 5
)

// RuntimeType is the one-byte discriminant written before optional and
// union-typed values.
type RuntimeType int8

const (
	RuntimeUnexpected   RuntimeType = -1
	RuntimeNumber       RuntimeType = 1
	RuntimeString       RuntimeType = 2
	RuntimeObject       RuntimeType = 3
	RuntimeBoolean      RuntimeType = 4
	RuntimeUndefined    RuntimeType = 5
	RuntimeBigint       RuntimeType = 6
	RuntimeFunction     RuntimeType = 7
	RuntimeSymbol       RuntimeType = 8
	RuntimeMaterialized RuntimeType = 9
)

func (r RuntimeType) String() string {
	switch r {
	case RuntimeUnexpected:
		return "UNEXPECTED"
	case RuntimeNumber:
		return "NUMBER"
	case RuntimeString:
		return "STRING"
	case RuntimeObject:
		return "OBJECT"
	case RuntimeBoolean:
		return "BOOLEAN"
	case RuntimeUndefined:
		return "UNDEFINED"
	case RuntimeBigint:
		return "BIGINT"
	case RuntimeFunction:
		return "FUNCTION"
	case RuntimeSymbol:
		return "SYMBOL"
	case RuntimeMaterialized:
		return "MATERIALIZED"
	}
	return "RuntimeType(" + strconv.Itoa(int(r)) + ")"
}

// Fixed widths in bytes.
const (
	SizeInt8    = 1
	SizeInt32   = 4
	SizeInt64   = 8
	SizeFloat32 = 4
	SizePointer = 8
	SizeTag     = 1

	// SizeCallbackResource is resourceId + hold + release.
	SizeCallbackResource = SizeInt32 + 2*SizePointer
	// SizeCallback adds call and callSync to a callback resource.
	SizeCallback = SizeCallbackResource + 2*SizePointer
	// SizeNativeBuffer is a callback resource + data pointer + int64 length.
	SizeNativeBuffer = SizeCallbackResource + SizePointer + SizeInt64
)

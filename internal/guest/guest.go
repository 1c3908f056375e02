// Package guest holds a minimal native peer module for tests and examples.
//
// The module imports interop.hold, interop.release and interop.call and
// exports:
//
//	memory                  1 page
//	malloc(size) -> ptr     bump allocator starting at 1024
//	free(ptr)               no-op
//	echo(ptr, len)          returns the argument region unchanged
//	retain_first(ptr, len)  holds the int32 resource ID at ptr, returns empty
//	release_first(ptr, len) releases the int32 resource ID at ptr, returns empty
//	dispatch(ptr, len)      passes the arguments to interop.call, returns empty
//
// Results are packed as (ptr << 32) | len.
package guest

// Module is the compiled guest.
var Module = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	// type section
	0x01, 0x16, 0x04, 0x60, 0x01, 0x7f, 0x01, 0x7f, 0x60, 0x02, 0x7f, 0x7f,
	0x01, 0x7f, 0x60, 0x01, 0x7f, 0x00, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7e,
	// import section
	0x02, 0x31, 0x03, 0x07, 0x69, 0x6e, 0x74, 0x65, 0x72, 0x6f, 0x70, 0x04,
	0x68, 0x6f, 0x6c, 0x64, 0x00, 0x00, 0x07, 0x69, 0x6e, 0x74, 0x65, 0x72,
	0x6f, 0x70, 0x07, 0x72, 0x65, 0x6c, 0x65, 0x61, 0x73, 0x65, 0x00, 0x00,
	0x07, 0x69, 0x6e, 0x74, 0x65, 0x72, 0x6f, 0x70, 0x04, 0x63, 0x61, 0x6c,
	0x6c, 0x00, 0x01,
	// function section
	0x03, 0x07, 0x06, 0x00, 0x02, 0x03, 0x03, 0x03, 0x03,
	// memory section
	0x05, 0x03, 0x01, 0x00, 0x01,
	// global section
	0x06, 0x07, 0x01, 0x7f, 0x01, 0x41, 0x80, 0x08, 0x0b,
	// export section
	0x07, 0x4b, 0x07, 0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00,
	0x06, 0x6d, 0x61, 0x6c, 0x6c, 0x6f, 0x63, 0x00, 0x03, 0x04, 0x66, 0x72,
	0x65, 0x65, 0x00, 0x04, 0x04, 0x65, 0x63, 0x68, 0x6f, 0x00, 0x05, 0x0c,
	0x72, 0x65, 0x74, 0x61, 0x69, 0x6e, 0x5f, 0x66, 0x69, 0x72, 0x73, 0x74,
	0x00, 0x06, 0x0d, 0x72, 0x65, 0x6c, 0x65, 0x61, 0x73, 0x65, 0x5f, 0x66,
	0x69, 0x72, 0x73, 0x74, 0x00, 0x07, 0x08, 0x64, 0x69, 0x73, 0x70, 0x61,
	0x74, 0x63, 0x68, 0x00, 0x08,
	// code section
	0x0a, 0x43, 0x06, 0x0b, 0x00, 0x23, 0x00, 0x23, 0x00, 0x20, 0x00, 0x6a,
	0x24, 0x00, 0x0b, 0x02, 0x00, 0x0b, 0x0c, 0x00, 0x20, 0x00, 0xad, 0x42,
	0x20, 0x86, 0x20, 0x01, 0xad, 0x84, 0x0b, 0x0c, 0x00, 0x20, 0x00, 0x28,
	0x02, 0x00, 0x10, 0x00, 0x1a, 0x42, 0x00, 0x0b, 0x0c, 0x00, 0x20, 0x00,
	0x28, 0x02, 0x00, 0x10, 0x01, 0x1a, 0x42, 0x00, 0x0b, 0x0b, 0x00, 0x20,
	0x00, 0x20, 0x01, 0x10, 0x02, 0x1a, 0x42, 0x00, 0x0b,
}

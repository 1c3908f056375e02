// Package inspect decodes wire dumps for tooling.
//
// The wire format carries no field names, so a Schema lists the fields of
// a message in order:
//
//	name: setTitle
//	fields:
//	  - name: id
//	    kind: number
//	  - name: title
//	    kind: string
//	  - name: onDone
//	    kind: callback
//	  - name: when
//	    kind: custom:Date
//
// Decode walks the bytes with a codec.Deserializer and reports each
// field's offset, size and value.
package inspect

package inspect

import (
	"os"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/peer-interop/errors"
)

// Field kinds understood by Decode.
const (
	KindInt8             = "int8"
	KindInt32            = "int32"
	KindInt64            = "int64"
	KindFloat32          = "float32"
	KindPointer          = "pointer"
	KindBoolean          = "boolean"
	KindNumber           = "number"
	KindString           = "string"
	KindRuntimeType      = "runtime-type"
	KindCallbackResource = "callback-resource"
	KindCallback         = "callback"
	KindBuffer           = "buffer"
	KindTagged           = "tagged"
	KindLength           = "length"

	// CustomPrefix prefixes custom kinds, as in "custom:Date".
	CustomPrefix = "custom:"
)

var builtinKinds = []string{
	KindInt8, KindInt32, KindInt64, KindFloat32, KindPointer,
	KindBoolean, KindNumber, KindString, KindRuntimeType,
	KindCallbackResource, KindCallback, KindBuffer, KindTagged, KindLength,
}

// Kinds returns the builtin field kinds.
func Kinds() []string {
	return append([]string(nil), builtinKinds...)
}

// Field is one positional value of a message.
type Field struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

// Custom returns the custom kind name and true for "custom:<Kind>" fields.
func (f Field) Custom() (string, bool) {
	kind, ok := strings.CutPrefix(f.Kind, CustomPrefix)
	return kind, ok && kind != ""
}

// Schema describes the field order of one message.
type Schema struct {
	Name   string  `yaml:"name"`
	Fields []Field `yaml:"fields"`
}

// Validate checks that fields are named uniquely and have known kinds.
func (s *Schema) Validate() error {
	if s.Name == "" {
		return errors.InvalidData(errors.PhaseSchema, nil, "schema has no name")
	}
	for i, f := range s.Fields {
		if f.Name == "" {
			return errors.New(errors.PhaseSchema, errors.KindInvalidData).
				Path(s.Name).
				Value(i).
				Detail("field %d has no name", i).
				Build()
		}
		if _, ok := f.Custom(); ok {
			continue
		}
		if !lo.Contains(builtinKinds, f.Kind) {
			return errors.New(errors.PhaseSchema, errors.KindUnsupported).
				Path(s.Name, f.Name).
				WireType(f.Kind).
				Detail("unknown field kind").
				Build()
		}
	}

	names := lo.Map(s.Fields, func(f Field, _ int) string { return f.Name })
	if dup := lo.FindDuplicates(names); len(dup) > 0 {
		return errors.New(errors.PhaseSchema, errors.KindInvalidData).
			Path(s.Name).
			Detail("duplicate fields: %s", strings.Join(dup, ", ")).
			Build()
	}
	return nil
}

// ParseSchema parses and validates a YAML schema.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.PhaseSchema, errors.KindInvalidData, err, "parse schema")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSchema reads a YAML schema from path.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseSchema, errors.KindNotFound, err, "read schema "+path)
	}
	return ParseSchema(data)
}

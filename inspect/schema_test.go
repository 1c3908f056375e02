package inspect

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/peer-interop/errors"
)

const titleSchema = `
name: setTitle
fields:
  - name: id
    kind: number
  - name: title
    kind: string
  - name: when
    kind: custom:Date
`

func TestParseSchema(t *testing.T) {
	s, err := ParseSchema([]byte(titleSchema))
	require.NoError(t, err)

	assert.Equal(t, "setTitle", s.Name)
	require.Len(t, s.Fields, 3)
	assert.Equal(t, Field{Name: "title", Kind: KindString}, s.Fields[1])

	kind, ok := s.Fields[2].Custom()
	assert.True(t, ok)
	assert.Equal(t, "Date", kind)
}

func TestParseSchema_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		kind errors.Kind
	}{
		{"no name", "fields: [{name: a, kind: int8}]", errors.KindInvalidData},
		{"unnamed field", "name: x\nfields: [{kind: int8}]", errors.KindInvalidData},
		{"unknown kind", "name: x\nfields: [{name: a, kind: int16}]", errors.KindUnsupported},
		{"empty custom", "name: x\nfields: [{name: a, kind: 'custom:'}]", errors.KindUnsupported},
		{"duplicate", "name: x\nfields: [{name: a, kind: int8}, {name: a, kind: int32}]", errors.KindInvalidData},
		{"bad yaml", "name: [", errors.KindInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchema([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseSchema, Kind: tt.kind}), "got %v", err)
		})
	}
}

func TestLoadSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "title.yaml")
	require.NoError(t, os.WriteFile(path, []byte(titleSchema), 0o600))

	s, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Len(t, s.Fields, 3)

	_, err = LoadSchema(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, stderrors.Is(err, &errors.Error{Kind: errors.KindNotFound}))
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	assert.Contains(t, kinds, KindCallback)
	kinds[0] = "mutated"
	assert.Equal(t, KindInt8, Kinds()[0])
}

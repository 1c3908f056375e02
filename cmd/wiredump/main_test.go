package main

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/peer-interop/inspect"
)

// number 42, string "hi", boolean undefined
const dumpHex = "66 2a000000 03000000 686900 05"

func sampleValues(t *testing.T) ([]byte, []inspect.Value) {
	t.Helper()
	data, err := readInput("", dumpHex)
	require.NoError(t, err)

	schema := &inspect.Schema{Name: "m", Fields: []inspect.Field{
		{Name: "n", Kind: inspect.KindNumber},
		{Name: "s", Kind: inspect.KindString},
		{Name: "b", Kind: inspect.KindBoolean},
	}}
	values, err := inspect.Decode(data, schema, nil)
	require.NoError(t, err)
	return data, values
}

func TestReadInput_Hex(t *testing.T) {
	data, err := readInput("", dumpHex)
	require.NoError(t, err)
	assert.Equal(t, []byte{102, 42, 0, 0, 0, 3, 0, 0, 0, 'h', 'i', 0, 5}, data)

	_, err = readInput("", "zz")
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	data, values := sampleValues(t)

	var out bytes.Buffer
	require.NoError(t, writeJSON(&out, data, values, nil))

	s := out.String()
	assert.Contains(t, s, `"name": "s"`)
	assert.Contains(t, s, `"hex": "03000000686900"`)
	assert.NotContains(t, s, `"error"`)
}

func TestWriteTable(t *testing.T) {
	data, values := sampleValues(t)

	var out bytes.Buffer
	writeTable(&out, data, values)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 1+2*len(values))
	assert.Contains(t, out.String(), `"hi"`)
}

func TestInteractiveModel_Navigation(t *testing.T) {
	data, values := sampleValues(t)
	m := newInteractiveModel(data, values, nil)

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	require.True(t, m.ready)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.selected)

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.selected)
	assert.Contains(t, m.View(), "Wire Dump")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
}

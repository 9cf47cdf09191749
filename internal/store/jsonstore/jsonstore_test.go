package jsonstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/todo"
)

func sampleList(t *testing.T) *todo.List {
	t.Helper()
	l := todo.NewList("Today's Todos")
	for _, title := range []string{"Buy milk", "Clean room", "Go to gym"} {
		item, err := todo.New(title)
		require.NoError(t, err)
		l.MustAdd(item)
	}
	require.NoError(t, l.MarkDoneAt(1))
	return l
}

func TestLoadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), DefaultFileName), "Inbox")

	l, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "Inbox", l.Title)
	assert.Equal(t, 0, l.Len())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)
	s := New(path, "unused")
	l := sampleList(t)

	require.NoError(t, s.Save(l))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, l.Title, loaded.Title)
	assert.Equal(t, l.String(), loaded.String())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), b[len(b)-1])
	assert.Contains(t, string(b), `"title": "Clean room"`)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSaveOverwrites(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), DefaultFileName), "x")
	l := sampleList(t)
	require.NoError(t, s.Save(l))

	l.Pop()
	l.Title = "Renamed"
	require.NoError(t, s.Save(l))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "Renamed", loaded.Title)
	assert.Equal(t, 2, loaded.Len())
}

func TestDecodeLegacyArray(t *testing.T) {
	data := []byte(`[{"title":"Buy milk","done":true},{"title":"Clean room","done":false}]`)

	l, err := Decode(data, "Todos")
	require.NoError(t, err)
	assert.Equal(t, "---- Todos ----\n[X] Buy milk\n[ ] Clean room\n", l.String())
}

func TestDecodeRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantPath string
	}{
		{name: "missing item title", data: `{"title":"x","todos":[{"done":true}]}`, wantPath: "/todos/0"},
		{name: "empty item title", data: `{"title":"x","todos":[{"title":""}]}`, wantPath: "/todos/0/title"},
		{name: "wrong done type", data: `{"title":"x","todos":[{"title":"a","done":"yes"}]}`, wantPath: "/todos/0/done"},
		{name: "unknown field", data: `{"title":"x","todos":[],"owner":"me"}`},
		{name: "missing todos", data: `{"title":"x"}`},
		{name: "legacy without title", data: `[{"done":false}]`, wantPath: "/0"},
		{name: "scalar", data: `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), "Todos")
			require.Error(t, err)
			var se *SchemaError
			require.True(t, errors.As(err, &se), "got %T: %v", err, err)
			if tt.wantPath != "" {
				assert.Equal(t, tt.wantPath, se.Path)
			}
		})
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{"title":`), "Todos")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json unmarshal")
}

func TestLoadReportsReadErrors(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, "x")

	_, err := s.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read file")
}

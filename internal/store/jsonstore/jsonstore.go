package jsonstore

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/todo"
)

// JSON-backed storage. Single file, human-readable, portable.
// No locking; fine for a local single-user CLI.

const DefaultFileName = "todos.json"

//go:embed document.schema.json
var documentSchemaJSON string

//go:embed legacy.schema.json
var legacySchemaJSON string

var (
	schemasOnce    sync.Once
	documentSchema *jsonschema.Schema
	legacySchema   *jsonschema.Schema
	schemasErr     error
)

// SchemaError reports the first schema violation found in a data file.
type SchemaError struct {
	Path    string // JSON pointer into the document
	Message string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return "schema: " + e.Message
	}
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Message)
}

// Store reads and writes one list to Path.
type Store struct {
	Path string
	// Title given to the list when Path does not exist yet.
	DefaultTitle string
}

func New(path, defaultTitle string) *Store {
	return &Store{Path: path, DefaultTitle: defaultTitle}
}

// Load reads the list. A missing file is an empty list titled DefaultTitle.
func (s *Store) Load() (*todo.List, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return todo.NewList(s.DefaultTitle), nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Decode(b, s.DefaultTitle)
}

// Save writes the list through a temp file and rename.
func (s *Store) Save(l *todo.List) error {
	b, err := Encode(l)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Encode renders l as indented JSON with a trailing newline.
func Encode(l *todo.List) ([]byte, error) {
	b, err := json.MarshalIndent(model.FromList(l), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return append(b, '\n'), nil
}

// Decode validates and parses a data file. Bare arrays written by older
// versions are accepted and titled defaultTitle.
func Decode(b []byte, defaultTitle string) (*todo.List, error) {
	if err := loadSchemas(); err != nil {
		return nil, err
	}
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	if _, legacy := raw.([]any); legacy {
		if err := legacySchema.Validate(raw); err != nil {
			return nil, schemaError(err)
		}
		var items []model.Item
		if err := json.Unmarshal(b, &items); err != nil {
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}
		return model.Document{Title: defaultTitle, Todos: items}.List()
	}

	if err := documentSchema.Validate(raw); err != nil {
		return nil, schemaError(err)
	}
	var doc model.Document
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return doc.List()
}

func loadSchemas() error {
	schemasOnce.Do(func() {
		documentSchema, schemasErr = compile("document.schema.json", documentSchemaJSON)
		if schemasErr != nil {
			return
		}
		legacySchema, schemasErr = compile("legacy.schema.json", legacySchemaJSON)
	})
	return schemasErr
}

func compile(name, src string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(src)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	s, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return s, nil
}

// schemaError reduces a validation tree to its first leaf.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &SchemaError{Message: err.Error()}
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &SchemaError{Path: ve.InstanceLocation, Message: ve.Message}
}

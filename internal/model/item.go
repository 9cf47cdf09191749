// Package model holds the serialized shapes of a todo list.
package model

import (
	"fmt"

	"github.com/Makepad-fr/tada/internal/todo"
)

// Item is one todo as stored on disk.
type Item struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// Document is a whole list as stored on disk.
type Document struct {
	Title string `json:"title"`
	Todos []Item `json:"todos"`
}

// FromList snapshots l into a Document.
func FromList(l *todo.List) Document {
	doc := Document{Title: l.Title, Todos: make([]Item, 0, l.Len())}
	for t := range l.All() {
		doc.Todos = append(doc.Todos, Item{
			Title:       t.Title,
			Description: t.Description,
			Done:        t.Done,
		})
	}
	return doc
}

// List rebuilds a todo list from the document.
func (d Document) List() (*todo.List, error) {
	l := todo.NewList(d.Title)
	for i, it := range d.Todos {
		t, err := todo.New(it.Title, it.Description)
		if err != nil {
			return nil, fmt.Errorf("todos[%d]: %w", i, err)
		}
		t.Done = it.Done
		if _, err := l.Add(t); err != nil {
			return nil, fmt.Errorf("todos[%d]: %w", i, err)
		}
	}
	return l, nil
}

package todo

import (
	"iter"
	"slices"
	"strings"
)

// List is an ordered collection of todos. Duplicates are allowed and items
// are addressed by position only.
type List struct {
	Title string
	items []*Todo
}

func NewList(title string) *List {
	return &List{Title: title}
}

// Add appends item to the end of the list and returns the list for chaining.
// Anything other than a non-nil *Todo is rejected with a *TypeError.
func (l *List) Add(item any) (*List, error) {
	t, ok := item.(*Todo)
	if !ok || t == nil {
		return l, &TypeError{Value: item}
	}
	l.items = append(l.items, t)
	return l, nil
}

// Insert places item before position index. Index Len() appends, and
// negative indexes count from the end, so -1 also appends.
func (l *List) Insert(index int, item any) (*List, error) {
	t, ok := item.(*Todo)
	if !ok || t == nil {
		return l, &TypeError{Value: item}
	}
	n := len(l.items)
	i := index
	if i < 0 {
		i += n + 1
	}
	if i < 0 || i > n {
		return l, &IndexError{Index: index, Len: n}
	}
	l.items = slices.Insert(l.items, i, t)
	return l, nil
}

// MustAdd appends todos and panics if any of them is nil.
func (l *List) MustAdd(todos ...*Todo) *List {
	for _, t := range todos {
		if _, err := l.Add(t); err != nil {
			panic(err)
		}
	}
	return l
}

func (l *List) Len() int { return len(l.items) }

// Slice returns a copy of the item sequence.
func (l *List) Slice() []*Todo {
	out := make([]*Todo, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List) First() *Todo {
	if len(l.items) == 0 {
		return nil
	}
	return l.items[0]
}

func (l *List) Last() *Todo {
	if len(l.items) == 0 {
		return nil
	}
	return l.items[len(l.items)-1]
}

// resolve maps a possibly negative index onto a slice position.
func (l *List) resolve(index int) (int, error) {
	n := len(l.items)
	i := index
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, &IndexError{Index: index, Len: n}
	}
	return i, nil
}

// ItemAt returns the todo at index. Negative indexes count from the end.
func (l *List) ItemAt(index int) (*Todo, error) {
	i, err := l.resolve(index)
	if err != nil {
		return nil, err
	}
	return l.items[i], nil
}

func (l *List) MarkDoneAt(index int) error {
	t, err := l.ItemAt(index)
	if err != nil {
		return err
	}
	t.MarkDone()
	return nil
}

func (l *List) MarkUndoneAt(index int) error {
	t, err := l.ItemAt(index)
	if err != nil {
		return err
	}
	t.MarkUndone()
	return nil
}

// RemoveAt deletes and returns the todo at index.
func (l *List) RemoveAt(index int) (*Todo, error) {
	i, err := l.resolve(index)
	if err != nil {
		return nil, err
	}
	t := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	return t, nil
}

func (l *List) Pop() *Todo {
	if len(l.items) == 0 {
		return nil
	}
	t := l.items[len(l.items)-1]
	l.items = l.items[:len(l.items)-1]
	return t
}

func (l *List) Shift() *Todo {
	if len(l.items) == 0 {
		return nil
	}
	t := l.items[0]
	l.items = l.items[1:]
	return t
}

// Each calls fn for every todo in order and returns the list.
func (l *List) Each(fn func(*Todo)) *List {
	for _, t := range l.items {
		fn(t)
	}
	return l
}

// All returns a sequence over the todos. The sequence reads the list when it
// is ranged over, so it can be reused after the list changes.
func (l *List) All() iter.Seq[*Todo] {
	return func(yield func(*Todo) bool) {
		for _, t := range l.items {
			if !yield(t) {
				return
			}
		}
	}
}

// Selector is the deferred form of Select: pair it with Filter and Collect
// to apply a predicate later.
func (l *List) Selector() iter.Seq[*Todo] {
	return l.All()
}

// Select returns a new list with the same title holding the todos for which
// pred is true. The receiver is not modified.
func (l *List) Select(pred func(*Todo) bool) *List {
	return Collect(l.Title, Filter(l.All(), pred))
}

func (l *List) AllDone() *List {
	return l.Select((*Todo).IsDone)
}

func (l *List) AllNotDone() *List {
	return l.Select(func(t *Todo) bool { return !t.IsDone() })
}

// IsDone reports whether every todo is done. An empty list is done.
func (l *List) IsDone() bool {
	for _, t := range l.items {
		if !t.IsDone() {
			return false
		}
	}
	return true
}

func (l *List) MarkAllDone() *List {
	return l.Each((*Todo).MarkDone)
}

func (l *List) MarkAllUndone() *List {
	return l.Each((*Todo).MarkUndone)
}

// FindByTitle returns the first todo with the given title, or nil.
func (l *List) FindByTitle(title string) *Todo {
	for _, t := range l.items {
		if t.Title == title {
			return t
		}
	}
	return nil
}

// MarkDone marks the first todo titled title as done and reports whether
// one was found.
func (l *List) MarkDone(title string) bool {
	t := l.FindByTitle(title)
	if t == nil {
		return false
	}
	t.MarkDone()
	return true
}

// String renders a header line followed by one line per todo. Every line,
// the header included, ends in a newline.
func (l *List) String() string {
	var b strings.Builder
	b.WriteString("---- ")
	b.WriteString(l.Title)
	b.WriteString(" ----\n")
	for _, t := range l.items {
		b.WriteString(t.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Filter lazily yields the elements of seq for which pred is true.
func Filter(seq iter.Seq[*Todo], pred func(*Todo) bool) iter.Seq[*Todo] {
	return func(yield func(*Todo) bool) {
		for t := range seq {
			if pred(t) && !yield(t) {
				return
			}
		}
	}
}

// Collect builds a list titled title from seq.
func Collect(title string, seq iter.Seq[*Todo]) *List {
	out := NewList(title)
	for t := range seq {
		if t != nil {
			out.items = append(out.items, t)
		}
	}
	return out
}

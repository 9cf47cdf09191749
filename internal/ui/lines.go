package ui

import (
	"fmt"

	"github.com/Makepad-fr/tada/internal/todo"
)

const maxTitleWidth = 80

// Stats counts done and pending todos.
func Stats(l *todo.List) (done, pending int) {
	done = l.AllDone().Len()
	return done, l.Len() - done
}

// ListLines builds the panel body for l: a header with counts, a progress
// bar, then the items, flat or grouped into pending and done.
func ListLines(l *todo.List, group bool) []string {
	t := Current()
	d, p := Stats(l)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		C(t.Title, l.Title),
		C(t.Success, t.SymDone), d,
		C(t.Pending, t.SymPending), p,
		C(t.Accent, "Total"), l.Len(),
	)

	lines := []string{header, C(t.Muted, ProgressBar(d, d+p, 28)), ""}
	if group {
		lines = append(lines, groupLines(l)...)
	} else {
		lines = append(lines, flatLines(l.Slice(), nil)...)
	}
	return lines
}

// flatLines renders items with 1-based indexes. pos, when set, gives each
// item's position in the full list so grouped output keeps usable indexes.
func flatLines(items []*todo.Todo, pos []int) []string {
	t := Current()
	if len(items) == 0 {
		return []string{C(t.Muted, "no items")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		n := i + 1
		if pos != nil {
			n = pos[i] + 1
		}
		box, color := t.BoxUnchecked, t.Muted
		if it.IsDone() {
			box, color = t.BoxChecked, t.Success
		}
		title := it.Title
		if r := []rune(title); len(r) > maxTitleWidth {
			title = string(r[:maxTitleWidth-3]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s", Dim(fmt.Sprintf("%2d.", n)), C(color, box), title))
	}
	return out
}

func groupLines(l *todo.List) []string {
	t := Current()
	var pend, done []*todo.Todo
	var pendPos, donePos []int
	for i, it := range l.Slice() {
		if it.IsDone() {
			done, donePos = append(done, it), append(donePos, i)
		} else {
			pend, pendPos = append(pend, it), append(pendPos, i)
		}
	}
	lines := []string{C(t.Accent, "Pending")}
	if len(pend) == 0 {
		lines = append(lines, C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend, pendPos)...)
	}
	lines = append(lines, "", C(t.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done, donePos)...)
	}
	return lines
}

package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/todo"
	"github.com/Makepad-fr/tada/internal/ui"
)

type harness struct {
	store *jsonstore.Store
	out   bytes.Buffer
	err   bytes.Buffer
	tui   func(*todo.List) (bool, error)
}

func newHarness(t *testing.T, titles ...string) *harness {
	t.Helper()
	ui.SetTheme("mono")
	t.Cleanup(func() {
		ui.SetColorForcing(false, false)
		ui.SetTheme("classic")
	})

	h := &harness{store: jsonstore.New(filepath.Join(t.TempDir(), "todos.json"), "Today's Todos")}
	if len(titles) > 0 {
		l := todo.NewList("Today's Todos")
		for _, title := range titles {
			item, err := todo.New(title)
			require.NoError(t, err)
			l.MustAdd(item)
		}
		require.NoError(t, h.store.Save(l))
	}
	return h
}

func (h *harness) run(args ...string) int {
	h.out.Reset()
	h.err.Reset()
	return Run(args, Options{Store: h.store, Out: &h.out, Err: &h.err, Interactive: h.tui})
}

func (h *harness) render(t *testing.T) string {
	t.Helper()
	l, err := h.store.Load()
	require.NoError(t, err)
	return l.String()
}

func TestAddAndShow(t *testing.T) {
	h := newHarness(t)

	for _, title := range []string{"Buy milk", "Clean room", "Go to gym"} {
		require.Equal(t, ExitOK, h.run("add", title), h.err.String())
	}
	require.Equal(t, ExitOK, h.run("show"))
	assert.Equal(t, "---- Today's Todos ----\n[ ] Buy milk\n[ ] Clean room\n[ ] Go to gym\n", h.out.String())
}

func TestAddJoinsWordsAndDescription(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, ExitOK, h.run("add", "Buy", "milk", "--", "two", "litres"))
	require.Equal(t, ExitOK, h.run("find", "Buy milk"))
	assert.Equal(t, "[ ] Buy milk\n    two litres\n", h.out.String())
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, ExitUsage, h.run("add"))
	assert.Equal(t, ExitUsage, h.run("add", "  ", "--", "desc"))
	assert.Equal(t, "---- Today's Todos ----\n", h.render(t))
}

func TestDoneAndUndoneByIndex(t *testing.T) {
	h := newHarness(t, "Buy milk", "Clean room", "Go to gym")

	require.Equal(t, ExitOK, h.run("done", "2"))
	assert.Equal(t, "---- Today's Todos ----\n[ ] Buy milk\n[X] Clean room\n[ ] Go to gym\n", h.render(t))

	require.Equal(t, ExitOK, h.run("done", "-1"))
	require.Equal(t, ExitOK, h.run("undone", "2"))
	assert.Equal(t, "---- Today's Todos ----\n[ ] Buy milk\n[ ] Clean room\n[X] Go to gym\n", h.render(t))

	require.Equal(t, ExitOK, h.run("toggle", "1"))
	require.Equal(t, ExitOK, h.run("toggle", "3"))
	assert.Equal(t, "---- Today's Todos ----\n[X] Buy milk\n[ ] Clean room\n[ ] Go to gym\n", h.render(t))
}

func TestIndexErrorsLeaveFileUnchanged(t *testing.T) {
	h := newHarness(t, "Buy milk", "Clean room", "Go to gym")
	before := h.render(t)

	tests := [][]string{
		{"done", "4"},
		{"undone", "-4"},
		{"rm", "9"},
		{"toggle", "-10"},
	}
	for _, args := range tests {
		assert.Equal(t, ExitUsage, h.run(args...), args)
		assert.Contains(t, h.err.String(), "index out of range: have 3, got "+args[1])
	}
	assert.Equal(t, before, h.render(t))
}

func TestIndexParsing(t *testing.T) {
	h := newHarness(t, "Buy milk")

	assert.Equal(t, ExitUsage, h.run("done", "0"))
	assert.Contains(t, h.err.String(), "indexes start at 1")
	assert.Equal(t, ExitUsage, h.run("done", "two"))
	assert.Contains(t, h.err.String(), "not a number: two")
	assert.Equal(t, ExitUsage, h.run("done"))
	assert.Equal(t, ExitUsage, h.run("done", "1", "2"))
}

func TestRemoveByIndex(t *testing.T) {
	h := newHarness(t, "Buy milk", "Clean room", "Go to gym")

	require.Equal(t, ExitOK, h.run("rm", "-1"))
	require.Equal(t, ExitOK, h.run("rm", "1"))
	assert.Equal(t, "---- Today's Todos ----\n[ ] Clean room\n", h.render(t))
}

func TestPopAndShift(t *testing.T) {
	h := newHarness(t, "Buy milk", "Clean room", "Go to gym")

	require.Equal(t, ExitOK, h.run("pop"))
	assert.True(t, strings.HasPrefix(h.out.String(), "[ ] Go to gym\n"))
	require.Equal(t, ExitOK, h.run("shift"))
	assert.True(t, strings.HasPrefix(h.out.String(), "[ ] Buy milk\n"))
	assert.Equal(t, "---- Today's Todos ----\n[ ] Clean room\n", h.render(t))

	require.Equal(t, ExitOK, h.run("pop"))
	require.Equal(t, ExitOK, h.run("pop"))
	assert.Contains(t, h.out.String(), "list is empty")
}

func TestCheckMarksFirstMatch(t *testing.T) {
	h := newHarness(t, "Clean room", "Buy milk", "Clean room")

	require.Equal(t, ExitOK, h.run("check", "Clean", "room"))
	assert.Equal(t, "---- Today's Todos ----\n[X] Clean room\n[ ] Buy milk\n[ ] Clean room\n", h.render(t))

	assert.Equal(t, ExitUsage, h.run("check", "Missing"))
	assert.Equal(t, ExitError, h.run("find", "Missing"))
}

func TestFilteredViews(t *testing.T) {
	h := newHarness(t, "Buy milk", "Clean room", "Go to gym")
	require.Equal(t, ExitOK, h.run("done", "2"))

	require.Equal(t, ExitOK, h.run("pending"))
	assert.Equal(t, "---- Today's Todos ----\n[ ] Buy milk\n[ ] Go to gym\n", h.out.String())

	require.Equal(t, ExitOK, h.run("completed"))
	assert.Equal(t, "---- Today's Todos ----\n[X] Clean room\n", h.out.String())
}

func TestAllDoneAndStatus(t *testing.T) {
	h := newHarness(t, "Buy milk", "Clean room")

	require.Equal(t, ExitOK, h.run("status"))
	assert.Contains(t, h.out.String(), "Today's Todos: 0 done, 2 pending, 2 total")
	assert.NotContains(t, h.out.String(), "all done")

	require.Equal(t, ExitOK, h.run("all-done"))
	require.Equal(t, ExitOK, h.run("status"))
	assert.Contains(t, h.out.String(), "2 done, 0 pending")
	assert.Contains(t, h.out.String(), "all done")

	require.Equal(t, ExitOK, h.run("all-undone"))
	assert.Equal(t, "---- Today's Todos ----\n[ ] Buy milk\n[ ] Clean room\n", h.render(t))
}

func TestRename(t *testing.T) {
	h := newHarness(t, "Buy milk")

	require.Equal(t, ExitOK, h.run("rename", "Weekend"))
	assert.Equal(t, "---- Weekend ----\n[ ] Buy milk\n", h.render(t))
}

func TestListPanel(t *testing.T) {
	h := newHarness(t, "Buy milk", "Clean room")
	require.Equal(t, ExitOK, h.run("done", "1"))

	require.Equal(t, ExitOK, h.run("ls"))
	out := h.out.String()
	assert.Contains(t, out, "Today's Todos  x 1  - 1  Total 2")
	assert.Contains(t, out, " 1. [x] Buy milk")
	assert.Contains(t, out, " 2. [ ] Clean room")
	assert.True(t, strings.HasPrefix(out, "+-"))
}

func TestInteractiveSavesOnlyWhenChanged(t *testing.T) {
	h := newHarness(t, "Buy milk")

	h.tui = func(l *todo.List) (bool, error) { return false, nil }
	require.Equal(t, ExitOK, h.run("tui"))
	assert.NotContains(t, h.out.String(), "saved")

	h.tui = func(l *todo.List) (bool, error) {
		return true, l.MarkDoneAt(0)
	}
	require.Equal(t, ExitOK, h.run("tui"))
	assert.Contains(t, h.out.String(), "saved")
	assert.Equal(t, "---- Today's Todos ----\n[X] Buy milk\n", h.render(t))

	h.tui = func(*todo.List) (bool, error) { return false, errors.New("no tty") }
	assert.Equal(t, ExitError, h.run("tui"))
}

func TestLoadErrorsExitOne(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(h.store.Path, []byte(`{"title":`), 0o644))

	assert.Equal(t, ExitError, h.run("show"))
	assert.Contains(t, h.err.String(), "load:")
}

func TestUnknownAndHelp(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, ExitUsage, h.run())
	assert.Equal(t, ExitUsage, h.run("frobnicate"))
	assert.Contains(t, h.err.String(), "unknown subcommand: frobnicate")

	assert.Equal(t, ExitOK, h.run("help"))
	assert.Contains(t, h.out.String(), "Subcommands:")
}

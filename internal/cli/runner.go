package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/todo"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Store is the persistence the commands need.
type Store interface {
	Load() (*todo.List, error)
	Save(*todo.List) error
}

// Options carry the dependencies and root flags for a run.
type Options struct {
	Group  bool // list grouped by pending/done
	Store  Store
	Logger *log.Logger
	Out    io.Writer
	Err    io.Writer

	// Interactive runs the TUI; tests replace it.
	Interactive func(*todo.List) (bool, error)
}

func (o *Options) defaults() {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	if o.Store == nil {
		o.Store = jsonstore.New(jsonstore.DefaultFileName, "Todos")
	}
	if o.Interactive == nil {
		o.Interactive = func(l *todo.List) (bool, error) { return tui.Run(l) }
	}
}

type runner struct {
	Options
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	opt.defaults()
	r := &runner{Options: opt}

	if len(args) == 0 {
		PrintHelp(r.Err)
		return ExitUsage
	}
	cmd, a := args[0], args[1:]
	r.Logger.Debug("dispatch", "cmd", cmd, "args", a)

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(r.Out)
		return ExitOK

	case "ls":
		return r.doList(r.Group)
	case "show":
		return r.doShow(func(l *todo.List) *todo.List { return l })
	case "pending":
		return r.doShow((*todo.List).AllNotDone)
	case "completed":
		return r.doShow((*todo.List).AllDone)
	case "status":
		return r.doStatus()
	case "tui":
		return r.doInteractive()

	case "add":
		if len(a) == 0 {
			return r.usage("usage: todo add <title...> [-- <description...>]")
		}
		return r.doAdd(a)

	case "done", "undone", "toggle", "rm":
		if len(a) != 1 {
			return r.usage(fmt.Sprintf("usage: todo %s <index>", cmd))
		}
		idx, err := parseIndex(a[0])
		if err != nil {
			return r.usage(cmd + ": " + err.Error())
		}
		return r.doAt(cmd, idx, a[0])

	case "check":
		if len(a) == 0 {
			return r.usage("usage: todo check <title...>")
		}
		return r.doCheck(strings.Join(a, " "))
	case "find":
		if len(a) == 0 {
			return r.usage("usage: todo find <title...>")
		}
		return r.doFind(strings.Join(a, " "))
	case "rename":
		if len(a) == 0 {
			return r.usage("usage: todo rename <title...>")
		}
		return r.doRename(strings.Join(a, " "))

	case "pop":
		return r.doTake("popped", (*todo.List).Pop)
	case "shift":
		return r.doTake("shifted", (*todo.List).Shift)
	case "all-done":
		return r.mutate("marked all done", func(l *todo.List) error { l.MarkAllDone(); return nil })
	case "all-undone":
		return r.mutate("marked all undone", func(l *todo.List) error { l.MarkAllUndone(); return nil })
	}

	ui.Fail(r.Err, "unknown subcommand: "+cmd)
	fmt.Fprintln(r.Err)
	PrintHelp(r.Err)
	return ExitUsage
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `todo - a tiny CLI

Usage:
  todo [flags] <subcommand> [args]

Subcommands:
  add <title...> [-- <description...>]   Add a new item
  ls                 List items in a panel (-group splits pending/done)
  show               Print the list as plain text
  pending            Print only items not done
  completed          Print only items done
  status             Summarize progress
  done <index>       Mark item done
  undone <index>     Mark item not done
  toggle <index>     Flip item done state
  rm <index>         Remove item
  check <title...>   Mark the first item with this title done
  find <title...>    Show the first item with this title
  pop | shift        Remove the last | first item
  all-done           Mark every item done
  all-undone         Mark every item not done
  rename <title...>  Change the list title
  tui                Interactive list

Indexes are 1-based; negative indexes count from the end (-1 is the last item).

Flags:
  -config <path>     TOML config file
  -file <path>       data file
  -theme <name>      classic, neon or mono
  -log-level <lvl>   debug, info, warn or error
  -group             group ls output

Examples:
  todo add "Buy milk"
  todo ls
  todo done 2
  todo rm -1
`)
}

// -------------- helpers ----------------

func (r *runner) usage(msg string) int {
	ui.Fail(r.Err, msg)
	return ExitUsage
}

func (r *runner) load() (*todo.List, int) {
	l, err := r.Store.Load()
	if err != nil {
		r.Logger.Error("load failed", "err", err)
		ui.Fail(r.Err, "load: "+err.Error())
		return nil, ExitError
	}
	r.Logger.Debug("loaded list", "title", l.Title, "items", l.Len())
	return l, ExitOK
}

func (r *runner) save(l *todo.List) int {
	if err := r.Store.Save(l); err != nil {
		r.Logger.Error("save failed", "err", err)
		ui.Fail(r.Err, "save: "+err.Error())
		return ExitError
	}
	r.Logger.Debug("saved list", "title", l.Title, "items", l.Len())
	return ExitOK
}

// mutate loads the list, applies fn and saves. Index errors from fn are
// usage errors and leave the file untouched.
func (r *runner) mutate(okMsg string, fn func(*todo.List) error) int {
	l, code := r.load()
	if code != ExitOK {
		return code
	}
	if err := fn(l); err != nil {
		var idxErr *todo.IndexError
		if errors.As(err, &idxErr) {
			ui.Fail(r.Err, fmt.Sprintf("index out of range: have %d, got %s", idxErr.Len, userIndex(idxErr.Index)))
			fmt.Fprintln(r.Err, ui.MutedStyle.Render("Hint: run `todo ls` to see valid indexes"))
			return ExitUsage
		}
		ui.Fail(r.Err, err.Error())
		return ExitUsage
	}
	if code := r.save(l); code != ExitOK {
		return code
	}
	ui.OK(r.Out, okMsg)
	return ExitOK
}

// parseIndex turns a 1-based or negative command line index into a list
// index.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a number: %s", s)
	}
	switch {
	case n > 0:
		return n - 1, nil
	case n < 0:
		return n, nil
	default:
		return 0, errors.New("indexes start at 1")
	}
}

// userIndex is the inverse of parseIndex.
func userIndex(i int) string {
	if i >= 0 {
		return strconv.Itoa(i + 1)
	}
	return strconv.Itoa(i)
}

// -------------- subcommand impls ----------------

func (r *runner) doList(group bool) int {
	l, code := r.load()
	if code != ExitOK {
		return code
	}
	lines := ui.ListLines(l, group)
	lines = append(lines, "", ui.C(ui.Current().Muted, "Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(r.Out, lines)
	return ExitOK
}

func (r *runner) doShow(view func(*todo.List) *todo.List) int {
	l, code := r.load()
	if code != ExitOK {
		return code
	}
	fmt.Fprint(r.Out, view(l).String())
	return ExitOK
}

func (r *runner) doStatus() int {
	l, code := r.load()
	if code != ExitOK {
		return code
	}
	d, p := ui.Stats(l)
	fmt.Fprintf(r.Out, "%s: %d done, %d pending, %d total\n", l.Title, d, p, l.Len())
	fmt.Fprintln(r.Out, ui.ProgressBar(d, l.Len(), 28))
	if l.IsDone() {
		ui.OK(r.Out, "all done")
	}
	return ExitOK
}

func (r *runner) doInteractive() int {
	l, code := r.load()
	if code != ExitOK {
		return code
	}
	changed, err := r.Interactive(l)
	if err != nil {
		ui.Fail(r.Err, "tui: "+err.Error())
		return ExitError
	}
	if !changed {
		return ExitOK
	}
	if code := r.save(l); code != ExitOK {
		return code
	}
	ui.OK(r.Out, "saved")
	return ExitOK
}

func (r *runner) doAdd(a []string) int {
	titleArgs, descArgs := a, []string(nil)
	for i, s := range a {
		if s == "--" {
			titleArgs, descArgs = a[:i], a[i+1:]
			break
		}
	}
	title := strings.TrimSpace(strings.Join(titleArgs, " "))
	if title == "" {
		return r.usage("add: empty title")
	}
	item, err := todo.New(title, strings.TrimSpace(strings.Join(descArgs, " ")))
	if err != nil {
		return r.usage("add: " + err.Error())
	}
	return r.mutate("added", func(l *todo.List) error {
		_, err := l.Add(item)
		return err
	})
}

func (r *runner) doAt(cmd string, idx int, raw string) int {
	switch cmd {
	case "done":
		return r.mutate("marked done", func(l *todo.List) error { return l.MarkDoneAt(idx) })
	case "undone":
		return r.mutate("marked undone", func(l *todo.List) error { return l.MarkUndoneAt(idx) })
	case "toggle":
		return r.mutate("toggled", func(l *todo.List) error {
			t, err := l.ItemAt(idx)
			if err != nil {
				return err
			}
			if t.IsDone() {
				t.MarkUndone()
			} else {
				t.MarkDone()
			}
			return nil
		})
	default:
		var removed *todo.Todo
		code := r.mutate("removed", func(l *todo.List) error {
			var err error
			removed, err = l.RemoveAt(idx)
			return err
		})
		if code == ExitOK {
			r.Logger.Info("removed item", "index", raw, "title", removed.Title)
		}
		return code
	}
}

func (r *runner) doCheck(title string) int {
	return r.mutate("marked done", func(l *todo.List) error {
		if !l.MarkDone(title) {
			return fmt.Errorf("no item titled %q", title)
		}
		return nil
	})
}

func (r *runner) doFind(title string) int {
	l, code := r.load()
	if code != ExitOK {
		return code
	}
	t := l.FindByTitle(title)
	if t == nil {
		ui.Fail(r.Err, fmt.Sprintf("no item titled %q", title))
		return ExitError
	}
	fmt.Fprintln(r.Out, t.String())
	if t.Description != "" {
		fmt.Fprintln(r.Out, "    "+t.Description)
	}
	return ExitOK
}

func (r *runner) doRename(title string) int {
	return r.mutate("renamed", func(l *todo.List) error {
		l.Title = title
		return nil
	})
}

func (r *runner) doTake(okMsg string, take func(*todo.List) *todo.Todo) int {
	l, code := r.load()
	if code != ExitOK {
		return code
	}
	t := take(l)
	if t == nil {
		fmt.Fprintln(r.Out, ui.C(ui.Current().Muted, "list is empty"))
		return ExitOK
	}
	if code := r.save(l); code != ExitOK {
		return code
	}
	fmt.Fprintln(r.Out, t.String())
	ui.OK(r.Out, okMsg)
	return ExitOK
}

// Package tui is the interactive list view. Every edit goes through the
// underlying *todo.List; the bubbles list only mirrors it.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/todo"
	"github.com/Makepad-fr/tada/internal/ui"
)

// listItem adapts a todo to bubbles/list.Item.
type listItem struct {
	todo *todo.Todo
}

func (i listItem) Title() string       { return i.todo.String() }
func (i listItem) Description() string { return i.todo.Description }
func (i listItem) FilterValue() string { return i.todo.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                         { return 1 }
func (d itemDelegate) Spacing() int                        { return 0 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()
	box := ui.MutedStyle.Render(t.BoxUnchecked)
	text := it.todo.Title
	if it.todo.IsDone() {
		box = ui.SuccessStyle.Render(t.BoxChecked)
		text = ui.DoneStyle.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
)

// Model is the Bubble Tea model over a todo list.
type Model struct {
	todos    *todo.List
	list     list.Model
	ti       textinput.Model
	mode     mode
	inputErr string
	changed  bool

	width, height int

	// single-level undo for deletes
	undoIndex int
	undoItem  *todo.Todo
}

var (
	addBind     = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind    = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleBind  = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteBind  = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	undoBind    = key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	allDoneBind = key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "all done"))
	allOpenBind = key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "all undone"))
)

// New builds the model for l.
func New(l *todo.List) Model {
	bl := list.New(nil, itemDelegate{}, 0, 0)
	bl.SetShowHelp(true)
	bl.SetShowPagination(true)
	bl.SetShowStatusBar(true)
	bl.SetFilteringEnabled(true)
	bl.Styles.Title = ui.TitleStyle
	bl.Styles.HelpStyle = ui.HelpStyle
	bl.Styles.PaginationStyle = ui.HelpStyle
	bl.FilterInput.Prompt = "/ "
	bl.SetStatusBarItemName("item", "items")

	extra := func() []key.Binding {
		return []key.Binding{toggleBind, addBind, editBind, deleteBind, undoBind, allDoneBind, allOpenBind}
	}
	bl.AdditionalShortHelpKeys = extra
	bl.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := Model{todos: l, list: bl, ti: ti, width: 80, height: 24, undoIndex: -1}
	m.list.SetSize(m.width-2, m.height-4)
	m.refresh()
	return m
}

// Changed reports whether the list was edited.
func (m Model) Changed() bool { return m.changed }

// refresh mirrors the todo list into the bubbles list and header.
func (m *Model) refresh() {
	items := make([]list.Item, 0, m.todos.Len())
	for t := range m.todos.All() {
		items = append(items, listItem{todo: t})
	}
	m.list.SetItems(items)

	done, pending := ui.Stats(m.todos)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		ui.TitleStyle.Render(m.todos.Title),
		ui.SuccessStyle.Render("✔"), done,
		ui.PendingStyle.Render("•"), pending,
		ui.AccentStyle.Render("Total"), m.todos.Len(),
	)
}

// selected returns the list position under the cursor, or -1. With a filter
// applied the cursor index is into the filtered view, so the todo is located
// by identity in the full list.
func (m Model) selected() int {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return -1
	}
	pos := -1
	for i, t := range m.todos.Slice() {
		if t == it.todo {
			pos = i
			break
		}
	}
	return pos
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
	}
	if m.mode != modeBrowse {
		return m.updateInput(msg)
	}

	if k, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch k.String() {
		case "q", "esc":
			return m, tea.Quit
		case " ":
			if i := m.selected(); i >= 0 {
				t, _ := m.todos.ItemAt(i)
				if t.IsDone() {
					_ = m.todos.MarkUndoneAt(i)
				} else {
					_ = m.todos.MarkDoneAt(i)
				}
				m.touch()
			}
			return m, nil
		case "d":
			if i := m.selected(); i >= 0 {
				removed, err := m.todos.RemoveAt(i)
				if err == nil {
					m.undoItem, m.undoIndex = removed, i
					m.touch()
				}
			}
			return m, nil
		case "u":
			if m.undoItem != nil {
				idx := min(max(m.undoIndex, 0), m.todos.Len())
				if _, err := m.todos.Insert(idx, m.undoItem); err == nil {
					m.undoItem, m.undoIndex = nil, -1
					m.touch()
					m.list.Select(idx)
				}
			}
			return m, nil
		case "A":
			m.todos.MarkAllDone()
			m.touch()
			return m, nil
		case "U":
			m.todos.MarkAllUndone()
			m.touch()
			return m, nil
		case "a":
			m.startInput(modeAdd, "", "New item title...")
			return m, textinput.Blink
		case "e":
			if i := m.selected(); i >= 0 {
				t, _ := m.todos.ItemAt(i)
				m.startInput(modeEdit, t.Title, "Edit item title...")
				return m, textinput.Blink
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) touch() {
	m.changed = true
	m.refresh()
}

func (m *Model) startInput(md mode, value, placeholder string) {
	m.mode = md
	m.inputErr = ""
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	m.ti.Placeholder = placeholder
	m.ti.Focus()
}

func (m *Model) stopInput() {
	m.mode = modeBrowse
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			m.stopInput()
			return m, nil
		case "enter":
			title := strings.TrimSpace(m.ti.Value())
			if title == "" {
				m.inputErr = "Title cannot be empty"
				return m, nil
			}
			if m.mode == modeAdd {
				t, err := todo.New(title)
				if err != nil {
					m.inputErr = err.Error()
					return m, nil
				}
				if _, err := m.todos.Add(t); err != nil {
					m.inputErr = err.Error()
					return m, nil
				}
				m.touch()
				m.list.Select(m.todos.Len() - 1)
			} else if i := m.selected(); i >= 0 {
				t, _ := m.todos.ItemAt(i)
				t.Title = title
				m.touch()
			}
			m.stopInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	listHeight := m.height - 4
	if m.mode != modeBrowse {
		listHeight = m.height - 6
	}
	m.list.SetSize(m.width-2, max(listHeight, 1))

	content := m.list.View()
	if m.mode != modeBrowse {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		title := "Add new item"
		if m.mode == modeEdit {
			title = "Edit item"
		}
		if m.inputErr != "" {
			title += " - " + ui.ErrorStyle.Render(m.inputErr)
		}
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	return ui.FrameStyle.Render(content)
}

// Run starts the program on l and reports whether the list changed.
func Run(l *todo.List, opts ...tea.ProgramOption) (bool, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(New(l), opts...).Run()
	if err != nil {
		return false, err
	}
	fm, ok := final.(Model)
	if !ok {
		return false, nil
	}
	return fm.Changed(), nil
}

// Package ui provides the interactive terminal editor.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/todolist/internal/config"
	"github.com/nibzard/todolist/internal/logging"
	"github.com/nibzard/todolist/internal/todo"
)

// RunTUI starts the editor on list. Every change is written to events.
func RunTUI(ctx context.Context, cfg *config.Config, list *todo.List, events logging.EventWriter) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(cfg, list, events)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type viewMode int

const (
	viewAll viewMode = iota
	viewComplete
	viewIncomplete
)

func (v viewMode) String() string {
	switch v {
	case viewComplete:
		return "complete"
	case viewIncomplete:
		return "incomplete"
	default:
		return "all"
	}
}

type inputMode int

const (
	modeNormal inputMode = iota
	modeAppend
	modePrepend
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle   = lipgloss.NewStyle().Underline(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	footerStyle   = lipgloss.NewStyle().Faint(true)
)

type tuiModel struct {
	list       *todo.List
	events     logging.EventWriter
	timeFormat string

	view     viewMode
	cursor   int
	mode     inputMode
	input    []rune
	status   string
	err      error
	showHelp bool
}

func newTUIModel(cfg *config.Config, list *todo.List, events logging.EventWriter) *tuiModel {
	if list == nil {
		list = todo.NewList()
	}
	if events == nil {
		events = logging.NullWriter{}
	}
	timeFormat := config.DefaultTimeFormat
	if cfg != nil && cfg.TimeFormat != "" {
		timeFormat = cfg.TimeFormat
	}
	return &tuiModel{
		list:       list,
		events:     events,
		timeFormat: timeFormat,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.mode != modeNormal {
		return m.updateInput(key)
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "h", "?":
		m.showHelp = !m.showHelp
	case "a":
		m.startInput(modeAppend)
	case "p":
		m.startInput(modePrepend)
	case "x", "enter":
		m.completeSelected()
	case "d":
		m.removeSelected()
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "0":
		m.setView(viewAll)
	case "1":
		m.setView(viewComplete)
	case "2":
		m.setView(viewIncomplete)
	}
	return m, nil
}

func (m *tuiModel) updateInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.mode = modeNormal
		m.input = nil
		m.status = "Cancelled"
	case tea.KeyEnter:
		m.submitInput()
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, key.Runes...)
	}
	return m, nil
}

func (m *tuiModel) startInput(mode inputMode) {
	m.mode = mode
	m.input = nil
	m.status = ""
	m.err = nil
}

func (m *tuiModel) submitInput() {
	description := strings.TrimSpace(string(m.input))
	mode := m.mode
	m.mode = modeNormal
	m.input = nil
	if description == "" {
		m.status = "Empty description, nothing added"
		return
	}

	var (
		task *todo.Task
		op   string
		id   int
	)
	if mode == modePrepend {
		task, op, id = m.list.Prepend(description), "prepend", 1
	} else {
		task, op = m.list.Append(description), "append"
		id = m.list.Len()
	}
	m.emit(logging.Event{
		Type:        logging.EventCommand,
		Op:          op,
		ID:          id,
		Ref:         task.Ref(),
		Description: task.Description(),
		Count:       m.list.Len(),
	})
	m.status = fmt.Sprintf("Added #%d %s", id, description)
	m.err = nil
	m.selectTask(task)
}

func (m *tuiModel) completeSelected() {
	task, id := m.selected()
	if task == nil {
		return
	}
	if task.IsComplete() {
		m.status = fmt.Sprintf("#%d is already complete", id)
		return
	}
	if _, err := m.list.Complete(id); err != nil {
		m.fail("complete", id, err)
		return
	}
	m.emit(logging.Event{
		Type:        logging.EventCommand,
		Op:          "complete",
		ID:          id,
		Ref:         task.Ref(),
		Description: task.Description(),
		Count:       m.list.Len(),
	})
	m.status = fmt.Sprintf("Completed #%d %s", id, task.Description())
	m.err = nil
	m.clampCursor()
}

func (m *tuiModel) removeSelected() {
	task, id := m.selected()
	if task == nil {
		return
	}
	if _, err := m.list.Remove(id); err != nil {
		m.fail("remove", id, err)
		return
	}
	m.emit(logging.Event{
		Type:        logging.EventCommand,
		Op:          "remove",
		ID:          id,
		Ref:         task.Ref(),
		Description: task.Description(),
		Count:       m.list.Len(),
	})
	m.status = fmt.Sprintf("Removed #%d %s", id, task.Description())
	m.err = nil
	m.clampCursor()
}

func (m *tuiModel) fail(op string, id int, err error) {
	m.err = err
	m.status = ""
	m.emit(logging.Event{Type: logging.EventError, Op: op, ID: id, Count: m.list.Len(), Error: err.Error()})
}

func (m *tuiModel) emit(e logging.Event) {
	e.Source = "tui"
	_ = m.events.Write(e)
}

func (m *tuiModel) setView(v viewMode) {
	m.view = v
	m.cursor = 0
	op := "list"
	switch v {
	case viewComplete:
		op = "complete_tasks"
	case viewIncomplete:
		op = "incomplete_tasks"
	}
	m.emit(logging.Event{Type: logging.EventQuery, Op: op, Count: len(m.visible())})
}

// visible returns the tasks shown by the current view.
func (m *tuiModel) visible() []*todo.Task {
	switch m.view {
	case viewComplete:
		return m.list.CompleteTasks()
	case viewIncomplete:
		return m.list.IncompleteTasks()
	default:
		return m.list.Tasks()
	}
}

// selected returns the task under the cursor and its list position.
func (m *tuiModel) selected() (*todo.Task, int) {
	tasks := m.visible()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return nil, 0
	}
	task := tasks[m.cursor]
	return task, m.positionOf(task)
}

func (m *tuiModel) positionOf(task *todo.Task) int {
	for i, t := range m.list.Tasks() {
		if t == task {
			return i + 1
		}
	}
	return 0
}

func (m *tuiModel) selectTask(task *todo.Task) {
	for i, t := range m.visible() {
		if t == task {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *tuiModel) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *tuiModel) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	writeOverview(&b, m.list)
	writeTasks(&b, m)
	writePrompt(&b, m)
	writeFooter(&b)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render("todolist") + "\n\n")
}

func writeOverview(b *strings.Builder, list *todo.List) {
	done := len(list.CompleteTasks())
	fmt.Fprintf(b, "  Total: %d  Complete: %d  Incomplete: %d\n\n", list.Len(), done, list.Len()-done)
}

func writeTasks(b *strings.Builder, m *tuiModel) {
	b.WriteString(headerStyle.Render(fmt.Sprintf("Tasks (%s)", m.view)) + "\n\n")

	tasks := m.visible()
	if len(tasks) == 0 {
		b.WriteString("  No tasks.\n\n")
		return
	}
	for i, task := range tasks {
		line := formatTask(task, m.positionOf(task), m.timeFormat)
		switch {
		case i == m.cursor:
			line = selectedStyle.Render(line)
		case task.IsComplete():
			line = doneStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

func writePrompt(b *strings.Builder, m *tuiModel) {
	switch m.mode {
	case modeAppend:
		b.WriteString("Append: " + string(m.input) + "_\n\n")
		return
	case modePrepend:
		b.WriteString("Prepend: " + string(m.input) + "_\n\n")
		return
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
		return
	}
	if m.status != "" {
		b.WriteString(m.status + "\n\n")
	}
}

func writeHelp(b *strings.Builder) {
	b.WriteString(headerStyle.Render("Keyboard Shortcuts") + "\n\n")
	b.WriteString("  a            Append a task\n")
	b.WriteString("  p            Prepend a task\n")
	b.WriteString("  x, enter     Complete selected task\n")
	b.WriteString("  d            Remove selected task\n")
	b.WriteString("  j, k         Move selection\n")
	b.WriteString("  1            Show complete tasks\n")
	b.WriteString("  2            Show incomplete tasks\n")
	b.WriteString("  0            Show all tasks\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(footerStyle.Render("Press h for help | q to quit") + "\n")
}

func formatTask(t *todo.Task, id int, timeFormat string) string {
	mark := " "
	stamp := "added " + t.CreatedAt().Format(timeFormat)
	if completed := t.CompletedAt(); completed != nil {
		mark = "x"
		stamp = "done " + completed.Format(timeFormat)
	}
	return fmt.Sprintf("  [%s] %2d. %s  (%s)", mark, id, t.Description(), stamp)
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

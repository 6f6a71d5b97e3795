// Package tui is the interactive terminal front end. It renders the
// controller's mirror and turns key presses into controller operations.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jbutlerdev/tasks/internal/controller"
	"github.com/jbutlerdev/tasks/internal/models"
	"github.com/jbutlerdev/tasks/internal/query"
)

const toastTTL = 3 * time.Second

type mode int

const (
	modeList mode = iota
	modeCreate
)

type (
	loadedMsg  struct{ err error }
	createdMsg struct {
		task models.Task
		err  error
	}
	toggledMsg struct {
		id   string
		task models.Task
		err  error
	}
	toastExpiredMsg struct{ seq int }
)

// Model is the bubbletea model for the task board.
type Model struct {
	ctx   context.Context
	api   controller.API
	ctrl  *controller.Controller
	toast *controller.NotificationLog
	keys  keyMap
	help  help.Model

	spinner spinner.Model
	title   textinput.Model
	desc    textinput.Model

	mode     mode
	cursor   int
	current  *controller.Notification
	toastSeq int
	width    int
	quitting bool
}

// New builds a model around api. ctrl must have been created with log as its
// notifier so the model can surface toasts.
func New(ctx context.Context, api controller.API, ctrl *controller.Controller, log *controller.NotificationLog) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 200
	title.Prompt = "Title: "

	desc := textinput.New()
	desc.Placeholder = "Description (markdown)"
	desc.CharLimit = 2000
	desc.Prompt = "Description: "

	return Model{
		ctx:     ctx,
		api:     api,
		ctrl:    ctrl,
		toast:   log,
		keys:    defaultKeys(),
		help:    help.New(),
		spinner: sp,
		title:   title,
		desc:    desc,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.ctrl.Load(m.ctx)}
	}
}

func (m Model) create(input models.CreateTaskInput) tea.Cmd {
	return func() tea.Msg {
		task, err := m.ctrl.Create(m.ctx, input)
		return createdMsg{task: task, err: err}
	}
}

// toggle flips the task in the mirror right away and returns the command
// that asks the server.
func (m Model) toggle(id string) tea.Cmd {
	if err := m.ctrl.BeginToggle(id); err != nil {
		return nil
	}
	return func() tea.Msg {
		task, err := m.api.Toggle(m.ctx, id)
		return toggledMsg{id: id, task: task, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.clampCursor()
		if msg.err != nil {
			return m, m.showToast()
		}
		return m, nil

	case createdMsg:
		if msg.err == nil {
			m.closeForm()
		}
		m.clampCursor()
		return m, m.showToast()

	case toggledMsg:
		m.ctrl.FinishToggle(m.ctx, msg.id, msg.task, msg.err)
		m.clampCursor()
		return m, m.showToast()

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.current = nil
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeCreate {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.ctrl.Snapshot().Visible

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.All):
		m.setFilter(models.FilterAll)
	case key.Matches(msg, m.keys.Incomplete):
		m.setFilter(models.FilterIncomplete)
	case key.Matches(msg, m.keys.Completed):
		m.setFilter(models.FilterCompleted)
	case key.Matches(msg, m.keys.Reload):
		return m, m.load()
	case key.Matches(msg, m.keys.New):
		m.mode = modeCreate
		m.desc.Blur()
		return m, m.title.Focus()
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(visible) {
			return m, m.toggle(visible[m.cursor].ID)
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeForm()
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		if m.title.Focused() {
			m.title.Blur()
			return m, m.desc.Focus()
		}
		m.desc.Blur()
		return m, m.title.Focus()
	case key.Matches(msg, m.keys.Submit):
		if m.title.Focused() && msg.String() == "enter" {
			m.title.Blur()
			return m, m.desc.Focus()
		}
		return m, m.create(models.CreateTaskInput{
			Title:       m.title.Value(),
			Description: m.desc.Value(),
		})
	}

	var cmd tea.Cmd
	if m.title.Focused() {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.desc, cmd = m.desc.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFilter(status models.FilterStatus) {
	m.ctrl.SetFilter(status)
	m.cursor = 0
}

func (m *Model) closeForm() {
	m.mode = modeList
	m.title.Reset()
	m.desc.Reset()
	m.title.Blur()
	m.desc.Blur()
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.Snapshot().Visible)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// showToast surfaces the newest notification and schedules its expiry.
func (m *Model) showToast() tea.Cmd {
	if m.toast == nil {
		return nil
	}
	n, ok := m.toast.Last()
	if !ok {
		return nil
	}
	m.current = &n
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snap := m.ctrl.Snapshot()

	var b strings.Builder
	b.WriteString(headerStyle.Render("Task Manager"))
	b.WriteString("\n")
	b.WriteString(RenderFilters(snap.Counts, snap.Filter))
	b.WriteString("\n\n")

	if m.current != nil {
		style := toastSuccessStyle
		if m.current.Level == controller.LevelError {
			style = toastErrorStyle
		}
		b.WriteString(style.Render(m.current.Message))
		b.WriteString("\n\n")
	}

	if m.mode == modeCreate {
		form := lipgloss.JoinVertical(lipgloss.Left, m.title.View(), m.desc.View())
		b.WriteString(formStyle.Render(form))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.formHelp())))
		return b.String()
	}

	switch {
	case snap.Loading && len(snap.All) == 0:
		b.WriteString(fmt.Sprintf("%s Loading tasks...", m.spinner.View()))
	case len(snap.Visible) == 0:
		b.WriteString(emptyStyle.Render(query.EmptyMessage(snap.Filter)))
	default:
		for i, t := range snap.Visible {
			prefix := "  "
			if i == m.cursor {
				prefix = cursorStyle.Render("> ")
			}
			check := "[ ]"
			if t.Completed {
				check = "[x]"
			}
			title := titleStyle.Render(t.Title)
			if t.Completed {
				title = doneTitleStyle.Render(t.Title)
			}
			pending := ""
			if m.ctrl.ToggleState(t.ID) == controller.ToggleOptimisticPending {
				pending = " " + m.spinner.View()
			}
			fmt.Fprintf(&b, "%s%s %s  %s%s\n", prefix, check, title, badge(t), pending)
			fmt.Fprintf(&b, "      %s\n", descStyle.Render(t.Description))
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.listHelp())))
	return b.String()
}

// Run starts the full screen program and blocks until the user quits.
func Run(ctx context.Context, api controller.API, opts ...controller.Option) error {
	log := &controller.NotificationLog{}
	ctrl := controller.New(api, append(opts, controller.WithNotifier(log))...)
	p := tea.NewProgram(New(ctx, api, ctrl, log), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

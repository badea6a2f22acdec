// Package tui is the terminal blog browser started by `sainty browse`.
// It drives the same listing.Controller the web pages use.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hey-sainty/cmd/web/listing"
	"hey-sainty/cmd/web/services"
)

const (
	MsgNoItems  = "No blogs to display"
	MsgNoMore   = "No more blogs to load"
	MsgFailed   = "Could not load posts. Press m to retry."
	helpLine    = "j/k: move  m: load more  q: quit"
	titleMaxLen = 60
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	SelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	MetaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	NoticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	ErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// pageLoadedMsg carries the controller state after Mount or LoadMore.
type pageLoadedMsg struct {
	state listing.State
	err   error
}

// Model is the Bubble Tea model for browsing one listing.
type Model struct {
	ctx     context.Context
	ctrl    *listing.Controller
	tag     string
	spinner spinner.Model

	state  listing.State
	cursor int
	notice string
	err    error
}

// New creates the browser. The controller is mounted by Init.
func New(ctx context.Context, ctrl *listing.Controller, tag string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		tag:     tag,
		spinner: s,
		state:   listing.State{Page: 1, Loading: true, Param: tag},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.mount())
}

func (m Model) mount() tea.Cmd {
	return func() tea.Msg {
		s, err := m.ctrl.Mount(m.ctx, m.tag)
		return pageLoadedMsg{state: s, err: err}
	}
}

func (m Model) loadMore() tea.Cmd {
	return func() tea.Msg {
		s, err := m.ctrl.LoadMore(m.ctx)
		return pageLoadedMsg{state: s, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case pageLoadedMsg:
		return m.handleLoaded(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.ctrl.Close()
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.state.Posts)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "m", " ":
		switch {
		case m.state.Loading:
		case !m.state.HasMore() && m.err == nil:
			m.notice = MsgNoMore
		default:
			m.notice = ""
			m.state.Loading = true
			if !m.state.Fetched || (m.err != nil && len(m.state.Posts) == 0) {
				return m, m.mount()
			}
			return m, m.loadMore()
		}
	}
	return m, nil
}

func (m Model) handleLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.err, listing.ErrClosed):
		return m, tea.Quit
	case errors.Is(msg.err, listing.ErrNoMoreItems):
		m.notice = MsgNoMore
	case errors.Is(msg.err, listing.ErrLoadInProgress), errors.Is(msg.err, listing.ErrSuperseded):
	}
	m.state = msg.state
	m.err = msg.state.Err
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	title := "All blogs"
	if m.tag != "" {
		title = "#" + m.tag
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")

	if m.state.Empty() {
		b.WriteString(NoticeStyle.Render(MsgNoItems))
		b.WriteString("\n")
	}
	for i, p := range m.state.Posts {
		line := fmt.Sprintf("%2d. %s", i+1, services.Truncate(p.Title, titleMaxLen))
		if i == m.cursor {
			line = SelectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n    ")
		b.WriteString(MetaStyle.Render(fmt.Sprintf("%s · %d views", services.DateLine(p.DateCreated, p.LastUpdated), p.Views)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.state.Loading:
		b.WriteString(m.spinner.View() + " Loading...")
	case m.err != nil:
		b.WriteString(ErrorStyle.Render(MsgFailed))
	case m.notice != "":
		b.WriteString(NoticeStyle.Render(m.notice))
	case m.state.Total > 0:
		b.WriteString(MetaStyle.Render(fmt.Sprintf("%d of %d", len(m.state.Posts), m.state.Total)))
	}
	b.WriteString("\n\n")
	b.WriteString(MetaStyle.Render(helpLine))
	b.WriteString("\n")
	return b.String()
}

// Run starts the browser on the terminal and closes the controller on exit.
func Run(ctx context.Context, ctrl *listing.Controller, tag string) error {
	defer ctrl.Close()
	p := tea.NewProgram(New(ctx, ctrl, tag), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}

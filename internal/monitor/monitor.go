// Package monitor implements the cold-room dashboard TUI using BubbleTea:
// live readings, a sparkline of the rolling window, the recent log, the
// set-point editor and the assistant chat.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/luki/coldroom/internal/chat"
	"github.com/luki/coldroom/internal/dashboard"
	"github.com/luki/coldroom/internal/logger"
	"github.com/luki/coldroom/internal/status"
)

const (
	defaultChatTimeout = 30 * time.Second
	chatVisible        = 8
)

// ── Messages ─────────────────────────────────────────────────────────

type changedMsg struct{}

type chatReplyMsg struct {
	reply string
	err   error
}

type savedMsg struct {
	what string
	err  error
}

// ── Model ────────────────────────────────────────────────────────────

type mode int

const (
	modeNormal mode = iota
	modeSetPoint
	modeChat
)

// Options wires a Model to its collaborators.
type Options struct {
	State        *dashboard.State
	Conversation *chat.Conversation
	Generator    chat.Generator
	Log          *logger.Logger
	Location     *time.Location // display zone for clock and timeline
	ChatTimeout  time.Duration
}

// Model is the BubbleTea model for the dashboard.
type Model struct {
	ctx   context.Context
	state *dashboard.State
	conv  *chat.Conversation
	gen   chat.Generator
	log   *logger.Logger
	loc   *time.Location

	chatTimeout time.Duration

	view   dashboard.View
	width  int
	height int
	scroll int
	mode   mode

	minInput  textinput.Model
	maxInput  textinput.Model
	spFocus   int
	chatInput textinput.Model

	notice    string
	noticeErr bool
}

// New creates the dashboard model. ctx bounds the background commands the
// model starts.
func New(ctx context.Context, opts Options) Model {
	if opts.Conversation == nil {
		opts.Conversation = chat.NewConversation(chat.ModeTranscript)
	}
	if opts.Generator == nil {
		opts.Generator = chat.Missing{}
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.ChatTimeout <= 0 {
		opts.ChatTimeout = defaultChatTimeout
	}

	newInput := func(prompt string) textinput.Model {
		ti := textinput.New()
		ti.Prompt = prompt
		ti.CharLimit = 8
		ti.Width = 8
		return ti
	}
	chatIn := textinput.New()
	chatIn.Prompt = "› "
	chatIn.Placeholder = "Ask about the room..."
	chatIn.CharLimit = 500

	return Model{
		ctx:         ctx,
		state:       opts.State,
		conv:        opts.Conversation,
		gen:         opts.Generator,
		log:         opts.Log.Named("monitor"),
		loc:         opts.Location,
		chatTimeout: opts.ChatTimeout,
		view:        opts.State.Snapshot(),
		minInput:    newInput("min "),
		maxInput:    newInput("max "),
		chatInput:   chatIn,
	}
}

// ── Commands ─────────────────────────────────────────────────────────

func (m Model) waitForChange() tea.Cmd {
	ch := m.state.Changes()
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case <-ch:
			return changedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) sendChat(req chat.Request) tea.Cmd {
	gen, parent, timeout := m.gen, m.ctx, m.chatTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		reply, err := gen.Generate(ctx, req)
		return chatReplyMsg{reply: reply, err: err}
	}
}

func (m Model) saveSetPoint(sp status.SetPoint) tea.Cmd {
	st, ctx := m.state, m.ctx
	return func() tea.Msg {
		return savedMsg{what: "set-point", err: st.SetSetPoint(ctx, sp)}
	}
}

func (m Model) toggleTheme() tea.Cmd {
	st, ctx := m.state, m.ctx
	return func() tea.Msg {
		return savedMsg{what: "theme", err: st.ToggleTheme(ctx)}
	}
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chatInput.Width = max(msg.Width-10, 10)
		return m, nil

	case changedMsg:
		m.view = m.state.Snapshot()
		return m, m.waitForChange()

	case chatReplyMsg:
		m.conv.Complete(msg.reply, msg.err)
		if msg.err != nil {
			m.log.Warnw("chat request failed", "err", msg.err)
		}
		return m, nil

	case savedMsg:
		m.view = m.state.Snapshot()
		if msg.err != nil {
			m.setNotice(fmt.Sprintf("%s not saved: %v", msg.what, msg.err), true)
			m.log.Errorw("persist preference", "what", msg.what, "err", msg.err)
		} else {
			m.setNotice(msg.what+" saved", false)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSetPoint:
			return m.updateSetPoint(msg)
		case modeChat:
			return m.updateChat(msg)
		default:
			return m.updateNormal(msg)
		}
	}

	return m, nil
}

func (m *Model) setNotice(s string, isErr bool) {
	m.notice = s
	m.noticeErr = isErr
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "t":
		return m, m.toggleTheme()
	case "e":
		m.mode = modeSetPoint
		m.spFocus = 0
		m.minInput.SetValue(formatSetPoint(m.view.SetPoint.Min))
		m.maxInput.SetValue(formatSetPoint(m.view.SetPoint.Max))
		m.maxInput.Blur()
		m.setNotice("", false)
		return m, m.minInput.Focus()
	case "c":
		m.mode = modeChat
		return m, m.chatInput.Focus()
	case "up", "k":
		if m.scroll > 0 {
			m.scroll--
		}
	case "down", "j":
		m.scroll++
	case "home":
		m.scroll = 0
	}
	return m, nil
}

func (m Model) updateSetPoint(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.minInput.Blur()
		m.maxInput.Blur()
		m.setNotice("", false)
		return m, nil
	case "tab", "shift+tab", "up", "down":
		m.spFocus = 1 - m.spFocus
		if m.spFocus == 0 {
			m.maxInput.Blur()
			return m, m.minInput.Focus()
		}
		m.minInput.Blur()
		return m, m.maxInput.Focus()
	case "enter":
		sp, err := parseSetPoint(m.minInput.Value(), m.maxInput.Value())
		if err != nil {
			m.setNotice(err.Error(), true)
			return m, nil
		}
		m.mode = modeNormal
		m.minInput.Blur()
		m.maxInput.Blur()
		return m, m.saveSetPoint(sp)
	}

	var cmd tea.Cmd
	if m.spFocus == 0 {
		m.minInput, cmd = m.minInput.Update(msg)
	} else {
		m.maxInput, cmd = m.maxInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.chatInput.Blur()
		return m, nil
	case "enter":
		v := m.view
		req, err := m.conv.Begin(m.chatInput.Value(), chat.RoomContext{
			Temperature: v.Temperature,
			Humidity:    v.Humidity,
			Band:        v.Band,
			Condition:   v.Condition,
		})
		switch {
		case errors.Is(err, chat.ErrBusy):
			m.setNotice("wait for the assistant to reply", true)
			return m, nil
		case errors.Is(err, chat.ErrEmpty):
			m.setNotice("type a question first", true)
			return m, nil
		case err != nil:
			m.setNotice(err.Error(), true)
			return m, nil
		}
		m.setNotice("", false)
		m.chatInput.Reset()
		return m, m.sendChat(req)
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

// parseSetPoint reads the editor fields into a validated range.
func parseSetPoint(minText, maxText string) (status.SetPoint, error) {
	lo, err := strconv.ParseFloat(strings.TrimSpace(minText), 64)
	if err != nil {
		return status.SetPoint{}, fmt.Errorf("%w: min %q is not a number", status.ErrInvalidSetPoint, minText)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(maxText), 64)
	if err != nil {
		return status.SetPoint{}, fmt.Errorf("%w: max %q is not a number", status.ErrInvalidSetPoint, maxText)
	}
	sp := status.SetPoint{Min: lo, Max: hi}
	if err := sp.Validate(); err != nil {
		return status.SetPoint{}, err
	}
	return sp, nil
}

func formatSetPoint(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}


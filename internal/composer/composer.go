// Package composer is the message input: it owns the text buffer and the
// attachment preview, and drives suggestions, typing presence and sending
// from the Bubble Tea update loop.
package composer

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Syed-Musa/talkup29/internal/chat"
	"github.com/Syed-Musa/talkup29/internal/config"
	"github.com/Syed-Musa/talkup29/internal/debounce"
	"github.com/Syed-Musa/talkup29/internal/logger"
	"github.com/Syed-Musa/talkup29/internal/presence"
	"github.com/Syed-Musa/talkup29/internal/suggest"
	"github.com/Syed-Musa/talkup29/internal/ui/components/suggestions"
)

// SuggestKey is the scheduler slot for the pull debounce.
const SuggestKey debounce.Key = "suggest"

const (
	DefaultDebounce = 120 * time.Millisecond
	sendTimeout     = 10 * time.Second
)

// State of the composer
type State int

const (
	StateEmpty State = iota
	StateComposing
	StateSending
	StateError
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateComposing:
		return "composing"
	case StateSending:
		return "sending"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Deps are the collaborators a composer is built over. Oracle, Push and
// Presence may be nil.
type Deps struct {
	Oracle   suggest.Oracle
	Push     suggest.Push
	Sender   chat.Sender
	Presence presence.Sink
	Logger   *log.Logger
}

// Model is the composer sub-model. The parent forwards every message to
// Update and renders View and SuggestionsView.
type Model struct {
	input  textinput.Model
	prompt textinput.Model

	attaching  bool
	attachment *Attachment
	state      State
	notice     string

	// in-flight submit
	sending        string
	sendingAttach  *Attachment
	lastSource     suggest.Source
	maxSuggestions int

	rec      *suggest.Reconciler
	sched    *debounce.Scheduler
	typing   *presence.Signal
	oracle   suggest.Oracle
	pull     *suggest.RequestChannel
	push     suggest.Push
	sender   chat.Sender
	debounce time.Duration
	keys     config.KeyMap

	dropdown suggestions.Model
	styles   Styles
	log      *log.Logger
}

// New builds a composer. cfg supplies timings, limits and key bindings.
func New(deps Deps, cfg *config.Config) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = "> "
	ti.CharLimit = 4000
	ti.Focus()

	pi := textinput.New()
	pi.Placeholder = "/path/to/image.png"
	pi.Prompt = "Attach image: "
	pi.CharLimit = 1024

	push := deps.Push
	if push == nil {
		push = suggest.NoopPush{}
	}

	sched := debounce.New()
	m := Model{
		input:          ti,
		prompt:         pi,
		rec:            suggest.NewReconciler(),
		sched:          sched,
		typing:         presence.New(sched, deps.Presence, cfg.TypingIdle()),
		oracle:         deps.Oracle,
		pull:           newPull(deps.Oracle, cfg.RequestTimeout()),
		push:           push,
		sender:         deps.Sender,
		debounce:       cfg.SuggestDebounce(),
		keys:           cfg.Keys,
		maxSuggestions: cfg.MaxSuggestions,
		dropdown:       suggestions.New(),
		styles:         DefaultStyles(),
		log:            logger.OrDiscard(deps.Logger).WithPrefix("composer"),
	}
	if m.debounce <= 0 {
		m.debounce = DefaultDebounce
	}
	return m
}

func newPull(oracle suggest.Oracle, timeout time.Duration) *suggest.RequestChannel {
	if oracle == nil {
		return nil
	}
	return suggest.NewRequestChannel(oracle, timeout)
}

// Init subscribes to the push channel and starts waiting for batches.
func (m Model) Init() tea.Cmd {
	m.push.Subscribe()
	return tea.Batch(textinput.Blink, m.push.Wait())
}

// Close releases the push subscription and ends typing. The returned
// command delivers the final typing=false, if one is due; it is safe to run
// it synchronously during shutdown.
func (m Model) Close() tea.Cmd {
	m.sched.Cancel(SuggestKey)
	m.push.Unsubscribe()
	return m.typing.Stop()
}

// Configure applies a reloaded config.
func (m Model) Configure(cfg *config.Config) Model {
	if cfg == nil {
		return m
	}
	if d := cfg.SuggestDebounce(); d > 0 {
		m.debounce = d
	}
	m.typing.SetIdle(cfg.TypingIdle())
	m.pull = newPull(m.oracle, cfg.RequestTimeout())
	m.keys = cfg.Keys
	m.maxSuggestions = cfg.MaxSuggestions
	return m
}

// SetWidth sizes the input to fit width columns.
func (m Model) SetWidth(width int) Model {
	w := width - lenPrompt(m.input.Prompt) - 2
	if w < 10 {
		w = 10
	}
	m.input.Width = w
	m.prompt.Width = w
	return m
}

func lenPrompt(p string) int { return len([]rune(p)) }

// SetStyles replaces the rendering styles
func (m Model) SetStyles(s Styles) Model {
	m.styles = s
	m.dropdown = m.dropdown.SetStyles(s.Dropdown)
	m.input.PromptStyle = s.Prompt
	m.input.TextStyle = s.Text
	m.input.PlaceholderStyle = s.Placeholder
	m.prompt.PromptStyle = s.Prompt
	return m
}

// Value is the current buffer text.
func (m Model) Value() string { return m.input.Value() }

// State reports the current composer state.
func (m Model) State() State { return m.state }

// Notice is the transient message shown under the input, if any.
func (m Model) Notice() string { return m.notice }

// Attachment returns the pending attachment, or nil.
func (m Model) Attachment() *Attachment { return m.attachment }

// Suggestions are the displayed suggestions, in rank order.
func (m Model) Suggestions() []string { return m.rec.Items() }

// ActiveSuggestion reports the selected suggestion index.
func (m Model) ActiveSuggestion() (int, bool) { return m.rec.ActiveIndex() }

// Typing reports whether the presence signal is in the typing state.
func (m Model) Typing() bool { return m.typing.Typing() }

// Attaching reports whether the attach prompt has focus.
func (m Model) Attaching() bool { return m.attaching }

// Focused reports whether the composer input has focus.
func (m Model) Focused() bool { return m.input.Focused() }

// Focus gives the input focus back, e.g. after a popup closes.
func (m Model) Focus() (Model, tea.Cmd) {
	cmd := m.input.Focus()
	return m, cmd
}

// Blur removes focus from the input.
func (m Model) Blur() Model {
	m.input.Blur()
	return m
}

func (m Model) contentState() State {
	if strings.TrimSpace(m.input.Value()) != "" || m.attachment != nil {
		return StateComposing
	}
	return StateEmpty
}

// settle recomputes the state after a buffer change. A send in flight wins;
// any notice is dismissed by further input.
func (m Model) settle() Model {
	if m.state == StateSending {
		return m
	}
	m.notice = ""
	m.state = m.contentState()
	return m
}

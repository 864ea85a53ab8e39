// internal/ui/model.go
// Root Model struct, constructor, and Init
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/evertras/bubble-table/table"

	"github.com/Syed-Musa/talkup29/internal/composer"
	"github.com/Syed-Musa/talkup29/internal/config"
	"github.com/Syed-Musa/talkup29/internal/history"
	"github.com/Syed-Musa/talkup29/internal/logger"
	"github.com/Syed-Musa/talkup29/internal/monitor"
)

// Link reports whether the push socket currently has a connection.
type Link interface {
	Connected() bool
}

const (
	linkPollInterval = time.Second
	transcriptSeed   = 20
	historyPageSize  = 10
)

// Options are the collaborators of the root model. Everything except
// Config and Composer may be nil.
type Options struct {
	Config   *config.Config
	Composer composer.Model
	History  *history.Store
	Watcher  *monitor.Watcher
	Link     Link
	Logger   *log.Logger
}

// Model is the root Bubble Tea model
type Model struct {
	width, height int
	config        *config.Config

	composer   composer.Model
	viewport   viewport.Model
	spinner    spinner.Model
	transcript []transcriptEntry

	historyStore *history.Store
	historyTable table.Model
	showHistory  bool

	watcher   *monitor.Watcher
	link      Link
	connected bool

	statusMsg string
	errorMsg  string

	log *log.Logger
}

// transcriptEntry is one sent message shown in the viewport
type transcriptEntry struct {
	ID       string
	Text     string
	HasImage bool
	SentAt   time.Time
}

// New creates the root model
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor())

	m := Model{
		config:       cfg,
		composer:     opts.Composer.SetStyles(ComposerStyles()),
		viewport:     viewport.New(80, 10),
		spinner:      sp,
		historyStore: opts.History,
		watcher:      opts.Watcher,
		link:         opts.Link,
		log:          logger.OrDiscard(opts.Logger).WithPrefix("ui"),
	}
	if m.link != nil {
		m.connected = m.link.Connected()
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.composer.Init(),
		loadHistoryCmd(m.historyStore, m.config.ReceiverID, transcriptSeed, false),
	}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Wait())
	}
	if m.link != nil {
		cmds = append(cmds, linkTick())
	}
	return tea.Batch(cmds...)
}

// Composer exposes the composer sub-model, mostly for tests.
func (m Model) Composer() composer.Model { return m.composer }

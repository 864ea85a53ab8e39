package composer

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/oklog/ulid/v2"

	"github.com/Syed-Musa/talkup29/internal/chat"
	"github.com/Syed-Musa/talkup29/internal/debounce"
	"github.com/Syed-Musa/talkup29/internal/presence"
	"github.com/Syed-Musa/talkup29/internal/suggest"
)

// ErrNoSender is reported when a composer without a sender submits.
var ErrNoSender = errors.New("no message sender configured")

// AttachmentMsg carries the result of reading a selected file.
type AttachmentMsg struct {
	Attachment *Attachment
	Err        error
}

// SentMsg reports the outcome of a submit.
type SentMsg struct {
	ClientID string
	Text     string
	HasImage bool
	Err      error
}

// Update handles key input and the composer's own asynchronous messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case debounce.FiredMsg:
		if cmd, ok := m.typing.Handle(msg); ok {
			return m, cmd
		}
		if msg.Key == SuggestKey && m.sched.Fire(msg) {
			return m, m.requestPull()
		}
		return m, nil

	case suggest.BatchMsg:
		return m.handleBatch(msg)

	case presence.SentMsg:
		if msg.Err != nil {
			m.log.Debug("typing delivery failed", "typing", msg.Typing, "err", msg.Err)
		}
		return m, nil

	case AttachmentMsg:
		if msg.Err != nil {
			return m.rejectAttachment(msg.Err), nil
		}
		m.attachment = msg.Attachment
		return m.settle(), nil

	case SentMsg:
		return m.handleSent(msg)
	}

	if !m.attaching {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.attaching {
		return m.handlePrompt(msg)
	}

	// Navigation and apply only exist while there is something to pick.
	if m.rec.Len() > 0 {
		switch {
		case matchKey(msg, m.keys.NextSuggestion):
			m.rec.Next()
			return m, nil
		case matchKey(msg, m.keys.PrevSuggestion):
			m.rec.Prev()
			return m, nil
		case matchKey(msg, m.keys.ApplySuggestion):
			if s, ok := m.rec.Active(); ok {
				return m.applySuggestion(s)
			}
		}
	}

	switch {
	case matchKey(msg, m.keys.Submit):
		return m.submit()
	case matchKey(msg, m.keys.Clear):
		return m.clear()
	case matchKey(msg, m.keys.Attach):
		m.attaching = true
		m.prompt.SetValue("")
		m.input.Blur()
		cmd := m.prompt.Focus()
		return m, cmd
	case matchKey(msg, m.keys.RemoveAttachment):
		if m.attachment != nil {
			m.attachment = nil
			m = m.settle()
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	m, edit := m.edited()
	return m, tea.Batch(cmd, edit)
}

// edited runs after every user change to the buffer.
func (m Model) edited() (Model, tea.Cmd) {
	text := m.input.Value()
	seq := m.rec.Edit(text)
	m = m.settle()

	var cmds []tea.Cmd
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		m.sched.Cancel(SuggestKey)
	} else {
		cmds = append(cmds, m.sched.Schedule(SuggestKey, m.debounce))
		if err := m.push.Notify(suggest.Query{Text: trimmed, Seq: seq}); err != nil {
			m.log.Debug("push notify failed", "seq", seq, "err", err)
		}
	}
	cmds = append(cmds, m.typing.Edit())
	return m, tea.Batch(cmds...)
}

func (m Model) requestPull() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}
	return m.pull.Request(suggest.Query{Text: text, Seq: m.rec.Current()})
}

func (m Model) handleBatch(msg suggest.BatchMsg) (Model, tea.Cmd) {
	b := msg.Batch
	if msg.Err != nil {
		m.log.Debug("suggestion fetch failed", "seq", b.Seq, "source", b.Source, "err", msg.Err)
	}
	if m.maxSuggestions > 0 && len(b.Suggestions) > m.maxSuggestions {
		b.Suggestions = b.Suggestions[:m.maxSuggestions]
	}
	if m.rec.Accept(b) {
		m.lastSource = b.Source
	} else if !b.Failed {
		m.log.Debug("discarded batch", "seq", b.Seq, "current", m.rec.Current(), "source", b.Source)
	}

	// One push wait is kept outstanding for the life of the subscription.
	if b.Source == suggest.SourcePush {
		return m, m.push.Wait()
	}
	return m, nil
}

// applySuggestion splices s into the buffer and drops the list. The cleared
// sequence makes any batch still in flight for the old text stale.
func (m Model) applySuggestion(s string) (Model, tea.Cmd) {
	m.input.SetValue(suggest.Splice(m.input.Value(), s))
	m.input.CursorEnd()
	m.rec.Clear()
	m = m.settle()
	return m, m.sched.Schedule(SuggestKey, m.debounce)
}

func (m Model) clear() (Model, tea.Cmd) {
	m.input.Reset()
	m.attachment = nil
	m.rec.Clear()
	m.sched.Cancel(SuggestKey)
	m.notice = ""
	m = m.settle()
	return m, m.typing.Stop()
}

func (m Model) submit() (Model, tea.Cmd) {
	if m.state == StateSending {
		return m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	if text == "" && m.attachment == nil {
		return m, nil
	}

	m.state = StateSending
	m.notice = ""
	m.sending = m.input.Value()
	m.sendingAttach = m.attachment

	out := chat.Message{Text: text, ClientID: ulid.Make().String()}
	if m.attachment != nil {
		image := m.attachment.DataURL
		out.Image = &image
	}
	return m, tea.Batch(m.typing.Stop(), sendCmd(m.sender, out))
}

func sendCmd(sender chat.Sender, out chat.Message) tea.Cmd {
	return func() tea.Msg {
		if sender == nil {
			return SentMsg{ClientID: out.ClientID, Text: out.Text, HasImage: out.Image != nil, Err: ErrNoSender}
		}
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		err := sender.Send(ctx, out)
		return SentMsg{ClientID: out.ClientID, Text: out.Text, HasImage: out.Image != nil, Err: err}
	}
}

func (m Model) handleSent(msg SentMsg) (Model, tea.Cmd) {
	if m.state != StateSending {
		return m, nil
	}
	if msg.Err != nil {
		m.log.Warn("send failed", "err", msg.Err)
		m.state = StateError
		m.notice = "Failed to send message"
		m.sending, m.sendingAttach = "", nil
		return m, nil
	}

	// Drop only what was sent; anything typed while sending stays.
	rest := remainder(m.input.Value(), m.sending)
	m.input.SetValue(rest)
	m.input.CursorEnd()
	if m.attachment == m.sendingAttach {
		m.attachment = nil
	}
	m.sending, m.sendingAttach = "", nil
	m.rec.Clear()
	m.state = StateEmpty
	m = m.settle()

	if strings.TrimSpace(rest) == "" {
		m.sched.Cancel(SuggestKey)
		return m, nil
	}
	return m, m.sched.Schedule(SuggestKey, m.debounce)
}

func remainder(current, sent string) string {
	if current == sent {
		return ""
	}
	if strings.HasPrefix(current, sent) {
		return strings.TrimLeft(current[len(sent):], " \t")
	}
	return current
}

func (m Model) handlePrompt(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return m.closePrompt()
	case msg.Type == tea.KeyEnter:
		path := strings.TrimSpace(m.prompt.Value())
		var cmd tea.Cmd
		m, cmd = m.closePrompt()
		if path == "" {
			return m, cmd
		}
		return m, tea.Batch(cmd, loadCmd(path))
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) closePrompt() (Model, tea.Cmd) {
	m.attaching = false
	m.prompt.Blur()
	m.prompt.SetValue("")
	cmd := m.input.Focus()
	return m, tea.Batch(cmd, textinput.Blink)
}

func loadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		a, err := LoadAttachment(path)
		return AttachmentMsg{Attachment: a, Err: err}
	}
}

// rejectAttachment leaves the preview exactly as it was.
func (m Model) rejectAttachment(err error) Model {
	m.log.Debug("attachment rejected", "err", err)
	switch {
	case errors.Is(err, ErrInvalidAttachment):
		m.notice = "Please select an image file"
	case errors.Is(err, ErrAttachmentTooLarge):
		m.notice = "Image is too large"
	default:
		m.notice = "Could not read file"
	}
	return m
}

func matchKey(msg tea.KeyMsg, keys []string) bool {
	keyStr := msg.String()
	for _, k := range keys {
		if k == keyStr {
			return true
		}
	}
	return false
}

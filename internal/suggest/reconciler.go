package suggest

import "strings"

// Reconciler decides which batch is displayed. It assigns a sequence number
// to every buffer edit and only lets a batch through when it answers the live
// snapshot, so arrival order between the two channels does not matter.
type Reconciler struct {
	current   Seq
	displayed Seq
	items     []string
	active    int // -1 when items is empty
}

// NewReconciler returns a reconciler with nothing displayed.
func NewReconciler() *Reconciler {
	return &Reconciler{active: -1}
}

// Edit records a new buffer state and returns its sequence number. An empty
// (or whitespace-only) buffer clears the displayed list right away.
func (r *Reconciler) Edit(text string) Seq {
	r.current++
	if strings.TrimSpace(text) == "" {
		r.reset()
	}
	return r.current
}

// Accept applies a batch and reports whether it is now displayed.
// Pull and push batches for the same snapshot resolve last-arrival-wins; the
// list is always exactly one batch, never a union.
func (r *Reconciler) Accept(b Batch) bool {
	if b.Failed {
		return false
	}
	if b.Seq == 0 || b.Seq < r.displayed || b.Seq != r.current {
		return false
	}
	r.items = append([]string(nil), b.Suggestions...)
	r.displayed = b.Seq
	if len(r.items) > 0 {
		r.active = 0
	} else {
		r.active = -1
	}
	return true
}

// Clear drops the displayed list and advances the sequence so any batch in
// flight for the old text is discarded when it lands.
func (r *Reconciler) Clear() Seq {
	r.current++
	r.reset()
	return r.current
}

func (r *Reconciler) reset() {
	r.items = nil
	r.active = -1
	r.displayed = 0
}

// Next moves the selection forward, wrapping at the end.
func (r *Reconciler) Next() {
	if len(r.items) == 0 {
		return
	}
	r.active = (r.active + 1) % len(r.items)
}

// Prev moves the selection backward, wrapping at the start.
func (r *Reconciler) Prev() {
	if len(r.items) == 0 {
		return
	}
	r.active = (r.active - 1 + len(r.items)) % len(r.items)
}

// Items returns the displayed suggestions.
func (r *Reconciler) Items() []string { return r.items }

// Len returns the number of displayed suggestions.
func (r *Reconciler) Len() int { return len(r.items) }

// ActiveIndex returns the selected index, or false when nothing is displayed.
func (r *Reconciler) ActiveIndex() (int, bool) {
	if r.active < 0 || r.active >= len(r.items) {
		return 0, false
	}
	return r.active, true
}

// Active returns the selected suggestion.
func (r *Reconciler) Active() (string, bool) {
	i, ok := r.ActiveIndex()
	if !ok {
		return "", false
	}
	return r.items[i], true
}

// Current is the sequence of the live buffer snapshot.
func (r *Reconciler) Current() Seq { return r.current }

// Displayed is the sequence the shown list answers, zero if none.
func (r *Reconciler) Displayed() Seq { return r.displayed }

// Splice appends suggestion to text, separated by a single space unless text
// is empty or already ends in whitespace.
func Splice(text, suggestion string) string {
	if text == "" {
		return suggestion
	}
	last := text[len(text)-1]
	if last == ' ' || last == '\t' || last == '\n' {
		return text + suggestion
	}
	return text + " " + suggestion
}

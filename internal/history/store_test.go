package history

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T, limit int) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "history.db"), limit)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndList(t *testing.T) {
	s := newTestStore(t, 0)

	for _, text := range []string{"first", "second", "third"} {
		if err := s.Add(&Entry{ReceiverID: "u1", Text: text}); err != nil {
			t.Fatalf("add %q: %v", text, err)
		}
	}
	if err := s.Add(&Entry{ReceiverID: "u2", Text: "elsewhere", HasImage: true}); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := s.List("u1", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Text != "third" || got[2].Text != "first" {
		t.Errorf("order = %q..%q, want newest first", got[0].Text, got[2].Text)
	}
	if got[0].ID == "" || got[0].SentAt.IsZero() {
		t.Errorf("entry missing id or timestamp: %+v", got[0])
	}

	n, err := s.Count("u2")
	if err != nil || n != 1 {
		t.Errorf("count u2 = %d, %v", n, err)
	}
}

func TestLimitPrunesOldest(t *testing.T) {
	s := newTestStore(t, 2)

	for _, text := range []string{"a", "b", "c"} {
		if err := s.Add(&Entry{ReceiverID: "u1", Text: text}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	got, _ := s.List("u1", 10, 0)
	if len(got) != 2 || got[0].Text != "c" || got[1].Text != "b" {
		t.Fatalf("got %+v, want [c b]", got)
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		entry Entry
		max   int
		want  string
	}{
		{Entry{Text: "hello\nworld"}, 40, "hello world"},
		{Entry{Text: "", HasImage: true}, 40, "[image]"},
		{Entry{Text: "look", HasImage: true}, 40, "[image] look"},
		{Entry{Text: "abcdefghij"}, 8, "abcde..."},
	}
	for _, tt := range tests {
		if got := tt.entry.Preview(tt.max); got != tt.want {
			t.Errorf("Preview(%q, %d) = %q, want %q", tt.entry.Text, tt.max, got, tt.want)
		}
	}
}

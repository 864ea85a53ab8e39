package dictionary

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestNextWordPrefersTrigram(t *testing.T) {
	d := New(3)
	d.Learn("how are you. how are you. how are things. we are here. we are here.")

	got, err := d.Complete(context.Background(), "So how are")
	assert.Equal(t, err, nil)
	assert.Equal(t, got, []string{"you", "things", "here"})
}

func TestNextWordBigramFallback(t *testing.T) {
	d := New(5)
	d.Learn("see you soon. see you later. see them soon.")

	got, _ := d.Complete(context.Background(), "please see")
	assert.Equal(t, got, []string{"you", "them"})
}

func TestCompletesPartialWord(t *testing.T) {
	d := New(5)
	d.Learn("hello hello help helmet. hello")

	got, _ := d.Complete(context.Background(), "he")
	assert.Equal(t, got, []string{"hello", "helmet", "help"})
}

func TestContextStopsAtSentenceBreak(t *testing.T) {
	d := New(5)
	d.Learn("good morning. morning coffee")

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"known word", "Good", []string{"morning"}},
		{"after break", "it is late. morning", []string{"coffee"}},
		{"trailing break", "good morning.", []string{}},
		{"empty", "   ", []string{}},
		{"unknown", "xyz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Complete(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Complete: %v", err)
			}
			assert.Equal(t, got, tt.want)
		})
	}
}

func TestCompleteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(0).Complete(ctx, "hi"); err == nil {
		t.Fatal("expected context error")
	}
}

func TestLearnReader(t *testing.T) {
	d := New(0)
	err := d.LearnReader(strings.NewReader("one two\nthree four\n"))
	assert.Equal(t, err, nil)
	assert.Equal(t, d.Words(), 4)

	// Lines are separate sentences.
	got, _ := d.Complete(context.Background(), "two")
	assert.Equal(t, got, []string{})
}

func TestBuiltinCorpus(t *testing.T) {
	d := Builtin(0)
	got, err := d.Complete(context.Background(), "how are")
	assert.Equal(t, err, nil)
	if len(got) == 0 || got[0] != "you" {
		t.Fatalf("got %v, want you first", got)
	}
}

func TestConcurrentLearnAndComplete(t *testing.T) {
	d := Builtin(0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			d.Learn("see you at the station")
		}()
		go func() {
			defer wg.Done()
			_, _ = d.Complete(context.Background(), "see you")
		}()
	}
	wg.Wait()
}

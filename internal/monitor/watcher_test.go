package monitor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Syed-Musa/talkup29/internal/config"
)

func TestWaitReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.DefaultConfig().Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	w, err := WatchConfig(path, nil)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	got := make(chan any, 1)
	go func() { got <- w.Wait()() }()

	cfg := config.DefaultConfig()
	cfg.SuggestDebounceMS = 300
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	select {
	case msg := <-got:
		rm, ok := msg.(ConfigReloadedMsg)
		if !ok {
			t.Fatalf("msg = %T, want ConfigReloadedMsg", msg)
		}
		if rm.Err != nil || rm.Config.SuggestDebounceMS != 300 {
			t.Fatalf("reload = %+v", rm)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWaitIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := config.DefaultConfig().Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	w, err := WatchConfig(path, nil)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	got := make(chan any, 1)
	go func() { got <- w.Wait()() }()

	os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0600)

	select {
	case msg := <-got:
		t.Fatalf("unexpected %T for sibling write", msg)
	case <-time.After(300 * time.Millisecond):
	}

	w.Close()
	select {
	case msg := <-got:
		if msg != nil {
			t.Fatalf("after close got %T, want nil", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Close")
	}
}

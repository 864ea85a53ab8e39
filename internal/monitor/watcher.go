// Package monitor watches the config file and feeds reloads into the
// Bubble Tea loop.
package monitor

import (
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/Syed-Musa/talkup29/internal/config"
	"github.com/Syed-Musa/talkup29/internal/logger"
)

const settle = 75 * time.Millisecond

// ConfigReloadedMsg carries a freshly loaded config, or the error that
// prevented loading it.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// Watcher reports writes to one config file. The parent directory is
// watched so editors that replace the file by rename are still seen.
type Watcher struct {
	path    string
	w       *fsnotify.Watcher
	changed chan struct{}
	done    chan struct{}
	once    sync.Once
	log     *log.Logger
}

func WatchConfig(path string, l *log.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	cw := &Watcher{
		path:    filepath.Clean(path),
		w:       w,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
		log:     logger.OrDiscard(l).WithPrefix("monitor"),
	}
	go cw.loop()
	return cw, nil
}

func (cw *Watcher) loop() {
	for {
		select {
		case ev, ok := <-cw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != cw.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			select {
			case cw.changed <- struct{}{}:
			default:
			}
		case err, ok := <-cw.w.Errors:
			if !ok {
				return
			}
			cw.log.Warn("watch error", "err", err)
		}
	}
}

// Wait blocks until the file changes, then reloads it. Re-issue after each
// message. Returns nil once the watcher is closed.
func (cw *Watcher) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-cw.changed:
		case <-cw.done:
			return nil
		}
		// Let a burst of writes from one save land before reading.
		select {
		case <-time.After(settle):
		case <-cw.done:
			return nil
		}
		select {
		case <-cw.changed:
		default:
		}
		cfg, err := config.Load(cw.path)
		if err != nil {
			cw.log.Warn("config reload failed", "err", err)
		}
		return ConfigReloadedMsg{Config: cfg, Err: err}
	}
}

func (cw *Watcher) Close() error {
	var err error
	cw.once.Do(func() {
		close(cw.done)
		err = cw.w.Close()
	})
	return err
}

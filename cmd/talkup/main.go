// cmd/talkup/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"

	"github.com/Syed-Musa/talkup29/internal/chat"
	"github.com/Syed-Musa/talkup29/internal/composer"
	"github.com/Syed-Musa/talkup29/internal/config"
	"github.com/Syed-Musa/talkup29/internal/history"
	"github.com/Syed-Musa/talkup29/internal/logger"
	"github.com/Syed-Musa/talkup29/internal/monitor"
	"github.com/Syed-Musa/talkup29/internal/oracle"
	"github.com/Syed-Musa/talkup29/internal/socket"
	"github.com/Syed-Musa/talkup29/internal/suggest"
	"github.com/Syed-Musa/talkup29/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "talkup: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	debug := flag.Bool("debug", false, "Enable debug logging to debug.log")
	configPath := flag.String("config", "", "Path to config.toml (default: XDG config dir)")
	token := flag.String("token", "", "Store a chat bearer token in the OS keyring and exit")
	flag.Parse()

	// Setup logging if debug enabled
	l := logger.Discard()
	var closers []io.Closer
	if *debug {
		fl, f, ferr := logger.ToFile("debug.log", "talkup")
		if ferr != nil {
			return fmt.Errorf("could not open debug log: %w", ferr)
		}
		l = fl
		closers = append(closers, f)
	}
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if cerr := closers[i].Close(); cerr != nil {
				err = multierror.Append(err, cerr)
			}
		}
	}()

	tokens, kerr := config.NewKeyringStore()
	if *token != "" {
		if kerr != nil {
			return fmt.Errorf("open keyring: %w", kerr)
		}
		if err := tokens.SetToken(*token); err != nil {
			return fmt.Errorf("store token: %w", err)
		}
		fmt.Println("token saved")
		return nil
	}

	path := *configPath
	if path == "" {
		p, perr := config.ConfigPath()
		if perr != nil {
			return perr
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ui.InitStyles(cfg.Theme)

	bearer := ""
	if kerr != nil {
		l.Warn("keyring unavailable, sending unauthenticated", "err", kerr)
	} else if t, terr := tokens.GetToken(); terr == nil {
		bearer = t
	} else if !errors.Is(terr, config.ErrNoToken) {
		l.Warn("reading token failed", "err", terr)
	}

	store, err := openHistory(cfg, l)
	if err == nil {
		closers = append(closers, store)
	}

	deps := composer.Deps{
		Oracle: oracle.New(cfg.OracleURL),
		Sender: chat.NewClient(cfg.ChatURL, cfg.ReceiverID, bearer),
		Logger: l,
	}
	var link ui.Link
	if cfg.SocketURL != "" {
		codec, cerr := socket.CodecByName(cfg.SocketCodec)
		if cerr != nil {
			return cerr
		}
		client := socket.Dial(context.Background(), cfg.SocketURL, codec, nil, l)
		closers = append(closers, client)
		deps.Push = suggest.OpenPush(client)
		deps.Presence = chat.NewPresence(client, cfg.ReceiverID)
		link = client
	}

	watcher, werr := monitor.WatchConfig(path, l)
	if werr != nil {
		l.Warn("config hot reload disabled", "err", werr)
		watcher = nil
	} else {
		closers = append(closers, watcher)
	}

	model := ui.New(ui.Options{
		Config:   cfg,
		Composer: composer.New(deps, cfg),
		History:  store,
		Watcher:  watcher,
		Link:     link,
		Logger:   l,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// openHistory opens the sent-message store. A failure only disables
// history.
func openHistory(cfg *config.Config, l *log.Logger) (*history.Store, error) {
	path, err := history.DefaultPath()
	if err == nil {
		var store *history.Store
		store, err = history.NewStore(path, cfg.HistoryLimit)
		if err == nil {
			return store, nil
		}
	}
	l.Warn("history disabled", "err", err)
	return nil, err
}

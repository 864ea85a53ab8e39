package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/docopt/docopt-go"
	"github.com/hashicorp/go-multierror"

	"github.com/Syed-Musa/talkup29/internal/dictionary"
	"github.com/Syed-Musa/talkup29/internal/logger"
	"github.com/Syed-Musa/talkup29/internal/server"
)

const OracleVersion = "0.1.0"

func main() {
	usage := `Reference completion oracle and chat sink for talkup.

Usage:
    talkup-oracle serve [--addr=<addr>] [--corpus=<file>] [--limit=<n>] [--log-level=<lvl>]
    talkup-oracle -h | --help
    talkup-oracle --version

Options:
    -h --help            Show this screen.
    --version            Show version.
    --addr=<addr>        Listen address [default: :8090].
    --corpus=<file>      Train on this text file instead of the bundled corpus.
    --limit=<n>          Maximum suggestions per answer [default: 5].
    --log-level=<lvl>    debug, info, warn or error [default: info].`

	opts, err := docopt.ParseArgs(usage, os.Args[1:], OracleVersion)
	if err != nil {
		panic(err)
	}

	if serve_, _ := opts.Bool("serve"); serve_ {
		if err := serve(opts); err != nil {
			log.Error("oracle stopped", "err", err)
			os.Exit(1)
		}
	}
}

func serve(opts docopt.Opts) error {
	levelName, _ := opts.String("--log-level")
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return err
	}
	l := logger.New(os.Stderr, "oracle", level)

	limit, err := opts.Int("--limit")
	if err != nil {
		return err
	}
	dict := dictionary.Builtin(limit)
	if corpus, _ := opts.String("--corpus"); corpus != "" {
		dict = dictionary.New(limit)
		if err := dict.LoadFile(corpus); err != nil {
			return err
		}
	}
	l.Info("dictionary ready", "words", dict.Words())

	addr, _ := opts.String("--addr")
	s := server.New(dict, l)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		l.Info("listening", "addr", addr)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	l.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result error
	if err := s.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		result = multierror.Append(result, err)
	}
	return result
}

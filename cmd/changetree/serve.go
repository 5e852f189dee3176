package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vango-dev/changetree/internal/config"
	"github.com/vango-dev/changetree/internal/errors"
	"github.com/vango-dev/changetree/internal/stream"
)

type serveOptions struct {
	host        string
	port        int
	journalPath string
}

func serveCmd(g *globals) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream changes of a live order over websocket",
		Long: `Start an HTTP server holding a sample order and its listener tree.

Endpoints:
  GET  /events      websocket stream of change records
  POST /mutations   apply {"op": "...", "args": {...}}
  GET  /tree        listener tree as JSON
  GET  /ops         available operations
  GET  /metrics     Prometheus metrics
  GET  /healthz     health check

Examples:
  changetree serve
  changetree serve --port=8080 --journal events.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if opts.port > 0 {
				cfg.Serve.Port = opts.port
			}
			if opts.host != "" {
				cfg.Serve.Host = opts.host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cfg, opts, g.debug || cfg.Debug)
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to run on (default from changetree.json)")
	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "Host to bind to (default from changetree.json)")
	cmd.Flags().StringVarP(&opts.journalPath, "journal", "j", "", "Also write records to a file or s3://bucket/key")

	return cmd
}

func runServe(cfg *config.Config, opts serveOptions, debug bool) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	j, err := openJournal(cfg, opts.journalPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeJournal(context.Background(), j); cerr != nil && err == nil {
			err = cerr
		}
	}()

	sopts := stream.Options{
		Name:            cfg.Name,
		Addr:            cfg.Address(),
		EventsPath:      cfg.Serve.EventsPath,
		MetricsPath:     cfg.Serve.MetricsPath,
		ShutdownTimeout: cfg.ShutdownTimeout(),
		AccessLog:       debug,
		Logger:          slog.Default(),
	}
	if j != nil {
		sopts.Journal = j
	}

	s, err := stream.New(sopts)
	if err != nil {
		return errors.New("E400").Wrap(err)
	}

	printBanner()
	fmt.Println("  serve")
	fmt.Println()
	success("Listening on http://%s", cfg.Address())
	info("events:  ws://%s%s", cfg.Address(), cfg.Serve.EventsPath)
	info("metrics: http://%s%s", cfg.Address(), cfg.Serve.MetricsPath)
	if j != nil {
		info("journal: %s", j.Location())
	}
	fmt.Println()

	if err := s.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return errors.New("E301").Wrap(err)
		}
		return errors.New("E300").Wrap(err)
	}

	fmt.Println("\n  Shutting down...")
	if n := s.Recorder().Count(); n > 0 {
		success("%d records streamed", n)
	} else {
		warn("no mutations were received")
	}
	return nil
}

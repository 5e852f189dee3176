package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vango-dev/changetree/internal/config"
	"github.com/vango-dev/changetree/internal/demo"
	"github.com/vango-dev/changetree/internal/errors"
	"github.com/vango-dev/changetree/internal/journal"
	"github.com/vango-dev/changetree/pkg/changetree"
)

type demoOptions struct {
	name        string
	asJSON      bool
	journalPath string
	showTree    bool
}

func demoCmd(g *globals) *cobra.Command {
	var opts demoOptions

	cmd := &cobra.Command{
		Use:   "demo [op...]",
		Short: "Run a scripted scenario against a sample order",
		Long: `Attach a listener tree to a sample order, mutate the order and print
every change the root listener reports.

Without arguments the built-in scenario runs. Otherwise each argument
names one operation, applied with its default arguments.

Operations:
` + opsHelp() + `
Examples:
  changetree demo
  changetree demo add-item swap-items clear-items
  changetree demo --json --journal events.jsonl
  changetree demo --journal s3://my-bucket/changetree/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if opts.name == "" {
				opts.name = cfg.Name
			}
			return runDemo(cmd.Context(), cfg, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Root listener name (default from changetree.json)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print records as JSON lines")
	cmd.Flags().StringVarP(&opts.journalPath, "journal", "j", "", "Also write records to a file, - or s3://bucket/key")
	cmd.Flags().BoolVarP(&opts.showTree, "tree", "t", false, "Print the listener tree after the run")

	return cmd
}

func opsHelp() string {
	var b strings.Builder
	for _, op := range demo.Ops() {
		fmt.Fprintf(&b, "  %-18s %s\n", op.Name, op.Help)
	}
	return b.String()
}

func runDemo(ctx context.Context, cfg *config.Config, opts demoOptions, args []string) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	steps := demo.Scenario()
	if len(args) > 0 {
		steps = make([]demo.Step, len(args))
		for i, a := range args {
			steps[i] = demo.Step{Op: a}
		}
	}

	order := demo.NewSampleOrder()
	l, err := changetree.New(order, changetree.WithName(opts.name), changetree.WithContext(ctx))
	if err != nil {
		return errors.New("E400").Wrap(err)
	}
	defer l.Dispose()

	j, err := openJournal(cfg, opts.journalPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeJournal(ctx, j); cerr != nil && err == nil {
			err = cerr
		}
	}()

	sinks := journal.MultiSink{printer(opts.asJSON)}
	if j != nil {
		sinks = append(sinks, j)
	}
	rec := journal.NewRecorder(l, sinks, journal.WithLogger(slog.Default()))

	if !opts.asJSON {
		printBanner()
		info("watching %s (%d listeners)", opts.name, demo.Describe(l).Count())
		fmt.Println()
	}

	runErr := demo.Run(order, steps, func(i int, s demo.Step) {
		if !opts.asJSON {
			fmt.Printf("\033[36m▸\033[0m %s\n", s)
		}
	})
	if err := rec.Close(); err != nil {
		return errors.New("E201").Wrap(err)
	}
	if runErr != nil {
		if stderrors.Is(runErr, demo.ErrUnknownOp) {
			return errors.New("E402").Wrap(runErr)
		}
		return errors.New("E401").Wrap(runErr)
	}

	if opts.asJSON {
		return nil
	}

	fmt.Println()
	success("%d steps, %d records", len(steps), rec.Count())
	if j != nil {
		info("journal: %s", j.Location())
	}
	if opts.showTree {
		fmt.Println()
		demo.Render(os.Stdout, demo.Describe(l))
	}
	return nil
}

// printer writes records to stdout, as JSON lines or as one indented line
// per event.
func printer(asJSON bool) journal.Sink {
	if asJSON {
		return journal.NewWriterSink(os.Stdout)
	}
	return journal.SinkFunc(func(r journal.Record) error {
		switch r.Kind {
		case journal.KindProperty:
			fmt.Printf("    %s\n", r.Path)
		default:
			fmt.Printf("    [%s] +%d -%d size %d\n", r.Action, len(r.Added), len(r.Removed), r.Size)
		}
		return nil
	})
}

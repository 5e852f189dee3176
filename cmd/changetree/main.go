package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/changetree/internal/config"
	"github.com/vango-dev/changetree/internal/errors"
	"github.com/vango-dev/changetree/pkg/changetree"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┬ ┬┌─┐┌┐┌┌─┐┌─┐┌┬┐┬─┐┌─┐┌─┐
  │  ├─┤├─┤││││ ┬├┤  │ ├┬┘├┤ ├┤
  └─┘┴ ┴┴ ┴┘└┘└─┘└─┘ ┴ ┴└─└─┘└─┘
`

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath string
	debug      bool
}

func main() {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "changetree",
		Short: "Watch an object graph for changes at any depth",
		Long: `changetree mirrors an object graph with a tree of listeners and
reports every change below the root with its full path, such as
Order.Items[].Quantity.

Commands:
  • demo   run a scripted scenario against a sample order
  • serve  stream changes over websocket and accept mutations
  • tree   print the listener tree of the sample order
  • init   write a default changetree.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Path to changetree.json (default ./changetree.json if present)")
	rootCmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "Log listener diagnostics to stderr")

	rootCmd.AddCommand(
		demoCmd(g),
		serveCmd(g),
		treeCmd(g),
		initCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

// load reads the configuration and sets up logging for it.
func (g *globals) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		cfg, err = config.LoadOrDefault(".")
	}
	if err != nil {
		return nil, err
	}

	setupLogging(g.debug || cfg.Debug)
	return cfg, nil
}

// setupLogging installs the default logger. Debug mode also turns on the
// listener trace lines.
func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	changetree.SetLogger(logger)
	changetree.SetDebugTracing(debug)
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

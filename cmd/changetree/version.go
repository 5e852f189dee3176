package main

import (
	"fmt"
	"runtime"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/vango-dev/changetree/internal/demo"
	"github.com/vango-dev/changetree/internal/errors"
)

// buildInfo is what `changetree version` reports.
type buildInfo struct {
	Version    string   `json:"version"`
	Commit     string   `json:"commit"`
	Date       string   `json:"date"`
	Go         string   `json:"go"`
	Operations int      `json:"operations"`
	ErrorCodes int      `json:"errorCodes"`
	Journals   []string `json:"journals"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Version:    version,
		Commit:     commit,
		Date:       date,
		Go:         runtime.Version(),
		Operations: len(demo.Ops()),
		ErrorCodes: len(errors.GetAllCodes()),
		Journals:   []string{"file", "stdout (-)", "s3://bucket/key", "s3://bucket/prefix/"},
	}
}

func versionCmd() *cobra.Command {
	var (
		short  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version and build of the changetree CLI, with what it supports.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := currentBuild()
			switch {
			case short:
				fmt.Println(b.Version)
			case asJSON:
				data, err := jsoniter.ConfigFastest.Marshal(b)
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			default:
				printBanner()
				printBuild(b)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print build information as JSON")

	return cmd
}

func printBuild(b buildInfo) {
	fmt.Println()
	fmt.Printf("  Version:     %s (%s, %s)\n", b.Version, b.Commit, b.Date)
	fmt.Printf("  Go version:  %s\n", b.Go)
	fmt.Printf("  Operations:  %d demo mutations\n", b.Operations)
	fmt.Printf("  Error codes: %d\n", b.ErrorCodes)
	fmt.Println("  Journals:")
	for _, j := range b.Journals {
		info("  %s", j)
	}
	fmt.Println()
}

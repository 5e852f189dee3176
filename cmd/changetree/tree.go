package main

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/vango-dev/changetree/internal/demo"
	"github.com/vango-dev/changetree/internal/errors"
	"github.com/vango-dev/changetree/pkg/changetree"
)

func treeCmd(g *globals) *cobra.Command {
	var (
		name   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the listener tree of the sample order",
		Long: `Build the listener tree over the sample order and print its shape.

Examples:
  changetree tree
  changetree tree --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if name == "" {
				name = cfg.Name
			}
			return runTree(name, asJSON)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Root listener name (default from changetree.json)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tree as JSON")

	return cmd
}

func runTree(name string, asJSON bool) error {
	l, err := changetree.New(demo.NewSampleOrder(), changetree.WithName(name))
	if err != nil {
		return errors.New("E400").Wrap(err)
	}
	defer l.Dispose()

	node := demo.Describe(l)
	if asJSON {
		data, err := jsoniter.ConfigFastest.MarshalIndent(node, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	demo.Render(os.Stdout, node)
	fmt.Println()
	info("%d listeners", node.Count())
	return nil
}

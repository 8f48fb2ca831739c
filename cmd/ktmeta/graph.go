package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ktmeta/internal/classgraph"
	"ktmeta/internal/output"
	"ktmeta/pkg/nullability"
)

func newGraphCmd(a *app) *cobra.Command {
	var metaPath, outDir string
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Write a DOT graph of a class's functions and return types",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				return fmt.Errorf("--out is required")
			}
			h, err := loadHeader(metaPath)
			if err != nil {
				return err
			}
			fns, err := a.oracle().Functions(h.Class, nullability.FromHeader(h))
			if err != nil {
				return err
			}

			dot, g := classgraph.DOT(h.Class, fns)
			path, err := output.WriteText(outDir, "class.dot", dot)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d nodes, %d edges)\n", path, len(g.Nodes), len(g.Edges))
			return nil
		},
	}
	cmd.Flags().StringVar(&metaPath, "meta", "", "metadata JSON file")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory")
	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ktmeta/internal/config"
)

// app carries the global flags and the state built from them before any
// subcommand runs.
type app struct {
	configFile string
	verbose    bool
	noColor    bool

	cfg *config.Config
	log *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "ktmeta",
		Short: "Kotlin class metadata decoder",
		Long: `ktmeta decodes the metadata annotation the Kotlin compiler embeds in class
files and answers whether a method's declared return type is nullable.

The annotation is read from a JSON file with the fields
  {"class", "kind", "version", "extra_int", "data1", "data2"}`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default ./ktmeta.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log decode activity to stderr")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newDumpCmd(a))
	root.AddCommand(newGraphCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Verbose = true
	}
	if a.noColor {
		cfg.Color = false
	}
	a.cfg = cfg

	if !cfg.Color {
		color.NoColor = true
	}

	a.log = zap.NewNop()
	if cfg.Verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		a.log = l
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ktmeta/internal/classgraph"
	"ktmeta/internal/jvm"
	"ktmeta/internal/output"
	"ktmeta/pkg/nullability"
)

type checkResult struct {
	Method     string `json:"method"`
	Descriptor string `json:"descriptor"`
	Nullable   bool   `json:"nullable"`
	Unit       bool   `json:"unit,omitempty"`
	Returns    string `json:"returns,omitempty"`
	Error      string `json:"error,omitempty"`
}

type checkReport struct {
	Class   string        `json:"class"`
	Results []checkResult `json:"results"`
}

func newCheckCmd(a *app) *cobra.Command {
	var (
		metaPath  string
		methods   []string
		classPath string
		jsonOut   bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report whether methods return a nullable or Unit type",
		Long: `Match methods against the functions recorded in class metadata and report
whether each declared return type admits an absent value.

Methods are given as JVM signatures or read from a compiled class file:
  ktmeta check --meta Api.json --method 'user(ILkotlin/coroutines/Continuation;)Ljava/lang/Object;'
  ktmeta check --meta Api.json --class Api.class`,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := loadHeader(metaPath)
			if err != nil {
				return err
			}

			var targets []jvm.Method
			for _, sig := range methods {
				m, err := jvm.ParseSignature(sig)
				if err != nil {
					return err
				}
				targets = append(targets, m)
			}
			if classPath != "" {
				cm, err := readClassFile(classPath)
				if err != nil {
					return err
				}
				for _, m := range cm.Methods {
					if m.Bridge {
						continue
					}
					targets = append(targets, m.Method)
				}
			}
			if len(targets) == 0 {
				return fmt.Errorf("no methods to check: pass --method or --class")
			}

			// Metadata is decoded by the first lookup and served from the
			// oracle's cache for the rest. Only match failures are per method.
			o := a.oracle()
			md := nullability.FromHeader(h)
			report := checkReport{Class: h.Class}
			failed := 0
			for _, m := range targets {
				r := checkResult{Method: m.String(), Descriptor: m.Descriptor()}
				fn, err := o.Lookup(nullability.Query{Class: h.Class, Metadata: md, Method: m})
				var me *nullability.MatchError
				switch {
				case errors.As(err, &me):
					r.Error = err.Error()
					failed++
				case err != nil:
					return err
				default:
					r.Nullable = fn.NullableOrUnit()
					r.Unit = fn.ReturnType.Unit
					r.Returns = classgraph.ReturnLabel(fn)
				}
				report.Results = append(report.Results, r)
			}

			w := cmd.OutOrStdout()
			if jsonOut {
				if err := output.JSON(w, report); err != nil {
					return err
				}
			} else {
				printCheck(cmd, report)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d methods could not be matched", failed, len(targets))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&metaPath, "meta", "", "metadata JSON file")
	cmd.Flags().StringArrayVar(&methods, "method", nil, "JVM method signature name(desc)ret (repeatable)")
	cmd.Flags().StringVar(&classPath, "class", "", "compiled class file whose methods to check")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "write results as JSON")
	return cmd
}

func readClassFile(path string) (*jvm.ClassMethods, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return jvm.ReadClassMethods(f)
}

func printCheck(cmd *cobra.Command, report checkReport) {
	w := cmd.OutOrStdout()
	titleColor := color.New(color.FgCyan, color.Bold)
	nullColor := color.New(color.FgYellow)
	okColor := color.New(color.FgGreen)
	errorColor := color.New(color.FgRed, color.Bold)

	titleColor.Fprintf(w, "%s\n", report.Class)
	for _, r := range report.Results {
		fmt.Fprintf(w, "  %s\n", r.Descriptor)
		switch {
		case r.Error != "":
			errorColor.Fprintf(w, "    error: %s\n", r.Error)
		case r.Unit:
			nullColor.Fprintf(w, "    nullable (Unit)\n")
		case r.Nullable:
			nullColor.Fprintf(w, "    nullable (%s)\n", r.Returns)
		default:
			okColor.Fprintf(w, "    non-null (%s)\n", r.Returns)
		}
	}
}

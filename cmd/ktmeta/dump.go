package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ktmeta/internal/classgraph"
	"ktmeta/internal/diag"
	"ktmeta/internal/header"
	"ktmeta/internal/output"
	"ktmeta/internal/schema"
	"ktmeta/internal/strtab"
)

type dumpString struct {
	Index  int            `json:"index"`
	Value  string         `json:"value,omitempty"`
	Error  string         `json:"error,omitempty"`
	Record *strtab.Record `json:"record"`
}

type dumpReport struct {
	Class     string            `json:"class"`
	Kind      string            `json:"kind"`
	Version   header.Version    `json:"version"`
	Strict    bool              `json:"strict"`
	Bytes     int               `json:"payload_bytes"`
	Records   []*strtab.Record  `json:"records"`
	Strings   []dumpString      `json:"strings"`
	Functions []schema.Function `json:"functions"`
	Diags     []diag.Diag       `json:"diags,omitempty"`
}

func newDumpCmd(a *app) *cobra.Command {
	var (
		metaPath string
		jsonOut  bool
	)
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the decoded string table and functions of class metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := loadHeader(metaPath)
			if err != nil {
				return err
			}
			report, err := a.dump(h)
			if err != nil {
				return err
			}
			if jsonOut {
				return output.JSON(cmd.OutOrStdout(), report)
			}
			printDump(cmd, report)
			return nil
		},
	}
	cmd.Flags().StringVar(&metaPath, "meta", "", "metadata JSON file")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "write the dump as JSON")
	return cmd
}

func (a *app) dump(h *header.Header) (*dumpReport, error) {
	start := time.Now()
	payload, err := h.Payload(a.cfg.BaselineVersion())
	if err != nil {
		return nil, fmt.Errorf("metadata of %s: %w", h.Class, err)
	}

	var diags diag.Diags
	dec, err := schema.Decode(payload, h.Data2, schema.Options{MaxStrings: a.cfg.MaxStrings, Diags: &diags})
	if err != nil {
		return nil, fmt.Errorf("metadata of %s: %w", h.Class, err)
	}

	report := &dumpReport{
		Class:     h.Class,
		Kind:      h.Kind.String(),
		Version:   h.MetadataVersion(),
		Strict:    h.Strict(),
		Bytes:     len(payload),
		Records:   dec.Strings.Records(),
		Functions: dec.Class.Functions,
		Diags:     diags.Items(),
	}
	for i := 0; i < dec.Strings.Len(); i++ {
		rec, _ := dec.Strings.Slot(i)
		s := dumpString{Index: i, Record: rec}
		if v, err := dec.Strings.Resolve(int32(i)); err != nil {
			s.Error = err.Error()
		} else {
			s.Value = v
		}
		report.Strings = append(report.Strings, s)
	}

	a.log.Debug("dumped class metadata",
		zap.String("class", h.Class),
		zap.Int("strings", len(report.Strings)),
		zap.Int("functions", len(report.Functions)),
		zap.Int("diags", len(report.Diags)),
		zap.Duration("took", time.Since(start)))
	return report, nil
}

func printDump(cmd *cobra.Command, r *dumpReport) {
	w := cmd.OutOrStdout()
	titleColor := color.New(color.FgCyan, color.Bold)
	infoColor := color.New(color.FgWhite)
	warningColor := color.New(color.FgYellow)
	errorColor := color.New(color.FgRed)

	titleColor.Fprintf(w, "%s\n", r.Class)
	infoColor.Fprintf(w, "  kind=%s version=%s strict=%v payload=%d bytes\n", r.Kind, r.Version, r.Strict, r.Bytes)

	titleColor.Fprintf(w, "\nstrings (%d slots from %d records)\n", len(r.Strings), len(r.Records))
	for _, s := range r.Strings {
		if s.Error != "" {
			errorColor.Fprintf(w, "  %4d  error: %s\n", s.Index, s.Error)
			continue
		}
		fmt.Fprintf(w, "  %4d  %q\n", s.Index, s.Value)
	}

	titleColor.Fprintf(w, "\nfunctions (%d)\n", len(r.Functions))
	for i := range r.Functions {
		fn := &r.Functions[i]
		fmt.Fprintf(w, "  %s -> %s\n", classgraph.FunctionLabel(fn), classgraph.ReturnLabel(fn))
	}

	if len(r.Diags) > 0 {
		warningColor.Fprintf(w, "\ndiagnostics (%d)\n", len(r.Diags))
		for _, d := range r.Diags {
			warningColor.Fprintf(w, "  %s\n", d)
		}
	}
}

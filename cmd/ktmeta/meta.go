package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"ktmeta/internal/header"
	"ktmeta/internal/output"
	"ktmeta/pkg/nullability"
)

// loadHeader reads a metadata annotation from a JSON file. A header without
// a class name is named after the file.
func loadHeader(path string) (*header.Header, error) {
	if path == "" {
		return nil, fmt.Errorf("--meta is required")
	}
	var h header.Header
	if err := output.ReadJSON(path, &h); err != nil {
		return nil, err
	}
	if h.Class == "" {
		h.Class = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &h, nil
}

func (a *app) oracle() *nullability.Oracle {
	return nullability.New(nullability.Options{
		Baseline:   a.cfg.BaselineVersion(),
		MaxStrings: a.cfg.MaxStrings,
		Logger:     a.log,
	})
}

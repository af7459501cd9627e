package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tabula/internal/config"
	"tabula/internal/errs"
	"tabula/internal/exec"
	csvio "tabula/internal/io/csv"
	htmlio "tabula/internal/io/html"
	jsonio "tabula/internal/io/json"
	"tabula/internal/logger"
)

var version = "0.1.0"

type app struct {
	configPath string
	logLevel   string
	separator  string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}
	root := &cobra.Command{
		Use:           "tabula",
		Short:         "Inspect and transform tabular text files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.separator, "sep", "", "CSV field separator, overrides the configuration")

	root.AddCommand(
		a.infoCmd(),
		a.describeCmd(),
		a.headCmd(),
		a.tailCmd(),
		a.statsCmd(),
		a.queryCmd(),
		a.sortCmd(),
		a.convertCmd(),
	)
	return root
}

func (a *app) setup() error {
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if a.separator != "" {
		a.cfg.CSV.Separator = a.separator
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	return logger.Init(a.cfg.Logger())
}

type format uint8

const (
	formatCSV format = iota
	formatJSON
	formatHTML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return formatCSV, nil
	case ".json":
		return formatJSON, nil
	case ".html", ".htm":
		return formatHTML, nil
	default:
		return 0, errs.Newf(errs.KindArgument, "format", "unsupported file extension %q", filepath.Ext(path))
	}
}

func (a *app) csvOptions(path string) csvio.Options {
	opts := a.cfg.CSVOptions()
	if strings.EqualFold(filepath.Ext(path), ".tsv") && a.separator == "" {
		opts.Delimiter = '\t'
	}
	return opts
}

func (a *app) load(ctx context.Context, path string) (*exec.Table, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	var t *exec.Table
	switch f {
	case formatCSV:
		t, err = csvio.Read(ctx, path, a.csvOptions(path))
	case formatJSON:
		t, err = jsonio.Read(ctx, path)
	default:
		return nil, errs.Newf(errs.KindArgument, "load", "cannot read %s", path)
	}
	if err != nil {
		return nil, err
	}
	rows, cols := t.Shape()
	logger.Info("loaded table", zap.String("path", path), zap.Int("rows", rows), zap.Int("columns", cols))
	return t, nil
}

func (a *app) save(path string, t *exec.Table) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}
	switch f {
	case formatCSV:
		return csvio.WriteFile(path, t, a.csvOptions(path))
	case formatJSON:
		return jsonio.WriteFile(path, t, a.cfg.JSONOptions())
	default:
		return htmlio.WriteFile(path, t, htmlio.Options{})
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tabula/internal/array"
	"tabula/internal/exec"
	"tabula/internal/print"
)

func (a *app) infoCmd() *cobra.Command {
	var memory bool
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Show columns, types and null counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, print.Info(t))
			if memory {
				fmt.Fprint(out, print.MemoryUsage(t))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&memory, "memory", false, "Also show per-column memory usage")
	return cmd
}

func (a *app) describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <file>",
		Short: "Summarize the numeric columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), print.Describe(t, a.cfg.TableOptions()))
			return nil
		},
	}
}

func (a *app) headCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "head <file>",
		Short: "Show the first rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.preview(cmd, t.Head(n))
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "rows", "n", 5, "Number of rows")
	return cmd
}

func (a *app) tailCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "tail <file>",
		Short: "Show the last rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.preview(cmd, t.Tail(n))
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "rows", "n", 5, "Number of rows")
	return cmd
}

// preview shows every row of t; callers slice it first.
func (a *app) preview(cmd *cobra.Command, t *exec.Table) {
	opts := a.cfg.TableOptions()
	opts.Head, opts.Tail = t.RowCount(), 0
	fmt.Fprint(cmd.OutOrStdout(), print.Table(t, opts))
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file> <column>",
		Short: "Show statistics of one column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			col := args[1]
			typ, err := t.ColumnType(col)
			if err != nil {
				return err
			}
			count, _ := t.Count(col)
			nulls, _ := t.NullRows(col)
			unique, _ := t.NUnique(col)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "column: %s\ntype: %s\ncount: %d\nnulls: %d\nunique: %d\n", col, typ, count, len(nulls), unique)
			if mode, err := t.Mode(col); err == nil {
				fmt.Fprintf(out, "mode: %s\n", mode)
			}
			if !typ.Numeric() {
				return nil
			}
			stats := []struct {
				name string
				fn   func(string) (float64, error)
			}{
				{"mean", t.Mean},
				{"std", t.StdDev},
				{"min", t.Min},
				{"median", t.Median},
				{"max", t.Max},
				{"sum", t.Sum},
			}
			for _, s := range stats {
				v, err := s.fn(col)
				if err != nil {
					fmt.Fprintf(out, "%s: n/a\n", s.name)
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", s.name, array.FormatFloat(v))
			}
			return nil
		},
	}
}

func (a *app) queryCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "query <file> <expression>",
		Short: "Keep the rows matching an expression such as 'age >= 30 and city == Oslo'",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, err := t.Query(args[1])
			if err != nil {
				return err
			}
			return a.emit(cmd, out, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to this file instead of printing it")
	return cmd
}

func (a *app) sortCmd() *cobra.Command {
	var (
		by     []string
		desc   bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "sort <file>",
		Short: "Sort rows by one or more columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, err := t.SortValues(by, []bool{!desc})
			if err != nil {
				return err
			}
			return a.emit(cmd, out, output)
		},
	}
	cmd.Flags().StringSliceVar(&by, "by", nil, "Columns to sort by, in priority order")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to this file instead of printing it")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func (a *app) convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert between CSV, JSON and HTML by file extension",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.save(args[1], t); err != nil {
				return err
			}
			rows, cols := t.Shape()
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d rows, %d columns)\n", args[1], rows, cols)
			return nil
		},
	}
}

func (a *app) emit(cmd *cobra.Command, t *exec.Table, output string) error {
	if output != "" {
		return a.save(output, t)
	}
	fmt.Fprint(cmd.OutOrStdout(), print.Table(t, a.cfg.TableOptions()))
	return nil
}

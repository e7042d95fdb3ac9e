package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/javajack/xlsheet"
	"github.com/spf13/cobra"
	"go.alis.build/alog"
	"golang.org/x/text/language"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Describe the sheets of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := xlsheet.OpenWorkbook(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), xlsheet.Describe(wb))
			return nil
		},
	}
}

func newAddrCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "addr ADDRESS...",
		Short: "Decode cell addresses and ranges",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				fmt.Fprintln(cmd.OutOrStdout(), describeAddress(a))
			}
			return nil
		},
	}
}

// describeAddress explains a single address or a range in one line.
func describeAddress(s string) string {
	if strings.Contains(s, ":") {
		rng := xlsheet.ParseRange(s)
		if !rng.Start.Valid() || !rng.End.Valid() {
			return fmt.Sprintf("%s: invalid range", s)
		}
		return fmt.Sprintf("%s: %s %s", s, rng, rng.Size())
	}
	a := xlsheet.ParseAddress(s)
	if !a.Valid() {
		return fmt.Sprintf("%s: invalid address", s)
	}
	return fmt.Sprintf("%s: row=%d col=%d canonical=%s", s, a.Row, a.Col, a)
}

// jobFlags are shared by the filter, sort and pivot commands.
type jobFlags struct {
	job    string
	sheet  string
	out    string
	header bool
}

func (f *jobFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.job, "job", "j", "", "YAML job file")
	cmd.Flags().StringVarP(&f.sheet, "sheet", "s", "", "Sheet name (overrides the job; default: active sheet)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Write the result to this xlsx file")
	cmd.Flags().BoolVar(&f.header, "header", false, "Treat the first row of the range as a header")
}

func (f *jobFlags) load() (*Job, error) {
	job := &Job{}
	if f.job != "" {
		var err error
		if job, err = LoadJob(f.job); err != nil {
			return nil, err
		}
	}
	if f.header {
		job.Header = true
	}
	if f.sheet != "" {
		job.Sheet = f.sheet
	}
	return job, nil
}

func newFilterCommand() *cobra.Command {
	var flags jobFlags
	cmd := &cobra.Command{
		Use:   "filter FILE",
		Short: "Keep the rows matching a job's filters, then apply its sorts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := flags.load()
			if err != nil {
				return err
			}
			if len(job.Filters) == 0 {
				return fmt.Errorf("job has no filters")
			}
			return runView(cmd.Context(), cmd.OutOrStdout(), args[0], job, flags.out)
		},
	}
	flags.register(cmd)
	cmd.MarkFlagRequired("job")
	return cmd
}

func newSortCommand() *cobra.Command {
	var (
		flags jobFlags
		by    []string
	)
	cmd := &cobra.Command{
		Use:   "sort FILE",
		Short: "Order rows by a job's sorts or by --by keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := flags.load()
			if err != nil {
				return err
			}
			job.Filters = nil
			for _, key := range by {
				sc, err := parseSortKey(key)
				if err != nil {
					return err
				}
				job.Sorts = append(job.Sorts, jobSort{Column: column(sc.Column), Direction: string(sc.Direction)})
			}
			if len(job.Sorts) == 0 {
				return fmt.Errorf("nothing to sort by: pass --job or --by")
			}
			return runView(cmd.Context(), cmd.OutOrStdout(), args[0], job, flags.out)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringArrayVar(&by, "by", nil, `Sort key such as "C", "C:desc" or "2:asc"; repeatable`)
	return cmd
}

func newPivotCommand() *cobra.Command {
	var flags jobFlags
	cmd := &cobra.Command{
		Use:   "pivot FILE",
		Short: "Build the pivot table described by a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := flags.load()
			if err != nil {
				return err
			}
			if job.Pivot == nil {
				return fmt.Errorf("job has no pivot section")
			}
			return runPivot(cmd.Context(), cmd.OutOrStdout(), args[0], job, flags.out)
		},
	}
	flags.register(cmd)
	cmd.MarkFlagRequired("job")
	return cmd
}

// dataset is the part of a sheet a job works on.
type dataset struct {
	source  *xlsheet.Sheet
	rng     xlsheet.Range // data rows only, header excluded
	headers []string
}

func openDataset(path string, job *Job) (*dataset, error) {
	wb, err := xlsheet.OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	s := wb.ActiveSheet()
	if job.Sheet != "" {
		var ok bool
		if s, ok = wb.SheetByName(job.Sheet); !ok {
			return nil, fmt.Errorf("%s: no sheet named %q", path, job.Sheet)
		}
	}
	return newDataset(s, job), nil
}

func newDataset(s *xlsheet.Sheet, job *Job) *dataset {
	rng := usedRange(s)
	if job.Range != "" {
		rng = xlsheet.ParseRange(job.Range)
	}
	d := &dataset{source: s, rng: rng}
	if job.Header {
		top := xlsheet.NewRange(rng.Start, xlsheet.NewCellAddress(rng.Start.Row, rng.End.Col))
		for _, line := range xlsheet.Extract(s, top) {
			for _, v := range line {
				d.headers = append(d.headers, xlsheet.ToText(v))
			}
		}
		d.rng.Start.Row++
	} else {
		for c := rng.Start.Col; c <= rng.End.Col; c++ {
			d.headers = append(d.headers, xlsheet.ColToName(c))
		}
	}
	return d
}

func usedRange(s *xlsheet.Sheet) xlsheet.Range {
	end := xlsheet.NewCellAddress(max(s.Dims.Rows-1, 0), max(s.Dims.Cols-1, 0))
	return xlsheet.NewRange(xlsheet.NewCellAddress(0, 0), end)
}

// rows returns the data rows of the dataset as a standalone sheet.
func (d *dataset) rows() *xlsheet.Sheet {
	return xlsheet.SheetFromValues(d.source.Name, xlsheet.Extract(d.source, d.rng))
}

func runView(ctx context.Context, w io.Writer, path string, job *Job, out string) error {
	d, err := openDataset(path, job)
	if err != nil {
		return err
	}
	tag := language.Und
	if job.Locale != "" {
		if tag, err = language.Parse(job.Locale); err != nil {
			return fmt.Errorf("locale %q: %w", job.Locale, err)
		}
	}
	data := d.rows()
	res := xlsheet.ApplyFilters(data.Grid, job.FilterConditions())
	sorted := xlsheet.SortRowsLocale(res.Retained, job.SortConditions(), tag)
	alog.Debugf(ctx, "%s %s: %d rows kept, %d hidden", path, d.rng, len(sorted), len(res.Hidden))

	result := &xlsheet.Sheet{Name: data.Name, Grid: sorted}
	result.Recompute()
	fmt.Fprintln(w, renderSheet(d.headers, result))
	if out == "" {
		return nil
	}
	if job.Header {
		result.InsertRow(0)
		for i, h := range d.headers {
			result.SetValue(0, i, h)
		}
	}
	return saveSheet(ctx, out, result)
}

func runPivot(ctx context.Context, w io.Writer, path string, job *Job, out string) error {
	d, err := openDataset(path, job)
	if err != nil {
		return err
	}
	pt := xlsheet.GeneratePivot(d.source, job.PivotConfig(d.rng))
	alog.Debugf(ctx, "%s", xlsheet.DescribePivot(pt))
	fmt.Fprintln(w, renderPivot(pt))
	if out == "" {
		return nil
	}
	grid := make([][]any, len(pt.Grid))
	for i, line := range pt.Grid {
		grid[i] = make([]any, len(line))
		for j, v := range line {
			grid[i][j] = v
		}
	}
	for i, vals := range pt.Values {
		for j, v := range vals {
			grid[i+1][j+1] = v
		}
	}
	for j, v := range pt.Totals {
		grid[len(grid)-1][j+1] = v
	}
	return saveSheet(ctx, out, xlsheet.SheetFromValues("Pivot", grid))
}

func saveSheet(ctx context.Context, path string, s *xlsheet.Sheet) error {
	wb := &xlsheet.Workbook{Name: path, Sheets: []*xlsheet.Sheet{s}}
	if err := wb.SaveAs(path); err != nil {
		return err
	}
	alog.Infof(ctx, "wrote %s", path)
	return nil
}

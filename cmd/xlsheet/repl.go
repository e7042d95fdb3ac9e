package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/javajack/xlsheet"
	"github.com/spf13/cobra"
	"go.alis.build/alog"
)

func newReplCommand() *cobra.Command {
	var historySize int
	cmd := &cobra.Command{
		Use:   "repl [FILE]",
		Short: "Edit a workbook interactively",
		Long: `Start an interactive session on FILE, or on a new workbook when no file is given.

Type "help" inside the session for the list of commands.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := xlsheet.NewEditor(xlsheet.WithHistorySize(historySize))
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if err := e.Load(ctx, args[0]); err != nil {
					return err
				}
			} else {
				e.New(ctx, "untitled")
			}
			s := &session{ctx: ctx, editor: e, out: cmd.OutOrStdout()}
			s.run()
			return nil
		},
	}
	cmd.Flags().IntVar(&historySize, "history", xlsheet.DefaultHistorySize, "Number of undo steps to keep")
	return cmd
}

var errQuit = errors.New("quit")

// session is one interactive editing session.
type session struct {
	ctx    context.Context
	editor *xlsheet.Editor
	out    io.Writer
	done   bool
}

var replCommands = []prompt.Suggest{
	{Text: "set", Description: "set ADDR VALUE - write a cell"},
	{Text: "get", Description: "get ADDR - read a cell"},
	{Text: "undo", Description: "undo the last change"},
	{Text: "redo", Description: "redo the last undone change"},
	{Text: "show", Description: "show [RANGE] - print the active sheet"},
	{Text: "insert-row", Description: "insert-row N - insert an empty row before row N"},
	{Text: "insert-col", Description: "insert-col NAME - insert an empty column before column NAME"},
	{Text: "sheets", Description: "list sheets"},
	{Text: "sheet", Description: "sheet N - switch to sheet N (1-based)"},
	{Text: "add-sheet", Description: "append a sheet"},
	{Text: "save", Description: "save PATH - write the workbook as xlsx"},
	{Text: "help", Description: "list commands"},
	{Text: "exit", Description: "leave the session"},
}

func (s *session) run() {
	p := prompt.New(
		func(in string) {
			if err := s.exec(in); err != nil {
				if errors.Is(err, errQuit) {
					return
				}
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
		},
		s.complete,
		prompt.OptionTitle("xlsheet"),
		prompt.OptionPrefix("xlsheet> "),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			return breakline && s.done
		}),
	)
	p.Run()
}

func (s *session) complete(d prompt.Document) []prompt.Suggest {
	if strings.Contains(d.TextBeforeCursor(), " ") {
		return nil
	}
	return prompt.FilterHasPrefix(replCommands, d.GetWordBeforeCursor(), true)
}

// exec runs one input line. It returns errQuit after "exit".
func (s *session) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "exit", "quit":
		s.done = true
		return errQuit
	case "help":
		for _, c := range replCommands {
			fmt.Fprintf(s.out, "  %-10s %s\n", c.Text, c.Description)
		}
		return nil
	case "set":
		if len(args) < 1 {
			return fmt.Errorf("usage: set ADDR VALUE")
		}
		addr, err := parseCell(args[0])
		if err != nil {
			return err
		}
		// the value is the rest of the line, spaces included
		_, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
		_, raw, _ := strings.Cut(strings.TrimSpace(rest), " ")
		return s.editor.SetCell(s.ctx, addr.Row, addr.Col, parseValue(strings.TrimSpace(raw)))
	case "get":
		if len(args) != 1 {
			return fmt.Errorf("usage: get ADDR")
		}
		addr, err := parseCell(args[0])
		if err != nil {
			return err
		}
		c, _ := s.editor.ActiveSheet().Cell(addr.Row, addr.Col)
		if c.Formula != "" {
			fmt.Fprintf(s.out, "%s = %s (=%s)\n", addr, xlsheet.ToText(c.Value), c.Formula)
			return nil
		}
		fmt.Fprintf(s.out, "%s = %s\n", addr, xlsheet.ToText(c.Value))
		return nil
	case "undo":
		ok, err := s.editor.Undo(s.ctx)
		if err == nil && !ok {
			fmt.Fprintln(s.out, "nothing to undo")
		}
		return err
	case "redo":
		ok, err := s.editor.Redo(s.ctx)
		if err == nil && !ok {
			fmt.Fprintln(s.out, "nothing to redo")
		}
		return err
	case "show":
		sheet := s.editor.ActiveSheet()
		rng := usedRange(sheet)
		if len(args) > 0 {
			rng = xlsheet.ParseRange(args[0])
			if !rng.Start.Valid() || !rng.End.Valid() {
				return fmt.Errorf("invalid range %q", args[0])
			}
		}
		d := newDataset(sheet, &Job{Range: rng.String()})
		fmt.Fprintln(s.out, renderSheet(d.headers, d.rows()))
		return nil
	case "insert-row":
		if len(args) != 1 {
			return fmt.Errorf("usage: insert-row N")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid row %q", args[0])
		}
		return s.editor.InsertRow(s.ctx, n-1)
	case "insert-col":
		if len(args) != 1 {
			return fmt.Errorf("usage: insert-col NAME")
		}
		c, err := xlsheet.NameToCol(args[0])
		if err != nil {
			return err
		}
		return s.editor.InsertColumn(s.ctx, c)
	case "sheets":
		fmt.Fprint(s.out, xlsheet.Describe(s.editor.Workbook()))
		return nil
	case "sheet":
		if len(args) != 1 {
			return fmt.Errorf("usage: sheet N")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid sheet number %q", args[0])
		}
		ok, err := s.editor.SwitchSheet(n - 1)
		if err == nil && !ok {
			return fmt.Errorf("no sheet %d", n)
		}
		return err
	case "add-sheet":
		sh, err := s.editor.AddSheet()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "added %s\n", sh.Name)
		return nil
	case "save":
		if len(args) != 1 {
			return fmt.Errorf("usage: save PATH")
		}
		if err := s.editor.Workbook().SaveAs(args[0]); err != nil {
			return err
		}
		alog.Infof(s.ctx, "saved %s", args[0])
		fmt.Fprintf(s.out, "saved %s\n", args[0])
		return nil
	}
	return fmt.Errorf("unknown command %q (try help)", cmd)
}

func parseCell(s string) (xlsheet.CellAddress, error) {
	a := xlsheet.ParseAddress(strings.ToUpper(s))
	if !a.Valid() {
		return a, fmt.Errorf("invalid address %q", s)
	}
	return a, nil
}

// parseValue reads a typed value: numbers, true/false, quoted text, or raw
// text. An empty input clears the cell.
func parseValue(raw string) any {
	if raw == "" {
		return nil
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return raw[1 : len(raw)-1]
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}

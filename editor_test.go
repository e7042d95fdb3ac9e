package xlsheet

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditor_NoWorkbook(t *testing.T) {
	ctx := context.Background()
	e, err := NewEditor()
	require.NoError(t, err)

	assert.ErrorIs(t, e.SetCell(ctx, 0, 0, 1), ErrNoWorkbook)
	_, err = e.Undo(ctx)
	assert.ErrorIs(t, err, ErrNoWorkbook)
	_, err = e.ApplyView(ctx)
	assert.ErrorIs(t, err, ErrNoWorkbook)
	_, err = e.CreatePivot(ctx, regionPivot())
	assert.ErrorIs(t, err, ErrNoWorkbook)
	_, err = e.AddSheet()
	assert.ErrorIs(t, err, ErrNoWorkbook)
	assert.ErrorIs(t, e.Export(ctx, &bytes.Buffer{}), ErrNoWorkbook)
	assert.Nil(t, e.ActiveSheet())
}

func TestEditor_SetCellUndoRedo(t *testing.T) {
	ctx := context.Background()
	e, err := NewEditor()
	require.NoError(t, err)
	e.New(ctx, "book")

	require.NoError(t, e.SetCell(ctx, 0, 0, "a"))
	require.NoError(t, e.SetCell(ctx, 0, 0, "b"))
	assert.Equal(t, "b", e.ActiveSheet().Value(0, 0))

	ok, err := e.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", e.ActiveSheet().Value(0, 0))

	ok, err = e.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, e.ActiveSheet().Value(0, 0))

	ok, err = e.Undo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.Redo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", e.ActiveSheet().Value(0, 0))

	require.NoError(t, e.SetCell(ctx, 1, 0, "c"))
	assert.False(t, e.History().CanRedo(), "a new edit invalidates redo")
}

func TestEditor_HistorySize(t *testing.T) {
	ctx := context.Background()
	e, err := NewEditor(WithHistorySize(3))
	require.NoError(t, err)
	e.New(ctx, "book")
	for i := 0; i < 10; i++ {
		require.NoError(t, e.SetCell(ctx, 0, 0, i))
	}
	assert.Equal(t, 3, e.History().UndoLen())
}

func TestEditor_ValidationRejects(t *testing.T) {
	ctx := context.Background()
	e, err := NewEditor(WithValidationRule(ValidationRule{
		Type: RuleNumber, Range: "A1:A10", Min: ptr(0), ErrorMessage: "must be positive",
	}))
	require.NoError(t, err)
	e.New(ctx, "book")

	require.NoError(t, e.SetCell(ctx, 0, 0, 5))
	err = e.SetCell(ctx, 1, 0, -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "A2", verr.Address.String())
	assert.Equal(t, "must be positive", verr.Message)
	assert.Equal(t, "A2: must be positive", err.Error())

	assert.Nil(t, e.ActiveSheet().Value(1, 0), "rejected value is not written")
	assert.Equal(t, 1, e.History().UndoLen(), "rejected value is not recorded")

	// outside the rule's range
	require.NoError(t, e.SetCell(ctx, 1, 1, -1))
}

func TestNewEditor_BadRule(t *testing.T) {
	_, err := NewEditor(WithValidationRule(ValidationRule{Type: RuleCustom, Range: "A1", Condition: "(("}))
	assert.Error(t, err)
}

func TestEditor_InsertRowAndColumn(t *testing.T) {
	ctx := context.Background()
	e, err := NewEditor()
	require.NoError(t, err)
	e.New(ctx, "book")
	require.NoError(t, e.SetCell(ctx, 0, 0, "x"))

	require.NoError(t, e.InsertRow(ctx, 0))
	assert.Equal(t, "x", e.ActiveSheet().Value(1, 0))
	require.NoError(t, e.InsertColumn(ctx, 0))
	assert.Equal(t, "x", e.ActiveSheet().Value(1, 1))

	_, err = e.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "x", e.ActiveSheet().Value(1, 0))
}

func TestEditor_LoadViewAndPivot(t *testing.T) {
	ctx := context.Background()
	mon := NewMonitor()
	e, err := NewEditor(WithMonitor(mon))
	require.NoError(t, err)
	require.NoError(t, e.Load(ctx, createSalesFile(t, "editor_load.xlsx")))
	assert.Same(t, mon, e.Monitor())

	e.View().AddFilter(FilterCondition{Column: 0, Operator: OpEquals, Value1: "North"})
	e.View().AddSort(SortCondition{Column: 2, Direction: Desc})
	viewed, err := e.ApplyView(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]any{
		{"North", "Pear", 20.0},
		{"North", "Apple", 10.0},
	}, rowValues(viewed.Grid))
	assert.Equal(t, "Region", e.ActiveSheet().Value(0, 0), "apply does not touch the workbook")

	_, ok := mon.Duration("view")
	assert.True(t, ok)

	pt, err := e.CreatePivot(ctx, regionPivot())
	require.NoError(t, err)
	assert.Equal(t, []string{"North", "South"}, pt.RowHeaders)
	assert.Equal(t, [][]float64{{30}, {5}}, pt.Values)
	assert.Len(t, e.Pivots().List(), 1)

	require.NoError(t, e.SetCell(ctx, 2, 2, 7))
	require.NoError(t, e.RefreshPivots(ctx))
	assert.Equal(t, [][]float64{{30}, {7}}, e.Pivots().Active().Values)
}

func TestEditor_CommitViewIsUndoable(t *testing.T) {
	ctx := context.Background()
	e, err := NewEditor()
	require.NoError(t, err)
	e.New(ctx, "book")
	for i, v := range []int{3, 1, 2} {
		require.NoError(t, e.SetCell(ctx, i, 0, v))
	}

	e.View().AddSort(SortCondition{Column: 0, Direction: Asc})
	require.NoError(t, e.CommitView(ctx))
	assert.Equal(t, [][]any{{1}, {2}, {3}}, rowValues(e.ActiveSheet().Grid))

	_, err = e.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{3}, {1}, {2}}, rowValues(e.ActiveSheet().Grid))
}

func TestEditor_Sheets(t *testing.T) {
	ctx := context.Background()
	e, err := NewEditor()
	require.NoError(t, err)
	wb := e.New(ctx, "book")

	s, err := e.AddSheet()
	require.NoError(t, err)
	assert.Equal(t, "Sheet2", s.Name)
	assert.Same(t, s, e.ActiveSheet())

	ok, err := e.SwitchSheet(0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Sheet1", e.ActiveSheet().Name)

	ok, err = e.DeleteSheet(0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, wb.Sheets, 1)

	ok, err = e.DeleteSheet(0)
	require.NoError(t, err)
	assert.False(t, ok, "the last sheet stays")
}

func TestEditor_UndoRedoAcrossSheets(t *testing.T) {
	ctx := context.Background()
	e, err := NewEditor()
	require.NoError(t, err)
	wb := e.New(ctx, "book")

	require.NoError(t, e.SetCell(ctx, 0, 0, "edit"))
	_, err = e.AddSheet()
	require.NoError(t, err)
	require.NoError(t, e.SetCell(ctx, 0, 0, "other"))
	_, err = e.SwitchSheet(0)
	require.NoError(t, err)

	ok, err := e.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Sheet2", e.ActiveSheet().Name, "undo moves to the edited sheet")
	assert.Nil(t, e.ActiveSheet().Value(0, 0))
	assert.Equal(t, "edit", wb.Sheets[0].Value(0, 0))

	ok, err = e.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Sheet1", e.ActiveSheet().Name)
	assert.Nil(t, wb.Sheets[0].Value(0, 0))

	_, err = e.SwitchSheet(1)
	require.NoError(t, err)
	ok, err = e.Redo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "edit", wb.Sheets[0].Value(0, 0))
	assert.Nil(t, wb.Sheets[1].Value(0, 0))

	ok, err = e.Redo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Sheet2", e.ActiveSheet().Name)
	assert.Equal(t, "other", wb.Sheets[1].Value(0, 0))
	assert.Equal(t, "edit", wb.Sheets[0].Value(0, 0))
}

func TestEditor_DeleteSheetKeepsOtherSheetsSafe(t *testing.T) {
	ctx := context.Background()
	e, err := NewEditor()
	require.NoError(t, err)
	wb := e.New(ctx, "book")

	require.NoError(t, e.SetCell(ctx, 0, 0, "keep-me"))
	_, err = e.AddSheet()
	require.NoError(t, err)
	require.NoError(t, e.SetCell(ctx, 0, 0, "s2"))

	ok, err := e.DeleteSheet(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, e.History().CanUndo())

	ok, err = e.Undo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	require.Len(t, wb.Sheets, 1)
	s, found := wb.SheetByName("Sheet1")
	require.True(t, found)
	assert.Equal(t, "keep-me", s.Value(0, 0))
}

func TestEditor_UndoDropsHistoryOfMissingSheet(t *testing.T) {
	ctx := context.Background()
	e, err := NewEditor()
	require.NoError(t, err)
	wb := e.New(ctx, "book")

	require.NoError(t, e.SetCell(ctx, 0, 0, "keep-me"))
	_, err = e.AddSheet()
	require.NoError(t, err)
	require.NoError(t, e.SetCell(ctx, 0, 0, "s2"))
	// remove Sheet2 behind the editor's back
	require.True(t, wb.DeleteSheet(1))

	ok, err := e.Undo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, e.History().CanUndo())
	assert.Equal(t, "keep-me", wb.Sheets[0].Value(0, 0))
	assert.Equal(t, "Sheet1", wb.Sheets[0].Name)
}

func TestEditor_ExportAndReload(t *testing.T) {
	ctx := context.Background()
	e, err := NewEditor()
	require.NoError(t, err)
	e.New(ctx, "book")
	require.NoError(t, e.SetCell(ctx, 0, 0, "kept"))

	var buf bytes.Buffer
	require.NoError(t, e.Export(ctx, &buf))

	e2, err := NewEditor()
	require.NoError(t, err)
	require.NoError(t, e2.LoadReader(ctx, &buf, "book"))
	assert.Equal(t, "kept", e2.ActiveSheet().Value(0, 0))
	assert.False(t, e2.History().CanUndo())

	e2.Close()
	assert.Nil(t, e2.Workbook())
}

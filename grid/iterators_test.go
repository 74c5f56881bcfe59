package grid_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/eak1mov/go-libtmx/grid"
	"github.com/google/go-cmp/cmp"
)

type cellSlice []grid.Cell

func (s cellSlice) VisitCells(visitor func(grid.Cell) error) error {
	for _, cell := range s {
		if err := visitor(cell); err != nil {
			return err
		}
	}
	return nil
}

type failingVisitor struct{ err error }

func (v failingVisitor) VisitCells(func(grid.Cell) error) error { return v.err }

type memoryWriter struct {
	cells     []grid.Cell
	finalized bool
	err       error
}

func (w *memoryWriter) WriteCell(cell grid.Cell) error {
	if w.err != nil {
		return w.err
	}
	w.cells = append(w.cells, cell)
	return nil
}

func (w *memoryWriter) Finalize() error {
	w.finalized = true
	return nil
}

var testCells = cellSlice{
	{Layer: 0, X: 0, Y: 0, GID: 1},
	{Layer: 0, X: 1, Y: 0, GID: 2},
	{Layer: 1, X: 5, Y: 7, GID: 99},
}

func TestIterCells(t *testing.T) {
	if diff := cmp.Diff([]grid.Cell(testCells), slices.Collect(grid.IterCells(testCells))); diff != "" {
		t.Errorf("IterCells mismatch (-want+got):\n%v", diff)
	}

	for cell := range grid.IterCells(testCells) {
		if cell != testCells[0] {
			t.Errorf("IterCells first = %v, want = %v", cell, testCells[0])
		}
		break
	}

	defer func() {
		if recover() == nil {
			t.Errorf("IterCells expected panic on visitor error")
		}
	}()
	for range grid.IterCells(failingVisitor{errors.New("broken")}) {
	}
}

func TestCopy(t *testing.T) {
	writer := &memoryWriter{}
	progress := 0
	if err := grid.Copy(writer, testCells, func() { progress++ }); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if diff := cmp.Diff([]grid.Cell(testCells), writer.cells); diff != "" {
		t.Errorf("Copy mismatch (-want+got):\n%v", diff)
	}
	if !writer.finalized {
		t.Errorf("Copy did not finalize the writer")
	}
	if progress != len(testCells) {
		t.Errorf("Copy progress = %d, want = %d", progress, len(testCells))
	}

	failure := errors.New("failure")
	writer = &memoryWriter{err: failure}
	if err := grid.Copy(writer, testCells, nil); !errors.Is(err, failure) {
		t.Errorf("Copy error = %v, want = %v", err, failure)
	}
	if writer.finalized {
		t.Errorf("Copy finalized the writer after an error")
	}
}

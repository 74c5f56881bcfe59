package grid

import (
	"errors"
	"iter"
)

var errVisitCancelled = errors.New("visit cancelled")

// IterCells returns an iterator over all cells of v.
// Iteration panics on unrecoverable errors.
func IterCells(v Visitor) iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		err := v.VisitCells(func(cell Cell) error {
			if !yield(cell) {
				return errVisitCancelled
			}
			return nil
		})
		if err != nil && err != errVisitCancelled {
			panic(err)
		}
	}
}

// Copy writes every cell of v to w and finalizes w.
// progress, if not nil, is called after each written cell.
func Copy(w Writer, v Visitor, progress func()) error {
	err := v.VisitCells(func(cell Cell) error {
		if err := w.WriteCell(cell); err != nil {
			return err
		}
		if progress != nil {
			progress()
		}
		return nil
	})
	if err != nil {
		return err
	}
	return w.Finalize()
}

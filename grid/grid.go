// Package grid provides common cell interfaces and types for exporting decoded map layers.
package grid

// Cell is one non-empty position of a tile layer.
type Cell struct {
	Layer uint32 // index of the layer in the map
	X     uint32
	Y     uint32
	GID   uint32
}

// Writer defines an interface for writing cells to a cell store.
type Writer interface {
	// WriteCell writes a single cell.
	WriteCell(cell Cell) error

	// Finalize completes the writing process: flushes buffers, writes indices.
	// It must be called before closing the Writer.
	Finalize() error
}

type Reader interface {
	// ReadCell returns the GID stored at the given position.
	// If the cell does not exist, it returns 0 with no error.
	ReadCell(layer, x, y uint32) (uint32, error)
}

type Visitor interface {
	// VisitCells visits all cells, calling the visitor for each.
	// It returns the first error returned by the visitor.
	VisitCells(visitor func(Cell) error) error
}

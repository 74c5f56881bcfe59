package index

import (
	"os"

	"github.com/eak1mov/go-libtmx/grid"
)

type position struct {
	layer, x, y uint32
}

// Reader implements grid.Reader and grid.Visitor interfaces for index files.
// The whole index is held in memory.
type Reader struct {
	items []Item
	gids  map[position]uint32
}

func NewReader(indexData []byte) (*Reader, error) {
	items, err := ReadAll(indexData)
	if err != nil {
		return nil, err
	}

	gids := make(map[position]uint32, len(items))
	for _, item := range items {
		gids[position{item.Layer, item.X, item.Y}] = item.GID
	}
	return &Reader{items: items, gids: gids}, nil
}

func NewFileReader(filePath string) (*Reader, error) {
	indexData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return NewReader(indexData)
}

func (r *Reader) ReadCell(layer, x, y uint32) (uint32, error) {
	return r.gids[position{layer, x, y}], nil
}

// VisitCells visits cells in file order.
func (r *Reader) VisitCells(visitor func(grid.Cell) error) error {
	for _, item := range r.items {
		if err := visitor(item.Cell()); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) Len() int {
	return len(r.items)
}

// Package index provides a compact binary format for exported map cells.
//
// An index file is a sequence of fixed-width little-endian records, one per
// non-empty cell. It is designed to be easily portable to other languages and
// utilities.
package index

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/eak1mov/go-libtmx/grid"
)

// Item represents a single record in the index.
type Item struct {
	Layer uint32
	X     uint32
	Y     uint32
	GID   uint32
}

func ItemOf(cell grid.Cell) Item {
	return Item{Layer: cell.Layer, X: cell.X, Y: cell.Y, GID: cell.GID}
}

func (i Item) Cell() grid.Cell {
	return grid.Cell{Layer: i.Layer, X: i.X, Y: i.Y, GID: i.GID}
}

func WriteAll(items []Item, writer io.Writer) error {
	return binary.Write(writer, binary.LittleEndian, items)
}

func ReadAll(indexData []byte) ([]Item, error) {
	itemSize := binary.Size(Item{})
	if len(indexData)%itemSize != 0 {
		return nil, fmt.Errorf("index size %d is not a multiple of %d", len(indexData), itemSize)
	}
	items := make([]Item, len(indexData)/itemSize)

	err := binary.Read(bytes.NewReader(indexData), binary.LittleEndian, items)
	if err != nil {
		return nil, err
	}

	return items, nil
}

package index

import (
	"cmp"
	"fmt"
	"math/bits"
	"slices"

	"github.com/google/hilbert"
)

type Order uint8

const (
	// OrderRow sorts items by layer, then row, then column.
	OrderRow Order = iota
	// OrderHilbert sorts items by layer, then by position along a Hilbert
	// curve covering the layer, keeping nearby cells close in the file.
	OrderHilbert
)

func ParseOrder(s string) (Order, error) {
	switch s {
	case "row", "":
		return OrderRow, nil
	case "hilbert":
		return OrderHilbert, nil
	}
	return 0, fmt.Errorf("unknown index order: %q", s)
}

func (o Order) String() string {
	switch o {
	case OrderRow:
		return "row"
	case OrderHilbert:
		return "hilbert"
	}
	return fmt.Sprintf("Order(%d)", o)
}

// curveSide returns the smallest power of two above every coordinate.
func curveSide(items []Item) int {
	var maxCoord uint32
	for _, item := range items {
		maxCoord = max(maxCoord, item.X, item.Y)
	}
	return 1 << bits.Len32(maxCoord)
}

// HilbertCode returns the position of (x, y) along the Hilbert curve
// filling a side x side square; side must be a power of two.
func HilbertCode(x, y uint32, side int) (int, error) {
	h, err := hilbert.NewHilbert(side)
	if err != nil {
		return 0, err
	}
	return h.MapInverse(int(x), int(y))
}

// Sort orders items in place.
func Sort(items []Item, order Order) error {
	switch order {
	case OrderRow:
		slices.SortFunc(items, func(a, b Item) int {
			return cmp.Or(cmp.Compare(a.Layer, b.Layer), cmp.Compare(a.Y, b.Y), cmp.Compare(a.X, b.X))
		})
		return nil
	case OrderHilbert:
		h, err := hilbert.NewHilbert(curveSide(items))
		if err != nil {
			return err
		}
		codes := make(map[Item]int, len(items))
		for _, item := range items {
			code, err := h.MapInverse(int(item.X), int(item.Y))
			if err != nil {
				return err
			}
			codes[item] = code
		}
		slices.SortFunc(items, func(a, b Item) int {
			return cmp.Or(cmp.Compare(a.Layer, b.Layer), cmp.Compare(codes[a], codes[b]))
		})
		return nil
	}
	return fmt.Errorf("unknown index order: %v", order)
}

package tmx

import (
	"fmt"

	"github.com/eak1mov/go-libtmx/grid"
	"github.com/eak1mov/go-libtmx/tmx/spec"
)

type Colour = spec.Colour
type Point = spec.Point

// Properties maps property names to their values.
type Properties = map[string]string

// Map is the root of a parsed TMX document. It holds all the layers and tilesets.
// A Map and everything reachable from it must be treated as read-only.
type Map struct {
	Version          string
	Orientation      Orientation
	Width            uint32
	Height           uint32
	TileWidth        uint32
	TileHeight       uint32
	Tilesets         []*Tileset
	Layers           []Layer
	ObjectGroups     []ObjectGroup
	Properties       Properties
	BackgroundColour *Colour
}

// TilesetByGID returns the tileset whose GID range contains gid: the one
// with the greatest FirstGID strictly less than gid. It returns nil if every
// tileset starts at or above gid.
func (m *Map) TilesetByGID(gid uint32) *Tileset {
	var result *Tileset
	for _, tileset := range m.Tilesets {
		if tileset.FirstGID < gid && (result == nil || tileset.FirstGID > result.FirstGID) {
			result = tileset
		}
	}
	return result
}

// VisitCells visits the non-zero GIDs of all layers in layer, row, column order.
func (m *Map) VisitCells(visitor func(grid.Cell) error) error {
	for l, layer := range m.Layers {
		for y, row := range layer.Tiles {
			for x, gid := range row {
				if gid == 0 {
					continue
				}
				cell := grid.Cell{Layer: uint32(l), X: uint32(x), Y: uint32(y), GID: gid}
				if err := visitor(cell); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

type Orientation uint8

const (
	Orthogonal Orientation = iota
	Isometric
	Staggered
)

var orientationNames = []string{"orthogonal", "isometric", "staggered"}

func ParseOrientation(s string) (Orientation, error) {
	for i, name := range orientationNames {
		if s == name {
			return Orientation(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown orientation %q", spec.ErrMalformedAttributes, s)
}

func (o Orientation) String() string {
	if int(o) < len(orientationNames) {
		return orientationNames[o]
	}
	return fmt.Sprintf("Orientation(%d)", o)
}

// Tileset is a tile sheet, usually a single image sliced into tiles.
type Tileset struct {
	// The GID of the first tile stored.
	FirstGID uint32
	// Path of the external tileset file, if the map references one.
	// Only FirstGID is set in that case.
	Source     string
	Name       string
	TileWidth  uint32
	TileHeight uint32
	Spacing    uint32
	Margin     uint32
	// A tileset can have multiple images, usually there is one.
	Images     []Image
	Properties Properties
}

type Image struct {
	// The file path of the image.
	Source            string
	Width             int32
	Height            int32
	TransparentColour *Colour
}

type Layer struct {
	Name    string
	Opacity float32
	Visible bool
	// The tiles are arranged in rows of map width. Each tile is a GID which
	// can be used to find the tileset it belongs to; 0 means no tile.
	Tiles      [][]uint32
	Properties Properties
}

type ObjectGroup struct {
	Name       string
	Opacity    float32
	Visible    bool
	Colour     *Colour
	Objects    []Object
	Properties Properties
}

type ObjectKind uint8

const (
	Rect ObjectKind = iota
	Ellipse
	Polyline
	Polygon
)

func (k ObjectKind) String() string {
	switch k {
	case Rect:
		return "rect"
	case Ellipse:
		return "ellipse"
	case Polyline:
		return "polyline"
	case Polygon:
		return "polygon"
	}
	return fmt.Sprintf("ObjectKind(%d)", k)
}

// Object is a shape of an object group. Kind selects which fields are
// meaningful: Width and Height for Rect and Ellipse, Points for Polyline and
// Polygon.
type Object struct {
	Kind       ObjectKind
	ID         uint32
	Name       string
	Type       string
	X          int32
	Y          int32
	Width      uint32
	Height     uint32
	Points     []Point
	Visible    bool
	Properties Properties
}

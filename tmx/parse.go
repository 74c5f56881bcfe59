// Package tmx parses maps in the TMX format of the Tiled map editor.
//
// Tile layer data must be base64 encoded and zlib compressed; the other
// encodings are reported as spec.ErrUnsupported.
package tmx

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"strings"

	"github.com/eak1mov/go-libtmx/tmx/spec"
)

type parser struct {
	events       *eventReader
	logger       *slog.Logger
	strict       bool
	skipSubtrees bool
}

func newParser(r io.Reader, opts []Option) *parser {
	c := newConfig(opts)
	return &parser{
		events:       newEventReader(r),
		logger:       c.logger,
		strict:       c.strict,
		skipSubtrees: c.skipSubtrees,
	}
}

// Parse reads a TMX document and returns its map.
func Parse(r io.Reader, opts ...Option) (*Map, error) {
	p := newParser(r, opts)
	attrs, err := p.root("map")
	if err != nil {
		return nil, err
	}
	return p.parseMap(attrs)
}

func ParseFile(filePath string, opts ...Option) (*Map, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file, opts...)
}

// ParseTileset reads a standalone tileset document (TSX), as referenced by
// the source attribute of a map's tileset. Its FirstGID is 0 unless the
// document sets one; the referencing map owns the real value.
func ParseTileset(r io.Reader, opts ...Option) (*Tileset, error) {
	p := newParser(r, opts)
	attrs, err := p.root("tileset")
	if err != nil {
		return nil, err
	}
	return p.parseTileset(attrs, true)
}

// root scans the document for the first start element with the given name.
func (p *parser) root(name string) ([]spec.Attr, error) {
	for {
		ev, err := p.events.next()
		if err != nil {
			return nil, err
		}
		switch ev.kind {
		case eventStartElement:
			if ev.name == name {
				return ev.attrs, nil
			}
		case eventEndDocument:
			return nil, fmt.Errorf("%w: document ended before %s was parsed", spec.ErrPrematureEnd, name)
		}
	}
}

func (p *parser) extract(attrs []spec.Attr, what string, fields ...spec.Field) error {
	if p.strict {
		return spec.ExtractStrict(attrs, what, fields...)
	}
	return spec.Extract(attrs, what, fields...)
}

func (p *parser) parseMap(attrs []spec.Attr) (*Map, error) {
	m := Map{
		Tilesets:     make([]*Tileset, 0),
		Layers:       make([]Layer, 0),
		ObjectGroups: make([]ObjectGroup, 0),
		Properties:   make(Properties),
	}
	err := p.extract(attrs, "map",
		spec.Required("version", spec.Text(&m.Version)),
		spec.Required("orientation", spec.Value(&m.Orientation, ParseOrientation)),
		spec.Required("width", spec.Positive(&m.Width)),
		spec.Required("height", spec.Positive(&m.Height)),
		spec.Required("tilewidth", spec.Positive(&m.TileWidth)),
		spec.Required("tileheight", spec.Positive(&m.TileHeight)),
		spec.Optional("backgroundcolor", spec.Pointer(&m.BackgroundColour, spec.ParseColour)),
	)
	if err != nil {
		return nil, err
	}

	err = p.descend("map", map[string]handler{
		"tileset": func(attrs []spec.Attr) error {
			tileset, err := p.parseTileset(attrs, false)
			if err != nil {
				return err
			}
			m.Tilesets = append(m.Tilesets, tileset)
			return nil
		},
		"layer": func(attrs []spec.Attr) error {
			layer, err := p.parseLayer(attrs, m.Width, m.Height)
			if err != nil {
				return err
			}
			m.Layers = append(m.Layers, layer)
			return nil
		},
		"objectgroup": func(attrs []spec.Attr) error {
			group, err := p.parseObjectGroup(attrs)
			if err != nil {
				return err
			}
			m.ObjectGroups = append(m.ObjectGroups, group)
			return nil
		},
		"properties": func([]spec.Attr) error {
			return p.parseProperties(m.Properties)
		},
	})
	if err != nil {
		return nil, err
	}

	p.logger.Debug("libtmx: map",
		"orientation", m.Orientation, "width", m.Width, "height", m.Height,
		"tilesets", len(m.Tilesets), "layers", len(m.Layers), "objectgroups", len(m.ObjectGroups))
	return &m, nil
}

func hasAttr(attrs []spec.Attr, name string) bool {
	for _, attr := range attrs {
		if attr.Name == name {
			return true
		}
	}
	return false
}

func (p *parser) parseTileset(attrs []spec.Attr, standalone bool) (*Tileset, error) {
	tileset := Tileset{
		Images:     make([]Image, 0),
		Properties: make(Properties),
	}

	if !standalone && hasAttr(attrs, "source") {
		err := p.extract(attrs, "tileset",
			spec.Required("firstgid", spec.Uint(&tileset.FirstGID)),
			spec.Required("source", spec.Text(&tileset.Source)),
		)
		if err != nil {
			return nil, err
		}
		if err := p.descend("tileset", nil); err != nil {
			return nil, err
		}
		p.logger.Debug("libtmx: external tileset", "source", tileset.Source, "firstgid", tileset.FirstGID)
		return &tileset, nil
	}

	firstGID := spec.Required("firstgid", spec.Uint(&tileset.FirstGID))
	if standalone {
		firstGID.Required = false
	}
	err := p.extract(attrs, "tileset",
		firstGID,
		spec.Required("name", spec.Text(&tileset.Name)),
		spec.Required("tilewidth", spec.Uint(&tileset.TileWidth)),
		spec.Required("tileheight", spec.Uint(&tileset.TileHeight)),
		spec.Optional("spacing", spec.Uint(&tileset.Spacing)),
		spec.Optional("margin", spec.Uint(&tileset.Margin)),
	)
	if err != nil {
		return nil, err
	}

	err = p.descend("tileset", map[string]handler{
		"image": func(attrs []spec.Attr) error {
			image, err := p.parseImage(attrs)
			if err != nil {
				return err
			}
			tileset.Images = append(tileset.Images, image)
			return nil
		},
		"properties": func([]spec.Attr) error {
			return p.parseProperties(tileset.Properties)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("tileset %q: %w", tileset.Name, err)
	}

	p.logger.Debug("libtmx: tileset", "name", tileset.Name, "firstgid", tileset.FirstGID, "images", len(tileset.Images))
	return &tileset, nil
}

func (p *parser) parseImage(attrs []spec.Attr) (Image, error) {
	var image Image
	err := p.extract(attrs, "image",
		spec.Required("source", spec.Text(&image.Source)),
		spec.Required("width", spec.Int(&image.Width)),
		spec.Required("height", spec.Int(&image.Height)),
		spec.Optional("trans", spec.Pointer(&image.TransparentColour, spec.ParseColour)),
	)
	if err != nil {
		return Image{}, err
	}
	if err := p.descend("image", nil); err != nil {
		return Image{}, err
	}
	return image, nil
}

func (p *parser) parseLayer(attrs []spec.Attr, width, height uint32) (Layer, error) {
	layer := Layer{
		Opacity:    1,
		Visible:    true,
		Tiles:      make([][]uint32, 0),
		Properties: make(Properties),
	}
	err := p.extract(attrs, "layer",
		spec.Required("name", spec.Text(&layer.Name)),
		spec.Optional("opacity", spec.Float(&layer.Opacity)),
		spec.Optional("visible", spec.Bool(&layer.Visible)),
	)
	if err != nil {
		return Layer{}, err
	}

	err = p.descend("layer", map[string]handler{
		"data": func(attrs []spec.Attr) error {
			tiles, err := p.parseData(attrs, width, height)
			if err != nil {
				return err
			}
			layer.Tiles = tiles
			return nil
		},
		"properties": func([]spec.Attr) error {
			return p.parseProperties(layer.Properties)
		},
	})
	if err != nil {
		return Layer{}, fmt.Errorf("layer %q: %w", layer.Name, err)
	}

	p.logger.Debug("libtmx: layer", "name", layer.Name, "rows", len(layer.Tiles))
	return layer, nil
}

// parseData reads the payload of a data element up to its end tag. The
// payload may be missing or split into several character events; tags
// nested in it are ignored.
func (p *parser) parseData(attrs []spec.Attr, width, height uint32) ([][]uint32, error) {
	var encoding, compression string
	err := p.extract(attrs, "data",
		spec.Optional("encoding", spec.Text(&encoding)),
		spec.Optional("compression", spec.Text(&compression)),
	)
	if err != nil {
		return nil, err
	}
	if err := spec.CheckFormat(encoding, compression); err != nil {
		return nil, err
	}

	var text strings.Builder
	for done := false; !done; {
		ev, err := p.events.next()
		if err != nil {
			return nil, err
		}
		switch ev.kind {
		case eventCharacters:
			text.WriteString(ev.text)
		case eventStartElement:
			if err := p.skipUnknown(); err != nil {
				return nil, err
			}
		case eventEndElement:
			done = ev.name == "data"
		case eventEndDocument:
			return nil, fmt.Errorf("%w: document ended before </data>", spec.ErrPrematureEnd)
		}
	}

	rows, dropped, err := spec.DecodeTiles(text.String(), width)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 && dropped == 0 {
		return rows, nil
	}
	if dropped > 0 || uint32(len(rows)) != height {
		if p.strict {
			return nil, fmt.Errorf("%w: tile data has %d rows and %d extra tiles, want %d rows of %d",
				spec.ErrMalformedAttributes, len(rows), dropped, height, width)
		}
		p.logger.Warn("libtmx: tile data does not match map size",
			"rows", len(rows), "dropped", dropped, "width", width, "height", height)
	}
	return rows, nil
}

func (p *parser) parseObjectGroup(attrs []spec.Attr) (ObjectGroup, error) {
	group := ObjectGroup{
		Opacity:    1,
		Visible:    true,
		Objects:    make([]Object, 0),
		Properties: make(Properties),
	}
	err := p.extract(attrs, "objectgroup",
		spec.Required("name", spec.Text(&group.Name)),
		spec.Optional("opacity", spec.Float(&group.Opacity)),
		spec.Optional("visible", spec.Bool(&group.Visible)),
		spec.Optional("color", spec.Pointer(&group.Colour, spec.ParseColour)),
	)
	if err != nil {
		return ObjectGroup{}, err
	}

	err = p.descend("objectgroup", map[string]handler{
		"object": func(attrs []spec.Attr) error {
			object, err := p.parseObject(attrs)
			if err != nil {
				return err
			}
			group.Objects = append(group.Objects, object)
			return nil
		},
		"properties": func([]spec.Attr) error {
			return p.parseProperties(group.Properties)
		},
	})
	if err != nil {
		return ObjectGroup{}, fmt.Errorf("objectgroup %q: %w", group.Name, err)
	}

	p.logger.Debug("libtmx: objectgroup", "name", group.Name, "objects", len(group.Objects))
	return group, nil
}

func (p *parser) parseObject(attrs []spec.Attr) (Object, error) {
	object := Object{
		Visible:    true,
		Properties: make(Properties),
	}
	var width, height *uint32
	err := p.extract(attrs, "object",
		spec.Required("x", spec.Int(&object.X)),
		spec.Required("y", spec.Int(&object.Y)),
		spec.Optional("width", spec.Pointer(&width, spec.ParseUint)),
		spec.Optional("height", spec.Pointer(&height, spec.ParseUint)),
		spec.Optional("visible", spec.Bool(&object.Visible)),
		spec.Optional("id", spec.Uint(&object.ID)),
		spec.Optional("name", spec.Text(&object.Name)),
		spec.Optional("type", spec.Text(&object.Type)),
	)
	if err != nil {
		return Object{}, err
	}

	shaped := false
	shape := func(kind ObjectKind) handler {
		return func(attrs []spec.Attr) error {
			var points []Point
			if kind == Ellipse {
				if width == nil || height == nil {
					return fmt.Errorf("%w: an ellipse must have a width and height", spec.ErrMalformedAttributes)
				}
			} else {
				var err error
				if points, err = p.parsePoints(attrs, kind.String()); err != nil {
					return err
				}
			}
			object.Kind, object.Points, shaped = kind, points, true
			return p.descend(kind.String(), nil)
		}
	}

	err = p.descend("object", map[string]handler{
		"ellipse":  shape(Ellipse),
		"polyline": shape(Polyline),
		"polygon":  shape(Polygon),
		"properties": func([]spec.Attr) error {
			return p.parseProperties(object.Properties)
		},
	})
	if err != nil {
		return Object{}, err
	}

	if !shaped {
		if width == nil || height == nil {
			return Object{}, fmt.Errorf("%w: a rect must have a width and a height", spec.ErrMalformedAttributes)
		}
		object.Kind = Rect
	}
	if object.Kind == Rect || object.Kind == Ellipse {
		object.Width, object.Height = *width, *height
	}
	return object, nil
}

func (p *parser) parsePoints(attrs []spec.Attr, what string) ([]Point, error) {
	var text string
	err := p.extract(attrs, what, spec.Required("points", spec.Text(&text)))
	if err != nil {
		return nil, err
	}
	points, err := spec.ParsePoints(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return points, nil
}

// parseProperties adds the properties of a properties element to props.
func (p *parser) parseProperties(props Properties) error {
	parsed := make(Properties)
	err := p.descend("properties", map[string]handler{
		"property": func(attrs []spec.Attr) error {
			var name, value string
			err := p.extract(attrs, "property",
				spec.Required("name", spec.Text(&name)),
				spec.Required("value", spec.Text(&value)),
			)
			if err != nil {
				return err
			}
			parsed[name] = value
			return p.descend("property", nil)
		},
	})
	if err != nil {
		return err
	}
	maps.Copy(props, parsed)
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/eak1mov/go-libtmx/cache"
	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/google/subcommands"
)

const defaultMapPath = "assets/tiled_base64_zlib.tmx"

type dumpCmd struct {
	inputPath string
	strict    bool
}

func (c *dumpCmd) Name() string     { return "dump" }
func (c *dumpCmd) Synopsis() string { return "print the contents of a map" }
func (c *dumpCmd) Usage() string {
	return "tmxutils dump [-i <path>] [-strict]\n"
}
func (c *dumpCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", defaultMapPath, "Input map path")
	f.BoolVar(&c.strict, "strict", false, "Reject malformed optional attributes and mismatched tile data")
}

func parseOptions(strict bool) []tmx.Option {
	opts := []tmx.Option{tmx.WithLogger(slog.Default())}
	if strict {
		opts = append(opts, tmx.WithStrict())
	}
	return opts
}

// loadMap parses the map at filePath and resolves its external tilesets.
func loadMap(filePath string, strict bool) (*tmx.Map, error) {
	opts := parseOptions(strict)
	m, err := tmx.ParseFile(filePath, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	c := cache.NewFilesystemCache()
	return cache.ResolveTilesets(c, m, filepath.Dir(filePath), opts...)
}

func formatColour(colour *tmx.Colour) string {
	if colour == nil {
		return "none"
	}
	return colour.String()
}

func formatProperties(props tmx.Properties) string {
	var sb strings.Builder
	for _, name := range slices.Sorted(maps.Keys(props)) {
		fmt.Fprintf(&sb, " %s=%q", name, props[name])
	}
	return sb.String()
}

func dumpMap(w io.Writer, m *tmx.Map) {
	fmt.Fprintf(w, "map version=%s orientation=%v size=%dx%d tile=%dx%d background=%s\n",
		m.Version, m.Orientation, m.Width, m.Height, m.TileWidth, m.TileHeight, formatColour(m.BackgroundColour))
	if len(m.Properties) > 0 {
		fmt.Fprintf(w, "  properties:%s\n", formatProperties(m.Properties))
	}

	for _, tileset := range m.Tilesets {
		fmt.Fprintf(w, "  tileset %q firstgid=%d tile=%dx%d spacing=%d margin=%d",
			tileset.Name, tileset.FirstGID, tileset.TileWidth, tileset.TileHeight, tileset.Spacing, tileset.Margin)
		if tileset.Source != "" {
			fmt.Fprintf(w, " source=%s", tileset.Source)
		}
		fmt.Fprintln(w)
		for _, image := range tileset.Images {
			fmt.Fprintf(w, "    image %s %dx%d trans=%s\n",
				image.Source, image.Width, image.Height, formatColour(image.TransparentColour))
		}
	}

	for _, layer := range m.Layers {
		fmt.Fprintf(w, "  layer %q opacity=%g visible=%t\n", layer.Name, layer.Opacity, layer.Visible)
		for _, row := range layer.Tiles {
			fmt.Fprint(w, "   ")
			for _, gid := range row {
				fmt.Fprintf(w, " %3d", gid)
			}
			fmt.Fprintln(w)
		}
	}

	for _, group := range m.ObjectGroups {
		fmt.Fprintf(w, "  objectgroup %q opacity=%g visible=%t color=%s\n",
			group.Name, group.Opacity, group.Visible, formatColour(group.Colour))
		for _, object := range group.Objects {
			fmt.Fprintf(w, "    %v id=%d name=%q at %d,%d", object.Kind, object.ID, object.Name, object.X, object.Y)
			switch object.Kind {
			case tmx.Rect, tmx.Ellipse:
				fmt.Fprintf(w, " size %dx%d", object.Width, object.Height)
			case tmx.Polyline, tmx.Polygon:
				fmt.Fprintf(w, " points %v", object.Points)
			}
			fmt.Fprintln(w)
		}
	}
}

func (c *dumpCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	m, err := loadMap(c.inputPath, c.strict)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	dumpMap(os.Stdout, m)
	return subcommands.ExitSuccess
}

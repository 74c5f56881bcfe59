package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"strconv"

	"github.com/eak1mov/go-libtmx/celldb"
	"github.com/eak1mov/go-libtmx/grid"
	"github.com/eak1mov/go-libtmx/index"
	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type exportCmd struct {
	inputPath    string
	outputFormat string
	outputPath   string
	order        string
	strict       bool
}

func (c *exportCmd) Name() string     { return "export" }
func (c *exportCmd) Synopsis() string { return "export the non-empty cells of all layers" }
func (c *exportCmd) Usage() string {
	return "tmxutils export -i <path> -o <path> [-of <format>] [-order <order>] [-strict]\n"
}
func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input map path")
	f.StringVar(&c.outputPath, "o", "", "Output path")
	f.StringVar(&c.outputFormat, "of", "", "Output format (index, sqlite)")
	f.StringVar(&c.order, "order", "row", "Cell order of index output (row, hilbert)")
	f.BoolVar(&c.strict, "strict", false, "Reject malformed optional attributes and mismatched tile data")
}

func mapMetadata(m *tmx.Map) map[string]string {
	metadata := map[string]string{
		"version":     m.Version,
		"orientation": m.Orientation.String(),
		"width":       strconv.FormatUint(uint64(m.Width), 10),
		"height":      strconv.FormatUint(uint64(m.Height), 10),
		"tilewidth":   strconv.FormatUint(uint64(m.TileWidth), 10),
		"tileheight":  strconv.FormatUint(uint64(m.TileHeight), 10),
	}
	for i, layer := range m.Layers {
		metadata[fmt.Sprintf("layer.%d", i)] = layer.Name
	}
	for name, value := range m.Properties {
		metadata["property."+name] = value
	}
	return metadata
}

func (c *exportCmd) newWriter(m *tmx.Map) (grid.Writer, error) {
	switch deduceFormat(c.outputFormat, c.outputPath) {
	case "index":
		order, err := index.ParseOrder(c.order)
		if err != nil {
			return nil, err
		}
		return index.NewWriter(c.outputPath, index.WithOrder(order), index.WithLogger(slog.Default()))
	case "sqlite":
		return celldb.NewWriter(c.outputPath, celldb.WithMetadata(mapMetadata(m)), celldb.WithLogger(slog.Default()))
	}
	return nil, fmt.Errorf("invalid output format: %q", c.outputFormat)
}

func (c *exportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	m, err := loadMap(c.inputPath, c.strict)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	writer, err := c.newWriter(m)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if closer, ok := writer.(io.Closer); ok {
		defer closer.Close()
	}

	bar := progressbar.NewOptions(-1, progressbar.OptionShowIts(), progressbar.OptionShowCount())
	err = grid.Copy(writer, m, func() { bar.Add(1) })
	bar.Finish()
	fmt.Println()

	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

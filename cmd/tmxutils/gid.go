package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/google/subcommands"
)

type gidCmd struct {
	inputPath string
}

func (c *gidCmd) Name() string     { return "gid" }
func (c *gidCmd) Synopsis() string { return "print which tileset each GID belongs to" }
func (c *gidCmd) Usage() string {
	return "tmxutils gid -i <path> <gid>...\n"
}
func (c *gidCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", defaultMapPath, "Input map path")
}

func printTilesets(w io.Writer, m *tmx.Map, args []string) error {
	for _, arg := range args {
		value, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid gid %q: %w", arg, err)
		}
		gid := uint32(value)

		tileset := m.TilesetByGID(gid)
		if tileset == nil {
			fmt.Fprintf(w, "%d: none\n", gid)
			continue
		}
		fmt.Fprintf(w, "%d: %q firstgid=%d local=%d\n", gid, tileset.Name, tileset.FirstGID, gid-tileset.FirstGID)
	}
	return nil
}

func (c *gidCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		log.Println("no gid given")
		return subcommands.ExitUsageError
	}

	m, err := loadMap(c.inputPath, false)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	if err := printTilesets(os.Stdout, m, f.Args()); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

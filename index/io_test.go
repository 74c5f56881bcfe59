package index_test

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/eak1mov/go-libtmx/grid"
	"github.com/eak1mov/go-libtmx/index"
	"github.com/eak1mov/go-libtmx/internal"
	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sortCells(a, b grid.Cell) bool {
	if a.Layer != b.Layer {
		return a.Layer < b.Layer
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

func TestWriterReader(t *testing.T) {
	for _, tc := range []struct {
		Name  string
		Order index.Order
	}{
		{Name: "row", Order: index.OrderRow},
		{Name: "hilbert", Order: index.OrderHilbert},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			testData, err := internal.ReadTestdata("../testdata", "tiled_base64_zlib.tmx")
			if err != nil {
				t.Fatalf("failed to read test data: %v", err)
			}
			m, err := tmx.Parse(bytes.NewReader(testData))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			filePath := filepath.Join(t.TempDir(), "cells.index")
			writer, err := index.NewWriter(filePath, index.WithOrder(tc.Order))
			if err != nil {
				t.Fatalf("NewWriter failed: %v", err)
			}
			defer writer.Close()

			if err := grid.Copy(writer, m, nil); err != nil {
				t.Fatalf("Copy failed: %v", err)
			}

			reader, err := index.NewFileReader(filePath)
			if err != nil {
				t.Fatalf("NewFileReader failed: %v", err)
			}

			want := slices.Collect(grid.IterCells(m))
			got := slices.Collect(grid.IterCells(reader))
			if diff := cmp.Diff(want, got, cmpopts.SortSlices(sortCells)); diff != "" {
				t.Errorf("VisitCells mismatch (-want+got):\n%v", diff)
			}

			for _, cell := range want {
				gid, err := reader.ReadCell(cell.Layer, cell.X, cell.Y)
				if err != nil {
					t.Errorf("ReadCell(%v) failed: %v", cell, err)
					continue
				}
				if gid != cell.GID {
					t.Errorf("ReadCell(%v) = %d, want = %d", cell, gid, cell.GID)
				}
			}

			gid, err := reader.ReadCell(9, 9, 9)
			if err != nil {
				t.Errorf("ReadCell(missing cell) failed: %v", err)
			}
			if gid != 0 {
				t.Errorf("ReadCell(missing cell) expected 0, got: %d", gid)
			}
		})
	}
}

func TestWriteReadAll(t *testing.T) {
	items := []index.Item{
		{Layer: 0, X: 1, Y: 2, GID: 3},
		{Layer: 1, X: 0xffffffff, Y: 0, GID: 0x80000001},
	}

	var buffer bytes.Buffer
	if err := index.WriteAll(items, &buffer); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}
	if got, want := buffer.Len(), 32; got != want {
		t.Fatalf("WriteAll size = %d, want = %d", got, want)
	}
	if got, want := buffer.Bytes()[:16], []byte{0, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0}; !bytes.Equal(got, want) {
		t.Errorf("WriteAll first record = %v, want = %v", got, want)
	}

	got, err := index.ReadAll(buffer.Bytes())
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if diff := cmp.Diff(items, got); diff != "" {
		t.Errorf("ReadAll mismatch (-want+got):\n%v", diff)
	}

	if _, err := index.ReadAll(buffer.Bytes()[:31]); err == nil {
		t.Errorf("ReadAll(truncated) expected error")
	}

	empty, err := index.ReadAll(nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("ReadAll(empty) = %v, %v", empty, err)
	}
}

func TestSort(t *testing.T) {
	var items []index.Item
	for layer := range uint32(2) {
		for y := range uint32(4) {
			for x := range uint32(4) {
				items = append(items, index.Item{Layer: 1 - layer, X: x, Y: y, GID: 1})
			}
		}
	}

	rowItems := slices.Clone(items)
	if err := index.Sort(rowItems, index.OrderRow); err != nil {
		t.Fatalf("Sort(row) failed: %v", err)
	}
	if got, want := rowItems[0], (index.Item{Layer: 0, X: 0, Y: 0, GID: 1}); got != want {
		t.Errorf("Sort(row) first = %v, want = %v", got, want)
	}
	if got, want := rowItems[4], (index.Item{Layer: 0, X: 0, Y: 1, GID: 1}); got != want {
		t.Errorf("Sort(row) fifth = %v, want = %v", got, want)
	}

	hilbertItems := slices.Clone(items)
	if err := index.Sort(hilbertItems, index.OrderHilbert); err != nil {
		t.Fatalf("Sort(hilbert) failed: %v", err)
	}
	if diff := cmp.Diff(rowItems, hilbertItems, cmpopts.SortSlices(func(a, b index.Item) bool {
		return sortCells(a.Cell(), b.Cell())
	})); diff != "" {
		t.Errorf("Sort(hilbert) is not a permutation (-want+got):\n%v", diff)
	}
	for i := 1; i < len(hilbertItems); i++ {
		prev, cur := hilbertItems[i-1], hilbertItems[i]
		if prev.Layer != cur.Layer {
			continue
		}
		dx := int(cur.X) - int(prev.X)
		dy := int(cur.Y) - int(prev.Y)
		if dx*dx+dy*dy != 1 {
			t.Errorf("Sort(hilbert) step %v -> %v is not to a neighbour", prev, cur)
		}
	}

	if err := index.Sort(items, index.Order(7)); err == nil {
		t.Errorf("Sort(unknown order) expected error")
	}
}

func TestHilbertCode(t *testing.T) {
	seen := make(map[int]bool)
	for y := range uint32(8) {
		for x := range uint32(8) {
			code, err := index.HilbertCode(x, y, 8)
			if err != nil {
				t.Fatalf("HilbertCode(%d, %d) failed: %v", x, y, err)
			}
			if code < 0 || code >= 64 || seen[code] {
				t.Errorf("HilbertCode(%d, %d) = %d is out of range or repeated", x, y, code)
			}
			seen[code] = true
		}
	}

	if _, err := index.HilbertCode(0, 0, 6); err == nil {
		t.Errorf("HilbertCode(side 6) expected error")
	}
}

func TestParseOrder(t *testing.T) {
	for _, order := range []index.Order{index.OrderRow, index.OrderHilbert} {
		got, err := index.ParseOrder(order.String())
		if err != nil || got != order {
			t.Errorf("ParseOrder(%q) = %v, %v", order.String(), got, err)
		}
	}
	if _, err := index.ParseOrder("zorder"); err == nil {
		t.Errorf("ParseOrder(zorder) expected error")
	}
}

func TestWriterLogging(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	writer, err := index.NewWriter(filepath.Join(t.TempDir(), "cells.index"), index.WithLogger(logger))
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	defer writer.Close()

	if err := writer.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		if !strings.Contains(line, `msg="libtmx: `) {
			t.Errorf("log line %q does not carry the libtmx prefix", line)
		}
	}
}

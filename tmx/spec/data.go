package spec

import (
	"bufio"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

const maxRowPrealloc = 4096

// DecodeTiles turns the text of a base64 + zlib data element into rows of
// width GIDs. A trailing row shorter than width is dropped; dropped reports
// how many GIDs it held.
func DecodeTiles(text string, width uint32) (rows [][]uint32, dropped int, err error) {
	if width == 0 {
		return nil, 0, fmt.Errorf("%w: tile data row width must be positive", ErrMalformedAttributes)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return [][]uint32{}, 0, nil
	}

	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDecoding, err)
	}

	reader, err := NewDecompressor(raw, CompressionZlib)
	if err != nil {
		return nil, 0, err
	}
	defer reader.Close()

	// width is untrusted; rows grow with the data actually read.
	rowCap := int(min(width, maxRowPrealloc))
	buffered := bufio.NewReader(reader)
	rows = make([][]uint32, 0)
	row := make([]uint32, 0, rowCap)
	var buf [4]byte
	for {
		_, err := io.ReadFull(buffered, buf[:])
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrDecompressing, err)
		}

		row = append(row, binary.LittleEndian.Uint32(buf[:]))
		if uint32(len(row)) == width {
			rows = append(rows, row)
			row = make([]uint32, 0, rowCap)
		}
	}

	return rows, len(row), nil
}

// EncodeTiles is the inverse of DecodeTiles: GIDs are written as
// little-endian uint32, row after row, then zlib compressed and base64 encoded.
func EncodeTiles(rows [][]uint32) (string, error) {
	data := make([]byte, 0)
	for _, row := range rows {
		for _, gid := range row {
			data = binary.LittleEndian.AppendUint32(data, gid)
		}
	}

	compressed, err := Compress(data, CompressionZlib)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(compressed), nil
}

package spec

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

type Encoding uint8

const (
	EncodingUnknown Encoding = iota
	EncodingXML
	EncodingBase64
	EncodingCSV
)

type Compression uint8

const (
	CompressionUnknown Compression = iota
	CompressionNone
	CompressionZlib
	CompressionGzip
	CompressionZstd
)

var encodingNames = map[string]Encoding{
	"":       EncodingXML,
	"base64": EncodingBase64,
	"csv":    EncodingCSV,
}

var compressionNames = map[string]Compression{
	"":     CompressionNone,
	"zlib": CompressionZlib,
	"gzip": CompressionGzip,
	"zstd": CompressionZstd,
}

func (e Encoding) String() string {
	for name, encoding := range encodingNames {
		if encoding == e {
			if name == "" {
				return "xml"
			}
			return name
		}
	}
	return fmt.Sprintf("Encoding(%d)", e)
}

func (c Compression) String() string {
	for name, compression := range compressionNames {
		if compression == c {
			if name == "" {
				return "none"
			}
			return name
		}
	}
	return fmt.Sprintf("Compression(%d)", c)
}

// ParseEncoding maps a data element's encoding attribute, "" meaning absent.
func ParseEncoding(s string) Encoding {
	return encodingNames[s]
}

// ParseCompression maps a data element's compression attribute, "" meaning absent.
func ParseCompression(s string) Compression {
	return compressionNames[s]
}

// CheckFormat reports ErrUnsupported for every encoding and compression pair
// other than base64 + zlib.
func CheckFormat(encoding, compression string) error {
	if ParseEncoding(encoding) != EncodingBase64 || ParseCompression(compression) != CompressionZlib {
		return fmt.Errorf("%w: tile data encoding %q with compression %q, only base64 and zlib allowed",
			ErrUnsupported, encoding, compression)
	}
	return nil
}

func Compress(data []byte, compression Compression) ([]byte, error) {
	if compression != CompressionZlib {
		return nil, fmt.Errorf("%w: compression %v", ErrUnsupported, compression)
	}

	var buffer bytes.Buffer
	writer, _ := zlib.NewWriterLevel(&buffer, zlib.BestCompression)

	_, err := writer.Write(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}

	return buffer.Bytes(), nil
}

// NewDecompressor returns a reader inflating data. The reader reports io.EOF
// only at the natural end of the compressed stream.
func NewDecompressor(data []byte, compression Compression) (io.ReadCloser, error) {
	if compression != CompressionZlib {
		return nil, fmt.Errorf("%w: compression %v", ErrUnsupported, compression)
	}

	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompressing, err)
	}
	return reader, nil
}

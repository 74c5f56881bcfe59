package index

import (
	"bufio"
	"errors"
	"log/slog"
	"os"

	"github.com/eak1mov/go-libtmx/grid"
)

// Writer implements grid.Writer interface for index files.
// Items are buffered in memory and written sorted by Finalize.
type Writer struct {
	file   *os.File
	items  []Item
	order  Order
	logger *slog.Logger
}

type writerConfig struct {
	Order  Order
	Logger *slog.Logger
}

type WriterOption func(*writerConfig)

func WithOrder(order Order) WriterOption {
	return func(c *writerConfig) { c.Order = order }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates a new Writer for writing to an index file.
//
// The returned Writer must be closed after use.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		Order:  OrderRow,
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, err
	}

	return &Writer{
		file:   file,
		items:  make([]Item, 0),
		order:  config.Order,
		logger: config.Logger,
	}, nil
}

func (w *Writer) Close() error {
	return w.file.Close()
}

func (w *Writer) WriteCell(cell grid.Cell) error {
	w.items = append(w.items, ItemOf(cell))
	return nil
}

func (w *Writer) Finalize() error {
	w.logger.Debug("libtmx: sorting index", "items", len(w.items), "order", w.order)
	if err := Sort(w.items, w.order); err != nil {
		return err
	}

	writer := bufio.NewWriter(w.file)
	if err := WriteAll(w.items, writer); err != nil {
		return err
	}
	err := errors.Join(writer.Flush(), w.file.Sync())

	w.logger.Debug("libtmx: done!")
	return err
}

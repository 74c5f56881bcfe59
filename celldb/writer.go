package celldb

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/eak1mov/go-libtmx/grid"
)

// Writer implements grid.Writer interface for cell databases.
type Writer struct {
	db     *sql.DB
	tx     *sql.Tx
	stmt   *sql.Stmt
	logger *slog.Logger
}

type writerConfig struct {
	Metadata map[string]string
	Logger   *slog.Logger
}

type WriterOption func(*writerConfig)

func WithMetadata(metadata map[string]string) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates a new Writer for writing to a cell database file.
// It applies given options and initializes database for writing cells.
// All cells are written in one transaction committed by Finalize.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	var err error
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	_, err = db.Exec(`
		CREATE TABLE metadata (name TEXT, value TEXT);
		CREATE TABLE cells (
			layer INTEGER,
			x INTEGER,
			y INTEGER,
			gid INTEGER
		);
	`)
	if err != nil {
		return nil, err
	}

	for k, v := range config.Metadata {
		_, err = db.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", k, v)
		if err != nil {
			return nil, err
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	stmt, err := tx.Prepare("INSERT INTO cells (layer, x, y, gid) VALUES (?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	return &Writer{db, tx, stmt, config.Logger}, nil
}

// Close releases the database. Cells not yet finalized are discarded.
func (w *Writer) Close() error {
	err := w.stmt.Close()
	if w.tx != nil {
		err = errors.Join(err, w.tx.Rollback())
	}
	return errors.Join(err, w.db.Close())
}

func (w *Writer) WriteCell(cell grid.Cell) error {
	_, err := w.stmt.Exec(cell.Layer, cell.X, cell.Y, cell.GID)
	return err
}

func (w *Writer) Finalize() error {
	w.logger.Debug("libtmx: committing cells")
	tx := w.tx
	if tx == nil {
		return errors.New("celldb: writer already finalized")
	}
	w.tx = nil
	if err := tx.Commit(); err != nil {
		return err
	}

	w.logger.Debug("libtmx: creating index")
	_, err := w.db.Exec("CREATE UNIQUE INDEX cell_index ON cells (layer, x, y)")

	w.logger.Debug("libtmx: done!")
	return err
}

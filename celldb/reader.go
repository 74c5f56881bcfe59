// Package celldb stores decoded map cells and map metadata in a SQLite
// database, one row per non-empty cell.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package celldb

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/eak1mov/go-libtmx/grid"
)

// Reader implements grid.Reader and grid.Visitor interfaces for cell databases.
type Reader struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewReader creates a new Reader for the given cell database file path.
//
// The returned Reader must be closed after use to release database resources.
func NewReader(filePath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}

	stmt, err := db.Prepare("SELECT gid FROM cells WHERE layer = ? AND x = ? AND y = ?")
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Reader{db: db, stmt: stmt}, nil
}

func (r *Reader) Close() error {
	return errors.Join(r.stmt.Close(), r.db.Close())
}

func (r *Reader) ReadMetadata() (map[string]string, error) {
	metadata := make(map[string]string)

	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return metadata, nil
}

func (r *Reader) ReadCell(layer, x, y uint32) (uint32, error) {
	var gid uint32
	if err := r.stmt.QueryRow(layer, x, y).Scan(&gid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	return gid, nil
}

// VisitCells visits cells in layer, row, column order.
func (r *Reader) VisitCells(visitor func(grid.Cell) error) error {
	rows, err := r.db.Query("SELECT layer, x, y, gid FROM cells ORDER BY layer, y, x")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cell grid.Cell
		if err := rows.Scan(&cell.Layer, &cell.X, &cell.Y, &cell.GID); err != nil {
			return err
		}

		if err := visitor(cell); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return err
	}

	return nil
}

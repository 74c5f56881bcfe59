package internal

import (
	"os"
	"path/filepath"
)

// ReadTestdata reads a fixture file from the testdata directory dir.
func ReadTestdata(dir, fileName string) ([]byte, error) {
	return os.ReadFile(filepath.Join(dir, fileName))
}

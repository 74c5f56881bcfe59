package internal

import (
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestdataCases yields the name and contents of every fixture in dir
// matching pattern.
func TestdataCases(t *testing.T, dir, pattern string) iter.Seq2[string, []byte] {
	return func(yield func(string, []byte) bool) {
		t.Helper()

		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		require.NoError(t, err)
		require.NotEmpty(t, matches, "no fixtures match %s", pattern)

		for _, match := range matches {
			fileData, err := os.ReadFile(match)
			require.NoError(t, err)

			if !yield(filepath.Base(match), fileData) {
				return
			}
		}
	}
}

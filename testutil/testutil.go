package testutil

// Helpers for tests.

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tidbyt.dev/ttgraph/graph"
	"tidbyt.dev/ttgraph/parse"
)

// Writes each table to a fresh temporary directory, lines joined by
// newlines. Returns the directory, which is removed when the test
// ends.
func WriteTables(t testing.TB, files map[string][]string) string {
	dir := t.TempDir()

	for filename, content := range files {
		err := os.WriteFile(
			filepath.Join(dir, filename),
			[]byte(strings.Join(content, "\n")),
			0644,
		)
		require.NoError(t, err)
	}

	return dir
}

// Parses the given tables, in order, into a new graph.
func BuildGraph(t testing.TB, tables ...[]string) *graph.Graph {
	g := graph.New()
	for _, table := range tables {
		_, err := parse.ParseTimetable(g, strings.NewReader(strings.Join(table, "\n")))
		require.NoError(t, err)
	}
	return g
}

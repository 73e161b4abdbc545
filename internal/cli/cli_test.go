package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const roomPlan = `{
  "bounds": {"minX": 0, "minY": 0, "maxX": 10, "maxY": 8},
  "walls": [
    {"x1": 0, "y1": 0, "x2": 10, "y2": 0},
    {"x1": 10, "y1": 0, "x2": 10, "y2": 8},
    {"x1": 10, "y1": 8, "x2": 0, "y2": 8},
    {"x1": 0, "y1": 8, "x2": 0, "y2": 0}
  ],
  "entrances": [{"x": 4.5, "y": 0, "width": 1, "height": 0.2}]
}`

// testCLI returns a CLI writing to a buffer, with an isolated cache dir.
func testCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	return c, &out
}

func execute(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func writePlan(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(roomPlan), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

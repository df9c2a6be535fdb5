package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadNDJSON_MissingFileIsEmpty(t *testing.T) {
	items, err := LoadNDJSON(filepath.Join(t.TempDir(), "absent.ndjson"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestLoadNDJSON_OneObjectPerLine(t *testing.T) {
	path := writeFile(t, "fills.ndjson", `{"order_id":"a","price":1.5}
{"order_id":"b","price":2.5}
`)
	items, err := LoadNDJSON(path)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", str(items[0], "order_id"))
	assert.Equal(t, 2.5, num(items[1], "price"))
}

func TestLoadNDJSON_ConcatenatedObjectsOnOneLine(t *testing.T) {
	// A torn write can leave two records glued on one line.
	path := writeFile(t, "fills.ndjson", `{"order_id":"a"}{"order_id":"b"}
{"order_id":"c"}
`)
	items, err := LoadNDJSON(path)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "b", str(items[1], "order_id"))
}

func TestLoadNDJSON_SkipsGarbageAndBlankLines(t *testing.T) {
	path := writeFile(t, "fills.ndjson", `{"order_id":"a"}

not json at all
{"order_id":"b"}
`)
	items, err := LoadNDJSON(path)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", str(items[1], "order_id"))
}

func TestAccessors_MissingOrMistyped(t *testing.T) {
	m := map[string]any{"s": "x", "n": 1.5, "wrong": true}
	assert.Equal(t, "x", str(m, "s"))
	assert.Equal(t, "", str(m, "n"))
	assert.Equal(t, "", str(m, "absent"))
	assert.Equal(t, 1.5, num(m, "n"))
	assert.Equal(t, 0.0, num(m, "wrong"))
}

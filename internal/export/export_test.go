package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "records.json")
	records := []map[string]string{
		{"text": "first"},
		{"text": "second"},
	}

	require.NoError(t, ToJSON(records, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[
  {
    "text": "first"
  },
  {
    "text": "second"
  }
]
`, string(data))
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, ToJSON(nil, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "records.csv")
	records := []map[string]string{
		{"text": "first", "href": "/one"},
		{"text": "second"},
	}

	require.NoError(t, ToCSV(records, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "text,href\nfirst,/one\nsecond,\n", string(data))
}

func TestToCSVQuoting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	records := []map[string]string{
		{"text": `say "hi", please`},
	}

	require.NoError(t, ToCSV(records, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "text\n\"say \"\"hi\"\", please\"\n", string(data))
}

func TestColumns(t *testing.T) {
	records := []map[string]string{
		{"href": "/one", "text": "first"},
		{"alt": "x", "text": "second"},
	}
	assert.Equal(t, []string{"text", "alt", "href"}, Columns(records))
	assert.Empty(t, Columns(nil))
}

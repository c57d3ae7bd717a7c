package filestorage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Nrich-sunny/ptt-crawler/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCell(name string) *storage.DataCell {
	return &storage.DataCell{
		Data: map[string]interface{}{
			"Task":    "ptt_tr",
			"CrawlID": "42",
			"Url":     "https://enyakinptt.ptt.gov.tr/EnYakinPTT/Home/getirIsyerleri",
			"Data":    map[string]interface{}{"name": name},
		},
	}
}

func TestWriterOutputsJSONLines(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriter(&buf, nil)

	require.NoError(t, s.Save(testCell("Kadıköy"), testCell("Moda")))
	assert.Empty(t, buf.String(), "buffered until flush")
	require.NoError(t, s.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, "ptt_tr", rec.Spider)
	assert.Equal(t, "42", rec.CrawlID)
	assert.Equal(t, "Moda", rec.Item["name"])
}

func TestFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	for i := 0; i < 2; i++ {
		s, err := New(path, nil)
		require.NoError(t, err)
		require.NoError(t, s.Save(testCell("Kadıköy")))
		require.NoError(t, s.Close())
	}

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(b), "\n"))
}

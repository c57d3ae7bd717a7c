package sqlstorage

import (
	"testing"

	"github.com/Nrich-sunny/ptt-crawler/sqldb"
	"github.com/Nrich-sunny/ptt-crawler/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mysqldb struct {
	created  []sqldb.TableMetaData
	inserted []sqldb.TableMetaData
}

func (m *mysqldb) CreateTable(t sqldb.TableMetaData) error {
	m.created = append(m.created, t)
	return nil
}

func (m *mysqldb) Insert(t sqldb.TableMetaData) error {
	m.inserted = append(m.inserted, t)
	return nil
}

func (m *mysqldb) Close() error { return nil }

func cell(task, name string) *storage.DataCell {
	return &storage.DataCell{
		Columns: []string{"name", "city"},
		Data: map[string]interface{}{
			"Task":    task,
			"Rule":    "facilities",
			"Url":     "https://example.com",
			"Time":    "2024-01-01 00:00:00",
			"CrawlID": "1",
			"Data": map[string]interface{}{
				"name": name,
				"city": "Kadıköy",
			},
		},
	}
}

func TestSaveBatches(t *testing.T) {
	db := &mysqldb{}
	s, err := New(WithDB(db), WithBatchCount(2))
	require.NoError(t, err)

	require.NoError(t, s.Save(cell("ptt_tr", "a"), cell("ptt_tr", "b"), cell("ptt_kargomat_tr", "c")))

	assert.Len(t, db.created, 2, "one table per task")
	require.Len(t, db.inserted, 1, "first batch flushed when the buffer was full")
	assert.Equal(t, 2, db.inserted[0].DataCount)
	assert.Equal(t, []interface{}{
		"a", "Kadıköy", "https://example.com", "2024-01-01 00:00:00", "1",
		"b", "Kadıköy", "https://example.com", "2024-01-01 00:00:00", "1",
	}, db.inserted[0].Args)

	require.NoError(t, s.Flush())
	require.Len(t, db.inserted, 2)
	assert.Equal(t, "ptt_kargomat_tr", db.inserted[1].TableName)

	require.NoError(t, s.Flush())
	assert.Len(t, db.inserted, 2, "empty flush is a no-op")
}

func TestMixedTablesInOneBatch(t *testing.T) {
	db := &mysqldb{}
	s, err := New(WithDB(db), WithBatchCount(10))
	require.NoError(t, err)

	require.NoError(t, s.Save(cell("ptt_tr", "a"), cell("ptt_kargomat_tr", "b"), cell("ptt_tr", "c")))
	require.NoError(t, s.Flush())

	require.Len(t, db.inserted, 2)
	assert.Equal(t, "ptt_tr", db.inserted[0].TableName)
	assert.Equal(t, 2, db.inserted[0].DataCount)
	assert.Equal(t, "ptt_kargomat_tr", db.inserted[1].TableName)
}

func TestSQLiteStore(t *testing.T) {
	s, err := New(WithDriver(sqldb.DriverSQLite), WithSqlUrl(":memory:"), WithBatchCount(1))
	require.NoError(t, err)

	require.NoError(t, s.Save(cell("ptt_tr", "a"), cell("ptt_tr", "b")))
	require.NoError(t, s.Close())
}

package sqlstorage

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Nrich-sunny/ptt-crawler/sqldb"
	"github.com/Nrich-sunny/ptt-crawler/storage"
	"go.uber.org/zap"
)

// SqlStore 按表缓存 DataCell，攒够 BatchCount 条后批量写入
type SqlStore struct {
	mu        sync.Mutex
	dataCells []*storage.DataCell // 分批输出结果缓存
	columns   map[string][]sqldb.Field
	db        sqldb.DBer
	options
}

func New(opts ...Option) (*SqlStore, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	s := &SqlStore{}
	s.options = options
	s.columns = make(map[string][]sqldb.Field)

	if s.db == nil {
		db, err := sqldb.New(
			sqldb.WithDriver(s.driver),
			sqldb.WithSqlUrl(s.sqlUrl),
			sqldb.WithLogger(s.logger),
		)
		if err != nil {
			return nil, err
		}
		s.db = db
	}
	return s, nil
}

func (s *SqlStore) Save(dataCells ...*storage.DataCell) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cell := range dataCells {
		name := cell.GetTableName()
		if _, ok := s.columns[name]; !ok {
			cols := getFields(cell)
			if err := s.db.CreateTable(sqldb.TableMetaData{
				TableName:   name,
				ColumnNames: cols,
				AutoKey:     true,
			}); err != nil {
				s.logger.Error("create table failed", zap.String("table", name), zap.Error(err))
				return fmt.Errorf("create table %s: %w", name, err)
			}
			s.columns[name] = cols
		}
		if len(s.dataCells) >= s.BatchCount {
			if err := s.flush(); err != nil {
				return err
			}
		}
		s.dataCells = append(s.dataCells, cell)
	}
	return nil
}

func (s *SqlStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}

func (s *SqlStore) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	return s.db.Close()
}

func (s *SqlStore) flush() error {
	if len(s.dataCells) == 0 {
		return nil
	}
	defer func() {
		s.dataCells = nil
	}()

	// 同一批次中可能混有多个任务的数据，按表分组插入
	var order []string
	grouped := make(map[string][]*storage.DataCell)
	for _, cell := range s.dataCells {
		name := cell.GetTableName()
		if _, ok := grouped[name]; !ok {
			order = append(order, name)
		}
		grouped[name] = append(grouped[name], cell)
	}

	for _, name := range order {
		cols := s.columns[name]
		cells := grouped[name]
		args := make([]interface{}, 0, len(cols)*len(cells))
		for _, cell := range cells {
			args = append(args, rowArgs(cell, cols)...)
		}
		if err := s.db.Insert(sqldb.TableMetaData{
			TableName:   name,
			ColumnNames: cols,
			Args:        args,
			DataCount:   len(cells),
		}); err != nil {
			return fmt.Errorf("insert %d rows into %s: %w", len(cells), name, err)
		}
	}
	return nil
}

// getFields 条目字段之外追加 Url、Time、CrawlID 三列
func getFields(cell *storage.DataCell) []sqldb.Field {
	taskColumns := cell.Columns
	columnNames := make([]sqldb.Field, 0, len(taskColumns)+3)
	for _, name := range taskColumns {
		columnNames = append(columnNames, sqldb.Field{Title: name, Type: "MEDIUMTEXT"})
	}
	columnNames = append(columnNames,
		sqldb.Field{Title: "Url", Type: "VARCHAR(255)"},
		sqldb.Field{Title: "Time", Type: "VARCHAR(255)"},
		sqldb.Field{Title: "CrawlID", Type: "VARCHAR(64)"},
	)
	return columnNames
}

func rowArgs(cell *storage.DataCell, cols []sqldb.Field) []interface{} {
	fields := cell.Fields()
	args := make([]interface{}, 0, len(cols))
	for _, col := range cols {
		var v interface{}
		switch col.Title {
		case "Url", "Time", "CrawlID":
			v = cell.Data[col.Title]
		default:
			v = fields[col.Title]
		}
		args = append(args, toColumn(v))
	}
	return args
}

func toColumn(v interface{}) interface{} {
	switch value := v.(type) {
	case nil:
		return ""
	case string, int, int64, float64, bool:
		return value
	case fmt.Stringer:
		return value.String()
	default:
		b, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(b)
	}
}

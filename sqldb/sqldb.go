package sqldb

/** 本模块是一个更加底层的模块，只进行数据的存储
**	根据 driver 选择 MySQL 或 SQLite 方言，SQL 语句由纯函数拼接
 */

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// DBer 数据库的接口
type DBer interface {
	CreateTable(t TableMetaData) error
	Insert(t TableMetaData) error
	Close() error
}

// Sqldb : DBer 的实现
type Sqldb struct {
	options
	db *sql.DB
}

func New(opts ...Option) (*Sqldb, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	d := &Sqldb{}
	d.options = options
	if err := d.OpenDB(); err != nil {
		return nil, err
	}
	return d, nil
}

// OpenDB 与数据库建立连接，连接地址由外部传入
func (d *Sqldb) OpenDB() error {
	if d.driver != DriverMySQL && d.driver != DriverSQLite {
		return fmt.Errorf("unsupported sql driver %q", d.driver)
	}
	db, err := sql.Open(d.driver, d.sqlUrl)
	if err != nil {
		return fmt.Errorf("open %s: %w", d.driver, err)
	}
	if d.driver == DriverSQLite {
		// 内存库每个连接都是独立的数据库
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(2048)
		db.SetMaxIdleConns(2048)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("ping %s: %w", d.driver, err)
	}
	d.db = db
	return nil
}

func (d *Sqldb) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

type Field struct {
	Title string // 字段名
	Type  string // 字段属性(类型)
}

type TableMetaData struct {
	TableName   string
	ColumnNames []Field       // 标题字段
	Args        []interface{} // 要插入的数据
	DataCount   int           // 插入数据的数量
	AutoKey     bool          // 标识是否为表创建自增主键
}

func (d *Sqldb) CreateTable(t TableMetaData) error {
	query, err := CreateTableSQL(d.driver, t)
	if err != nil {
		return err
	}
	d.logger.Debug("create table", zap.String("sql", query))

	_, err = d.db.Exec(query)
	return err
}

func (d *Sqldb) Insert(t TableMetaData) error {
	query, err := InsertSQL(t)
	if err != nil {
		return err
	}
	d.logger.Debug("insert table", zap.String("sql", query))

	_, err = d.db.Exec(query, t.Args...)
	return err
}

// CreateTableSQL 拼接建表语句
func CreateTableSQL(driver string, t TableMetaData) (string, error) {
	if len(t.ColumnNames) == 0 {
		return "", errors.New("column can not be empty")
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS " + quote(t.TableName) + " (")
	if t.AutoKey {
		if driver == DriverSQLite {
			b.WriteString("id INTEGER PRIMARY KEY AUTOINCREMENT,")
		} else {
			b.WriteString("id INT(12) NOT NULL PRIMARY KEY AUTO_INCREMENT,")
		}
	}
	for _, c := range t.ColumnNames {
		b.WriteString(quote(c.Title) + " " + c.Type + ",")
	}
	query := strings.TrimSuffix(b.String(), ",") + ")"
	if driver == DriverMySQL {
		query += " ENGINE=MyISAM DEFAULT CHARSET=utf8mb4"
	}
	return query + ";", nil
}

// InsertSQL 拼接批量插入语句，占位符数量 = 列数 * DataCount
func InsertSQL(t TableMetaData) (string, error) {
	if len(t.ColumnNames) == 0 {
		return "", errors.New("empty columns")
	}
	if t.DataCount <= 0 {
		return "", errors.New("no data to insert")
	}
	if len(t.Args) != len(t.ColumnNames)*t.DataCount {
		return "", fmt.Errorf("args count %d does not match %d columns x %d rows", len(t.Args), len(t.ColumnNames), t.DataCount)
	}

	titles := make([]string, 0, len(t.ColumnNames))
	for _, v := range t.ColumnNames {
		titles = append(titles, quote(v.Title))
	}
	query := "INSERT INTO " + quote(t.TableName) + "(" + strings.Join(titles, ",") + ") VALUES "
	blank := ",(" + strings.Repeat(",?", len(t.ColumnNames))[1:] + ")"
	query += strings.Repeat(blank, t.DataCount)[1:] + ";"
	return query, nil
}

// 表名和字段名来自任务配置，反引号在 MySQL 与 SQLite 中都可用
func quote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "") + "`"
}

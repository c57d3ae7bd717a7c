package sqlstorage

import (
	"github.com/Nrich-sunny/ptt-crawler/sqldb"
	"go.uber.org/zap"
)

type options struct {
	logger     *zap.Logger
	driver     string
	sqlUrl     string
	BatchCount int
	db         sqldb.DBer
}

var defaultOptions = options{
	logger:     zap.NewNop(),
	driver:     sqldb.DriverMySQL,
	BatchCount: 1000,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithDriver(driver string) Option {
	return func(opts *options) {
		opts.driver = driver
	}
}

func WithSqlUrl(sqlUrl string) Option {
	return func(opts *options) {
		opts.sqlUrl = sqlUrl
	}
}

func WithBatchCount(batchCount int) Option {
	return func(opts *options) {
		opts.BatchCount = batchCount
	}
}

// WithDB 使用已建立的连接，主要用于测试
func WithDB(db sqldb.DBer) Option {
	return func(opts *options) {
		opts.db = db
	}
}

package sqldb

import "go.uber.org/zap"

type options struct {
	logger *zap.Logger
	driver string
	sqlUrl string
}

var defaultOptions = options{
	logger: zap.NewNop(),
	driver: DriverMySQL,
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

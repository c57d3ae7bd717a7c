package election

import (
	"time"

	"go.uber.org/zap"
)

type options struct {
	logger      *zap.Logger
	endpoints   []string // etcd 地址
	key         string
	ttl         int // 会话租约，秒
	dialTimeout time.Duration
}

var defaultOptions = options{
	logger:      zap.NewNop(),
	key:         "/ptt-crawler/election",
	ttl:         10,
	dialTimeout: 5 * time.Second,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithEndpoints(endpoints ...string) Option {
	return func(opts *options) {
		opts.endpoints = endpoints
	}
}

func WithKey(key string) Option {
	return func(opts *options) {
		if key != "" {
			opts.key = key
		}
	}
}

func WithTTL(ttl int) Option {
	return func(opts *options) {
		if ttl > 0 {
			opts.ttl = ttl
		}
	}
}

func WithDialTimeout(d time.Duration) Option {
	return func(opts *options) {
		if d > 0 {
			opts.dialTimeout = d
		}
	}
}

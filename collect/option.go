package collect

import (
	"github.com/Nrich-sunny/ptt-crawler/limiter"
	"github.com/Nrich-sunny/ptt-crawler/storage"
	"go.uber.org/zap"
)

type Options struct {
	Name     string `json:"name"` // 任务名称，应保证唯一性
	Url      string `json:"url"`  // 站点根地址
	Cookie   string `json:"cookie"`
	WaitTime int64  `json:"wait_time"` // 随机休眠时间，秒
	Reload   bool   `json:"reload"`    // 网站是否可以重复爬取
	MaxDepth int    `json:"max_depth"`
	Retry    int    `json:"retry"` // 请求失败后的最大重试次数
	CrawlID  string `json:"crawl_id"`
	Fetcher  Fetcher
	Storage  storage.Storage
	Limit    limiter.RateLimiter
	Logger   *zap.Logger
}

var defaultOptions = Options{
	Logger:   zap.NewNop(),
	WaitTime: 0,
	Reload:   false,
	MaxDepth: 5,
	Retry:    2,
}

type Option func(opts *Options)

func WithName(name string) Option {
	return func(opts *Options) {
		opts.Name = name
	}
}

func WithUrl(url string) Option {
	return func(opts *Options) {
		opts.Url = url
	}
}

func WithCookie(cookie string) Option {
	return func(opts *Options) {
		opts.Cookie = cookie
	}
}

func WithWaitTime(waitTime int64) Option {
	return func(opts *Options) {
		opts.WaitTime = waitTime
	}
}

func WithReload(reload bool) Option {
	return func(opts *Options) {
		opts.Reload = reload
	}
}

func WithMaxDepth(maxDepth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = maxDepth
	}
}

func WithRetry(retry int) Option {
	return func(opts *Options) {
		opts.Retry = retry
	}
}

func WithCrawlID(id string) Option {
	return func(opts *Options) {
		opts.CrawlID = id
	}
}

func WithFetcher(f Fetcher) Option {
	return func(opts *Options) {
		opts.Fetcher = f
	}
}

func WithStorage(s storage.Storage) Option {
	return func(opts *Options) {
		opts.Storage = s
	}
}

func WithLimiter(l limiter.RateLimiter) Option {
	return func(opts *Options) {
		opts.Limit = l
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

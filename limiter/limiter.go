package limiter

import (
	"context"
	"sort"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter 对限速器的抽象，golang.org/x/time/rate 实现的 Limiter 自动就实现了该接口
type RateLimiter interface {
	Wait(ctx context.Context) error
	Limit() rate.Limit
}

// MultiLimiter 多层限速器，例如同时限制每秒和每分钟的请求数
type MultiLimiter struct {
	limiters []RateLimiter
}

func NewMultiLimiter(limiters ...RateLimiter) *MultiLimiter {
	byLimit := func(i, j int) bool {
		return limiters[i].Limit() < limiters[j].Limit()
	}
	// 将速率由小到大排序
	sort.Slice(limiters, byLimit)
	return &MultiLimiter{
		limiters: limiters,
	}
}

func (l *MultiLimiter) Wait(ctx context.Context) error {
	for _, l := range l.limiters {
		if err := l.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Limit 返回最小速率的限速器的速率，没有限速器时不限速
func (l *MultiLimiter) Limit() rate.Limit {
	if len(l.limiters) == 0 {
		return rate.Inf
	}
	return l.limiters[0].Limit()
}

// Per 每一个爬虫任务可能有不同的限速。Per 用来生成速率
func Per(eventCount int, duration time.Duration) rate.Limit {
	return rate.Every(duration / time.Duration(eventCount))
}

// NewLimiter 在 duration 内最多允许 eventCount 个事件，bucket 小于 1 时按 1 处理
func NewLimiter(eventCount int, duration time.Duration, bucket int) *rate.Limiter {
	if bucket < 1 {
		bucket = 1
	}
	if eventCount < 1 || duration <= 0 {
		return rate.NewLimiter(rate.Inf, bucket)
	}
	return rate.NewLimiter(Per(eventCount, duration), bucket)
}

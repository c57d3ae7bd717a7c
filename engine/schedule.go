package engine

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/Nrich-sunny/ptt-crawler/collect"
	"github.com/Nrich-sunny/ptt-crawler/storage"
	"go.uber.org/zap"
)

type Crawler struct {
	out         chan result // 负责处理爬取后的数据
	pending     sync.WaitGroup
	Visited     map[string]bool
	VisitedLock sync.Mutex
	options
}

// result 解析结果与产生它的请求
type result struct {
	req *collect.Request
	collect.ParseResult
}

type Scheduler interface {
	Schedule(ctx context.Context)                      // 负责启动调度器
	Push(...*collect.Request)                          // 将请求放入到调度器中
	Pull(ctx context.Context) (*collect.Request, bool) // 从调度器中获取请求
}

type ScheduleEngine struct {
	requestCh   chan *collect.Request
	workerCh    chan *collect.Request
	priReqQueue []*collect.Request
	reqQueue    []*collect.Request
	quit        chan struct{}
}

func NewEngine(opts ...Option) *Crawler {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	crawler := &Crawler{}
	crawler.out = make(chan result)
	crawler.Visited = make(map[string]bool, 100)
	crawler.options = options
	if crawler.Scheduler == nil {
		crawler.Scheduler = NewSchedule()
	}
	if crawler.WorkCount < 1 {
		crawler.WorkCount = 1
	}
	return crawler
}

func NewSchedule() *ScheduleEngine {
	s := &ScheduleEngine{}
	s.requestCh = make(chan *collect.Request) // 负责接收请求
	s.workerCh = make(chan *collect.Request)  // 负责分配任务
	s.quit = make(chan struct{})
	return s
}

// Schedule
/**
 * 调度的核心逻辑
 * 监听 requestCh，新的请求按优先级塞进 priReqQueue 或 reqQueue;
 * 优先把 priReqQueue 中的 Request 塞进 workerCh。
 */
func (s *ScheduleEngine) Schedule(ctx context.Context) {
	defer close(s.quit)
	for {
		var req *collect.Request
		var ch chan *collect.Request

		if len(s.priReqQueue) > 0 {
			req = s.priReqQueue[0]
			ch = s.workerCh
		} else if len(s.reqQueue) > 0 {
			req = s.reqQueue[0]
			ch = s.workerCh
		}

		select {
		case r := <-s.requestCh:
			if r.Priority > 0 {
				s.priReqQueue = append(s.priReqQueue, r)
			} else {
				s.reqQueue = append(s.reqQueue, r)
			}
		case ch <- req:
			if len(s.priReqQueue) > 0 {
				s.priReqQueue = s.priReqQueue[1:]
			} else {
				s.reqQueue = s.reqQueue[1:]
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *ScheduleEngine) Push(reqs ...*collect.Request) {
	for _, req := range reqs {
		select {
		case s.requestCh <- req:
		case <-s.quit:
			return
		}
	}
}

func (s *ScheduleEngine) Pull(ctx context.Context) (*collect.Request, bool) {
	select {
	case r := <-s.workerCh:
		return r, true
	case <-ctx.Done():
		return nil, false
	}
}

// Run 启动调度与 worker，所有请求处理完毕或 ctx 取消后返回
func (crawler *Crawler) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go crawler.Scheduler.Schedule(ctx)
	for i := 0; i < crawler.WorkCount; i++ {
		go crawler.CreateWork(ctx)
	}

	crawler.Schedule()

	done := make(chan struct{})
	go func() {
		crawler.pending.Wait()
		close(done)
	}()

	var runErr error
	handled := make(chan struct{})
	go func() {
		defer close(handled)
		crawler.HandleResult(ctx)
	}()

	select {
	case <-done:
		crawler.Logger.Info("crawl finished")
	case <-ctx.Done():
		runErr = ctx.Err()
		crawler.Logger.Warn("crawl interrupted", zap.Error(runErr))
	}
	cancel()
	<-handled

	if err := crawler.flush(); err != nil {
		runErr = errors.Join(runErr, err)
	}
	return runErr
}

// Schedule 生成所有任务的种子请求
func (crawler *Crawler) Schedule() {
	var reqs []*collect.Request
	for _, task := range crawler.Seeds {
		if task.Rule.Root == nil {
			crawler.Logger.Error("task has no root rule", zap.String("task", task.Name))
			continue
		}
		rootReqs, err := task.Rule.Root()
		if err != nil {
			crawler.Logger.Error("get root failed", zap.String("task", task.Name), zap.Error(err))
			continue
		}
		if task.Fetcher == nil {
			task.Fetcher = crawler.Fetcher
		}
		if task.Fetcher == nil {
			crawler.Logger.Error("task has no fetcher", zap.String("task", task.Name))
			continue
		}
		if task.Logger == nil {
			task.Logger = crawler.Logger
		}
		for _, req := range rootReqs {
			req.Task = task
			if req.TempData == nil {
				req.TempData = &collect.Temp{}
			}
		}
		reqs = append(reqs, rootReqs...)
	}
	crawler.push(reqs...)
}

func (crawler *Crawler) push(reqs ...*collect.Request) {
	if len(reqs) == 0 {
		return
	}
	crawler.pending.Add(len(reqs))
	go crawler.Scheduler.Push(reqs...)
}

func (crawler *Crawler) CreateWork(ctx context.Context) {
	for {
		r, ok := crawler.Scheduler.Pull(ctx)
		if !ok {
			return
		}
		res := result{req: r, ParseResult: crawler.process(ctx, r)}
		select {
		case crawler.out <- res:
		case <-ctx.Done():
			return
		}
	}
}

// process 完成单个请求的检查、限速、抓取与解析，错误只记录不中断
func (crawler *Crawler) process(ctx context.Context, r *collect.Request) collect.ParseResult {
	logger := r.Task.Logger.With(zap.String("rule", r.RuleName), zap.String("url", r.Url))

	if err := r.Check(); err != nil { // 检查当前 request 是否已经达到最大深度限制
		logger.Error("check failed", zap.Error(err))
		return collect.ParseResult{}
	}
	if !crawler.tryVisit(r) {
		logger.Debug("request has visited")
		return collect.ParseResult{}
	}

	if r.Task.Limit != nil {
		if err := r.Task.Limit.Wait(ctx); err != nil {
			return collect.ParseResult{}
		}
	}
	if r.Task.WaitTime > 0 {
		sleep := time.Duration(rand.Int63n(r.Task.WaitTime*1000)) * time.Millisecond
		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return collect.ParseResult{}
		}
	}

	body, err := r.Task.Fetcher.Get(r)
	if err != nil {
		if r.Retries < r.Task.Retry {
			logger.Warn("fetch failed, retrying", zap.Int("retries", r.Retries+1), zap.Error(err))
			retry := *r
			retry.Retries++
			retry.Reload = true
			return collect.ParseResult{Requests: []*collect.Request{&retry}}
		}
		logger.Error("can't fetch", zap.Error(err))
		return collect.ParseResult{}
	}

	rule := r.Task.Rule.Trunk[r.RuleName]
	if rule == nil || rule.ParseFunc == nil {
		logger.Error("rule not found")
		return collect.ParseResult{}
	}
	res, err := rule.ParseFunc(&collect.Context{Body: body, Req: r})
	if err != nil {
		logger.Error("ParseFunc failed", zap.Error(err))
		return collect.ParseResult{}
	}
	return res
}

// HandleResult 推送后续请求并保存数据，每个结果处理完才算一个请求结束
func (crawler *Crawler) HandleResult(ctx context.Context) {
	for {
		select {
		case res := <-crawler.out:
			crawler.push(res.Requests...)
			for _, item := range res.Items {
				switch d := item.(type) {
				case *storage.DataCell:
					if res.req.Task.Storage == nil {
						crawler.Logger.Sugar().Info("get result: ", d.Fields())
						continue
					}
					if err := res.req.Task.Storage.Save(d); err != nil {
						crawler.Logger.Error("save item failed", zap.String("task", res.req.Task.Name), zap.Error(err))
					}
				default:
					crawler.Logger.Sugar().Info("get result: ", item)
				}
			}
			crawler.pending.Done()
		case <-ctx.Done():
			return
		}
	}
}

func (crawler *Crawler) flush() error {
	flushed := make(map[storage.Storage]bool)
	var errs []error
	for _, task := range crawler.Seeds {
		if task.Storage == nil || flushed[task.Storage] {
			continue
		}
		flushed[task.Storage] = true
		if err := task.Storage.Flush(); err != nil {
			crawler.Logger.Error("flush storage failed", zap.String("task", task.Name), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// tryVisit 记录请求，若请求不可重复且已访问过则返回 false
func (crawler *Crawler) tryVisit(r *collect.Request) bool {
	crawler.VisitedLock.Lock()
	defer crawler.VisitedLock.Unlock()
	unique := r.Unique()
	if !r.Reload && crawler.Visited[unique] {
		return false
	}
	crawler.Visited[unique] = true
	return true
}

package crawl

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Nrich-sunny/ptt-crawler/collect"
	"github.com/Nrich-sunny/ptt-crawler/election"
	"github.com/Nrich-sunny/ptt-crawler/engine"
	"github.com/Nrich-sunny/ptt-crawler/limiter"
	"github.com/Nrich-sunny/ptt-crawler/log"
	"github.com/Nrich-sunny/ptt-crawler/parse/ptt"
	"github.com/Nrich-sunny/ptt-crawler/proxy"
	"github.com/Nrich-sunny/ptt-crawler/sqldb"
	"github.com/Nrich-sunny/ptt-crawler/storage"
	"github.com/Nrich-sunny/ptt-crawler/storage/filestorage"
	"github.com/Nrich-sunny/ptt-crawler/storage/sqlstorage"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

// Spiders 所有可用的爬虫任务，任务名 -> 构造函数
var Spiders = map[string]func(...collect.Option) *collect.Task{
	ptt.PostOfficeTaskName:   ptt.NewPostOfficeTask,
	ptt.ParcelLockerTaskName: ptt.NewParcelLockerTask,
}

type closableStorage interface {
	storage.Storage
	io.Closer
}

// Run 加载配置并执行一次完整的爬取，names 为空时运行配置中的全部任务
func Run(ctx context.Context, configPath string, names []string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	// log
	logLevel, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	plugin := log.NewStderrPlugin(logLevel)
	if cfg.LogFile != "" {
		var c io.Closer
		plugin, c = log.NewFilePlugin(cfg.LogFile, logLevel)
		defer c.Close()
	}

	// crawl id
	node, err := snowflake.NewNode(cfg.NodeID)
	if err != nil {
		return fmt.Errorf("snowflake node: %w", err)
	}
	crawlID := node.Generate().String()

	logger := log.NewLogger(plugin).With(zap.String("crawl_id", crawlID))
	defer logger.Sync()
	logger.Info("log init end")

	// set zap global logger
	zap.ReplaceGlobals(logger)

	// proxy
	logger.Sugar().Info("proxy list: ", cfg.Fetcher.Proxy, " timeout: ", cfg.Fetcher.Timeout)
	p, err := proxy.RoundRobinProxySwitcher(cfg.Fetcher.Proxy...)
	if err != nil {
		logger.Error("RoundRobinProxySwitcher failed", zap.Error(err))
		return err
	}

	// storage
	store, err := NewStorage(cfg.Storage, logger.Named("storage"))
	if err != nil {
		logger.Error("create storage failed", zap.Error(err))
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("close storage failed", zap.Error(err))
		}
	}()

	// fetcher
	var fetcher collect.Fetcher = collect.BrowserFetch{
		Timeout: time.Duration(cfg.Fetcher.Timeout) * time.Millisecond,
		Proxy:   p,
		Logger:  logger.Named("fetcher"),
	}

	// init tasks
	seeds, err := ParseTaskConfig(logger, fetcher, store, crawlID, cfg.Tasks, names)
	if err != nil {
		logger.Error("init seed tasks", zap.Error(err))
		return err
	}

	// 多副本部署时只有 Leader 执行爬取
	if len(cfg.Election.Endpoints) > 0 {
		e, err := election.New(
			fmt.Sprint(cfg.NodeID),
			election.WithEndpoints(cfg.Election.Endpoints...),
			election.WithKey(cfg.Election.Key),
			election.WithTTL(cfg.Election.TTL),
			election.WithLogger(logger.Named("election")),
		)
		if err != nil {
			return err
		}
		resign, err := e.Campaign(ctx)
		if err != nil {
			logger.Error("leader elect error", zap.Error(err))
			return err
		}
		defer resign()
	}

	crawler := engine.NewEngine(
		engine.WithFetcher(fetcher),
		engine.WithLogger(logger.Named("engine")),
		engine.WithWorkCount(cfg.WorkCount),
		engine.WithSeeds(seeds),
		engine.WithScheduler(engine.NewSchedule()),
	)
	return crawler.Run(ctx)
}

// NewStorage 根据配置选择输出方式
func NewStorage(cfg StorageConfig, logger *zap.Logger) (closableStorage, error) {
	switch cfg.Engine {
	case "", "file":
		return filestorage.New(cfg.Path, logger)
	case sqldb.DriverMySQL, sqldb.DriverSQLite:
		return sqlstorage.New(
			sqlstorage.WithDriver(cfg.Engine),
			sqlstorage.WithSqlUrl(cfg.SqlUrl),
			sqlstorage.WithLogger(logger),
			sqlstorage.WithBatchCount(cfg.BatchCount),
		)
	default:
		return nil, fmt.Errorf("unknown storage engine %q", cfg.Engine)
	}
}

// ParseTaskConfig 按配置创建任务；配置中没有任务时使用全部爬虫的默认配置
func ParseTaskConfig(logger *zap.Logger, f collect.Fetcher, s storage.Storage, crawlID string, cfgs []collect.TaskConfig, names []string) ([]*collect.Task, error) {
	if len(cfgs) == 0 {
		for name := range Spiders {
			cfgs = append(cfgs, collect.TaskConfig{Name: name})
		}
	}

	selected := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := Spiders[name]; !ok {
			return nil, fmt.Errorf("unknown spider %q", name)
		}
		selected[name] = true
	}

	tasks := make([]*collect.Task, 0, len(cfgs))
	for _, cfg := range cfgs {
		if len(selected) > 0 && !selected[cfg.Name] {
			continue
		}
		newTask, ok := Spiders[cfg.Name]
		if !ok {
			logger.Error("unknown task in config", zap.String("task", cfg.Name))
			continue
		}

		opts := []collect.Option{
			collect.WithReload(cfg.Reload),
			collect.WithCookie(cfg.Cookie),
			collect.WithLogger(logger.Named(cfg.Name)),
			collect.WithStorage(s),
			collect.WithCrawlID(crawlID),
		}
		if cfg.Url != "" {
			opts = append(opts, collect.WithUrl(cfg.Url))
		}
		if cfg.WaitTime > 0 {
			opts = append(opts, collect.WithWaitTime(cfg.WaitTime))
		}
		if cfg.MaxDepth > 0 {
			opts = append(opts, collect.WithMaxDepth(cfg.MaxDepth))
		}
		if cfg.Retry > 0 {
			opts = append(opts, collect.WithRetry(cfg.Retry))
		}

		if len(cfg.Limits) > 0 {
			var limits []limiter.RateLimiter
			for _, lcfg := range cfg.Limits {
				// speed limiter
				l := limiter.NewLimiter(lcfg.EventCount, time.Duration(lcfg.EventDur)*time.Second, lcfg.Bucket)
				limits = append(limits, l)
			}
			opts = append(opts, collect.WithLimiter(limiter.NewMultiLimiter(limits...)))
		}

		switch cfg.Fetcher {
		case "", "browser":
			opts = append(opts, collect.WithFetcher(f))
		default:
			logger.Error("unknown fetcher", zap.String("task", cfg.Name), zap.String("fetcher", cfg.Fetcher))
			continue
		}

		tasks = append(tasks, newTask(opts...))
	}

	if len(tasks) == 0 {
		return nil, fmt.Errorf("no task to run")
	}
	return tasks, nil
}

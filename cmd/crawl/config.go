package crawl

import (
	"fmt"

	"github.com/Nrich-sunny/ptt-crawler/collect"
	"github.com/go-micro/plugins/v4/config/encoder/toml"
	"go-micro.dev/v4/config"
	"go-micro.dev/v4/config/reader"
	"go-micro.dev/v4/config/reader/json"
	"go-micro.dev/v4/config/source"
	"go-micro.dev/v4/config/source/file"
)

type Config struct {
	LogLevel  string
	LogFile   string // 为空时输出到标准错误，标准输出留给 file 存储
	WorkCount int
	NodeID    int64 // snowflake 节点号，多副本部署时需不同
	Fetcher   FetcherConfig
	Storage   StorageConfig
	Election  ElectionConfig
	Tasks     []collect.TaskConfig
}

type FetcherConfig struct {
	Timeout int // 毫秒
	Proxy   []string
}

type StorageConfig struct {
	Engine     string // file | mysql | sqlite
	SqlUrl     string
	Path       string // file 引擎的输出路径，"-" 表示标准输出
	BatchCount int
}

type ElectionConfig struct {
	Endpoints []string // 为空时不选主
	Key       string
	TTL       int
}

// LoadConfig 读取 toml 配置，缺省项使用默认值
func LoadConfig(path string) (*Config, error) {
	enc := toml.NewEncoder()
	cfg, err := config.NewConfig(config.WithReader(json.NewReader(reader.WithEncoder(enc))))
	if err != nil {
		return nil, fmt.Errorf("new config: %w", err)
	}
	defer cfg.Close()

	err = cfg.Load(file.NewSource(
		file.WithPath(path),
		source.WithEncoder(enc),
	))
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	c := &Config{
		LogLevel:  cfg.Get("logLevel").String("INFO"),
		LogFile:   cfg.Get("logFile").String(""),
		WorkCount: cfg.Get("workCount").Int(5),
		NodeID:    int64(cfg.Get("nodeID").Int(1)),
		Fetcher: FetcherConfig{
			Timeout: cfg.Get("fetcher", "timeout").Int(5000),
			Proxy:   cfg.Get("fetcher", "proxy").StringSlice([]string{}),
		},
		Storage: StorageConfig{
			Engine:     cfg.Get("storage", "engine").String("file"),
			SqlUrl:     cfg.Get("storage", "sqlUrl").String(""),
			Path:       cfg.Get("storage", "path").String("-"),
			BatchCount: cfg.Get("storage", "batchCount").Int(100),
		},
		Election: ElectionConfig{
			Endpoints: cfg.Get("election", "endpoints").StringSlice([]string{}),
			Key:       cfg.Get("election", "key").String(""),
			TTL:       cfg.Get("election", "ttl").Int(10),
		},
	}

	if err := cfg.Get("Tasks").Scan(&c.Tasks); err != nil {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}
	return c, nil
}

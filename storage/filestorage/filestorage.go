// Package filestorage 将输出数据以 JSON Lines 的格式写入文件，供下游流水线消费
package filestorage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Nrich-sunny/ptt-crawler/storage"
	"go.uber.org/zap"
)

// Record 每行输出的结构
type Record struct {
	Spider  string                 `json:"spider"`
	CrawlID string                 `json:"crawl_id,omitempty"`
	Url     string                 `json:"url,omitempty"`
	Time    string                 `json:"time,omitempty"`
	Item    map[string]interface{} `json:"item"`
}

type FileStore struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
	logger *zap.Logger
	count  int
}

// New 打开(追加写) path；path 为 "-" 时写标准输出
func New(path string, logger *zap.Logger) (*FileStore, error) {
	if path == "-" || path == "" {
		return NewWriter(os.Stdout, logger), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}
	s := NewWriter(f, logger)
	s.closer = f
	return s, nil
}

func NewWriter(w io.Writer, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{w: bufio.NewWriter(w), logger: logger}
}

func (s *FileStore) Save(datas ...*storage.DataCell) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range datas {
		rec := Record{
			Spider: d.GetTaskName(),
			Item:   d.Fields(),
		}
		rec.CrawlID, _ = d.Data["CrawlID"].(string)
		rec.Url, _ = d.Data["Url"].(string)
		rec.Time, _ = d.Data["Time"].(string)

		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := s.w.Write(append(b, '\n')); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		s.count++
	}
	return nil
}

func (s *FileStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Debug("flush output", zap.Int("records", s.count))
	return s.w.Flush()
}

func (s *FileStore) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

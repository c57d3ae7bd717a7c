// Package election 多个爬虫副本同时部署时，通过 etcd 选主保证同一时刻只有一个副本在爬取
package election

import (
	"context"
	"errors"
	"fmt"
	"net"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/concurrency"
	"go.uber.org/zap"
)

// Elector
// ID: 包含节点序号、本机 IP 地址和任务名
type Elector struct {
	ID string
	options
}

func New(id string, opts ...Option) (*Elector, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if len(options.endpoints) == 0 {
		return nil, errors.New("no etcd endpoints")
	}
	e := &Elector{}
	e.options = options

	ipv4, err := getLocalIP()
	if err != nil {
		e.logger.Warn("get local ip failed", zap.Error(err))
		ipv4 = "unknown"
	}
	e.ID = genElectorID(id, ipv4, e.key)
	e.logger.Sugar().Debugln("elector_id:", e.ID)
	return e, nil
}

// Campaign 阻塞直到成为 Leader 或 ctx 取消。
// 返回的 resign 用于爬取结束后主动让出，并关闭与 etcd 的会话
func (e *Elector) Campaign(ctx context.Context) (resign func(), err error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   e.endpoints,
		DialTimeout: e.dialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect etcd: %w", err)
	}

	session, err := concurrency.NewSession(cli, concurrency.WithTTL(e.ttl))
	if err != nil {
		cli.Close()
		return nil, fmt.Errorf("new etcd session: %w", err)
	}

	// 抢占到 key 的节点成为 Leader
	election := concurrency.NewElection(session, e.key)
	e.logger.Info("campaign for crawl lock", zap.String("key", e.key), zap.String("id", e.ID))

	if err := election.Campaign(ctx, e.ID); err != nil {
		session.Close()
		cli.Close()
		return nil, fmt.Errorf("campaign: %w", err)
	}
	e.logger.Info("became leader", zap.String("id", e.ID))

	resign = func() {
		rctx, cancel := context.WithTimeout(context.Background(), e.dialTimeout)
		defer cancel()
		if err := election.Resign(rctx); err != nil {
			e.logger.Warn("resign failed", zap.Error(err))
		}
		session.Close()
		cli.Close()
	}
	return resign, nil
}

func genElectorID(id string, ipv4 string, key string) string {
	return "crawler" + id + "-" + ipv4 + key
}

// getLocalIP 获取本地网卡 IPv4 地址
func getLocalIP() (string, error) {
	var (
		addrs []net.Addr
		err   error
	)
	if addrs, err = net.InterfaceAddrs(); err != nil {
		return "", err
	}
	// 取第一个非lo的网卡IP
	for _, addr := range addrs {
		if ipNet, isIpNet := addr.(*net.IPNet); isIpNet && !ipNet.IP.IsLoopback() {
			if ipNet.IP.To4() != nil {
				return ipNet.IP.String(), nil
			}
		}
	}

	return "", errors.New("no local ip")
}

package etcd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/notehub/notehub/pkg/config"
	"github.com/notehub/notehub/pkg/logger"
	"github.com/notehub/notehub/pkg/registry"
)

// 确保 Resolver 实现了 registry.Resolver 接口
var _ registry.Resolver = (*Resolver)(nil)

// Resolver 基于 etcd 的服务发现器
// 注册目录结构：<namespace>/<service>/<address> -> ServiceInfo JSON
type Resolver struct {
	client *clientv3.Client
	config *Config
	logger logger.Logger
}

// NewResolver 创建 etcd 服务发现器
func NewResolver(cfg *Config) (*Resolver, error) {
	newCfg, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}

	if err := newCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   newCfg.Endpoints,
		DialTimeout: newCfg.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	return &Resolver{
		client: client,
		config: newCfg,
		logger: logger.Default().Named("registry.etcd"),
	}, nil
}

// Services 返回当前已注册的服务名称列表（去重、字典序）
func (r *Resolver) Services(ctx context.Context) ([]string, error) {
	prefix := r.config.Namespace + "/"

	resp, err := r.client.Get(ctx, prefix, clientv3.WithPrefix(), clientv3.WithKeysOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	seen := make(map[string]struct{})
	names := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		name := serviceNameFromKey(string(kv.Key), prefix)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}

// Resolve 解析服务实例列表，未知服务返回空列表而非错误
func (r *Resolver) Resolve(ctx context.Context, serviceName string) ([]*registry.ServiceInfo, error) {
	prefix := fmt.Sprintf("%s/%s/", r.config.Namespace, serviceName)

	resp, err := r.client.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve service %s: %w", serviceName, err)
	}

	services := make([]*registry.ServiceInfo, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var info registry.ServiceInfo
		if err := json.Unmarshal(kv.Value, &info); err != nil {
			r.logger.Warn("failed to unmarshal service info",
				"key", string(kv.Key),
				"error", err,
			)
			continue
		}
		services = append(services, &info)
	}

	r.logger.Debug("services resolved",
		"service", serviceName,
		"count", len(services),
	)

	return services, nil
}

// Close 关闭 Resolver
func (r *Resolver) Close() error {
	return r.client.Close()
}

// serviceNameFromKey 从注册 key 中提取服务名
func serviceNameFromKey(key, prefix string) string {
	rest := strings.TrimPrefix(key, prefix)
	if rest == key {
		return ""
	}

	if idx := strings.Index(rest, "/"); idx >= 0 {
		return rest[:idx]
	}
	return rest
}

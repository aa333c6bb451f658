package diagnostic

import (
	"context"
	"fmt"

	"github.com/notehub/notehub/pkg/logger"
	"github.com/notehub/notehub/pkg/registry"
)

// Instance 服务实例描述
// Metadata 仅在全量视图中填充，单服务视图省略
type Instance struct {
	ServiceID string            `json:"service_id"`
	Host      string            `json:"host"`
	Port      int               `json:"port"`
	URI       string            `json:"uri"`
	Secure    bool              `json:"secure"`
	Scheme    string            `json:"scheme"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Snapshot 注册中心全量快照
// 名称列表与实例查询非原子，两者之间允许注册状态变化
type Snapshot struct {
	RegisteredServices []string               `json:"registered_services"`
	ServiceInstances   map[string][]*Instance `json:"service_instances"`
}

// ServiceDescription 单服务描述
// 未知或当前无实例的服务 Error 与 AvailableServices 填充，其余字段为零值
type ServiceDescription struct {
	ServiceName       string      `json:"service_name"`
	InstanceCount     int         `json:"instance_count"`
	Instances         []*Instance `json:"instances"`
	Error             string      `json:"error,omitempty"`
	AvailableServices []string    `json:"available_services,omitempty"`
}

// Aggregator 注册中心查询聚合器
// 只依赖 registry.Resolver，不做缓存或重试
type Aggregator struct {
	resolver registry.Resolver
	logger   logger.Logger
}

// NewAggregator 创建聚合器
func NewAggregator(r registry.Resolver, l logger.Logger) *Aggregator {
	return &Aggregator{
		resolver: r,
		logger:   l.Named("diagnostic.aggregator"),
	}
}

// ListAllServices 聚合全部已注册服务及其实例
// 无实例的服务也会出现在结果中（空实例列表）；注册中心错误原样向上传递
func (a *Aggregator) ListAllServices(ctx context.Context) (*Snapshot, error) {
	names, err := a.resolver.Services(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered services: %w", err)
	}

	snapshot := &Snapshot{
		RegisteredServices: names,
		ServiceInstances:   make(map[string][]*Instance, len(names)),
	}

	for _, name := range names {
		infos, err := a.resolver.Resolve(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve service %s: %w", name, err)
		}

		instances := make([]*Instance, 0, len(infos))
		for _, info := range infos {
			instances = append(instances, newInstance(name, info, true))
		}
		snapshot.ServiceInstances[name] = instances
	}

	a.logger.Debug("services snapshot built",
		"services", len(snapshot.RegisteredServices),
	)

	return snapshot, nil
}

// DescribeService 描述单个服务
// 未知服务与已注册但无实例的服务均不视为错误，
// 统一返回带可用服务列表的结构化结果
func (a *Aggregator) DescribeService(ctx context.Context, serviceName string) (*ServiceDescription, error) {
	infos, err := a.resolver.Resolve(ctx, serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve service %s: %w", serviceName, err)
	}

	if len(infos) == 0 {
		names, err := a.resolver.Services(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list registered services: %w", err)
		}

		return &ServiceDescription{
			ServiceName:       serviceName,
			Instances:         []*Instance{},
			Error:             fmt.Sprintf("service '%s' not found in registry", serviceName),
			AvailableServices: names,
		}, nil
	}

	instances := make([]*Instance, 0, len(infos))
	for _, info := range infos {
		instances = append(instances, newInstance(serviceName, info, false))
	}

	return &ServiceDescription{
		ServiceName:   serviceName,
		InstanceCount: len(instances),
		Instances:     instances,
	}, nil
}

// newInstance 从注册信息构造实例描述
func newInstance(serviceName string, info *registry.ServiceInfo, withMetadata bool) *Instance {
	inst := &Instance{
		ServiceID: serviceName,
		Host:      info.Host,
		Port:      info.Port,
		URI:       info.URI(),
		Secure:    info.Secure,
		Scheme:    info.Scheme(),
	}
	if withMetadata {
		inst.Metadata = info.Metadata
	}
	return inst
}

package diagnostic

import (
	"context"
	"errors"
	"testing"

	"github.com/notehub/notehub/pkg/logger"
	"github.com/notehub/notehub/pkg/registry"
)

// fakeResolver 内存注册中心
type fakeResolver struct {
	services  map[string][]*registry.ServiceInfo
	names     []string
	failList  error
	failQuery error
}

func (f *fakeResolver) Services(_ context.Context) ([]string, error) {
	if f.failList != nil {
		return nil, f.failList
	}
	return f.names, nil
}

func (f *fakeResolver) Resolve(_ context.Context, serviceName string) ([]*registry.ServiceInfo, error) {
	if f.failQuery != nil {
		return nil, f.failQuery
	}
	return f.services[serviceName], nil
}

func newTestAggregator(r registry.Resolver) *Aggregator {
	return NewAggregator(r, logger.NewNop())
}

// TestListAllServices 测试全量快照构建
func TestListAllServices(t *testing.T) {
	resolver := &fakeResolver{
		names: []string{"gateway-service", "notes-service", "user-service"},
		services: map[string][]*registry.ServiceInfo{
			"notes-service": {
				{ServiceName: "notes-service", Host: "10.0.0.1", Port: 8081, Metadata: map[string]string{"version": "1.2.0"}},
				{ServiceName: "notes-service", Host: "10.0.0.2", Port: 8081},
			},
			"user-service": {
				{ServiceName: "user-service", Host: "10.0.0.3", Port: 8082, Secure: true},
			},
			// gateway-service 已注册但无实例
		},
	}

	snapshot, err := newTestAggregator(resolver).ListAllServices(context.Background())
	if err != nil {
		t.Fatalf("ListAllServices() error = %v", err)
	}

	if len(snapshot.RegisteredServices) != 3 {
		t.Errorf("registered services = %d, want 3", len(snapshot.RegisteredServices))
	}

	// 无实例的服务也必须出现在快照中
	instances, ok := snapshot.ServiceInstances["gateway-service"]
	if !ok {
		t.Fatal("zero-instance service missing from snapshot")
	}
	if len(instances) != 0 {
		t.Errorf("zero-instance service has %d instances", len(instances))
	}

	notes := snapshot.ServiceInstances["notes-service"]
	if len(notes) != 2 {
		t.Fatalf("notes instances = %d, want 2", len(notes))
	}
	if notes[0].URI != "http://10.0.0.1:8081" {
		t.Errorf("URI = %q", notes[0].URI)
	}
	if notes[0].Scheme != "http" || notes[0].Secure {
		t.Errorf("scheme/secure = %q/%v", notes[0].Scheme, notes[0].Secure)
	}
	// 全量视图携带元数据
	if notes[0].Metadata["version"] != "1.2.0" {
		t.Errorf("metadata = %v", notes[0].Metadata)
	}

	users := snapshot.ServiceInstances["user-service"]
	if len(users) != 1 || users[0].Scheme != "https" || users[0].URI != "https://10.0.0.3:8082" {
		t.Errorf("user instance unexpected: %+v", users[0])
	}
}

// TestListAllServicesError 测试注册中心错误原样向上传递
func TestListAllServicesError(t *testing.T) {
	wantErr := errors.New("etcd unavailable")

	agg := newTestAggregator(&fakeResolver{failList: wantErr})
	if _, err := agg.ListAllServices(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped registry error, got %v", err)
	}

	agg = newTestAggregator(&fakeResolver{
		names:     []string{"notes-service"},
		failQuery: wantErr,
	})
	if _, err := agg.ListAllServices(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped resolve error, got %v", err)
	}
}

// TestDescribeService 测试单服务描述
func TestDescribeService(t *testing.T) {
	resolver := &fakeResolver{
		names: []string{"notes-service", "user-service"},
		services: map[string][]*registry.ServiceInfo{
			"notes-service": {
				{ServiceName: "notes-service", Host: "10.0.0.1", Port: 8081, Metadata: map[string]string{"version": "1.2.0"}},
			},
		},
	}
	agg := newTestAggregator(resolver)

	desc, err := agg.DescribeService(context.Background(), "notes-service")
	if err != nil {
		t.Fatalf("DescribeService() error = %v", err)
	}
	if desc.Error != "" {
		t.Errorf("unexpected error field: %q", desc.Error)
	}
	if desc.InstanceCount != 1 || len(desc.Instances) != 1 {
		t.Fatalf("instance count = %d/%d, want 1", desc.InstanceCount, len(desc.Instances))
	}
	// 单服务视图省略元数据
	if desc.Instances[0].Metadata != nil {
		t.Errorf("metadata should be omitted, got %v", desc.Instances[0].Metadata)
	}
}

// TestDescribeServiceZeroInstances 测试已注册但无实例的服务走结构化未命中结果
func TestDescribeServiceZeroInstances(t *testing.T) {
	resolver := &fakeResolver{
		names: []string{"notes-service", "user-service"},
		services: map[string][]*registry.ServiceInfo{
			"notes-service": {
				{ServiceName: "notes-service", Host: "10.0.0.1", Port: 8081},
			},
			// user-service 已注册但无实例
		},
	}
	agg := newTestAggregator(resolver)

	desc, err := agg.DescribeService(context.Background(), "user-service")
	if err != nil {
		t.Fatalf("DescribeService() error = %v", err)
	}

	if desc.Error == "" {
		t.Error("expected error text for zero-instance service")
	}
	if len(desc.AvailableServices) != 2 {
		t.Errorf("available services = %v, want the known service names", desc.AvailableServices)
	}
	if desc.InstanceCount != 0 || len(desc.Instances) != 0 {
		t.Errorf("expected empty instances, got %+v", desc)
	}
}

// TestDescribeServiceNotFound 测试未知服务返回结构化结果而非错误
func TestDescribeServiceNotFound(t *testing.T) {
	resolver := &fakeResolver{names: []string{"notes-service", "user-service"}}
	agg := newTestAggregator(resolver)

	desc, err := agg.DescribeService(context.Background(), "ghost-service")
	if err != nil {
		t.Fatalf("DescribeService() error = %v", err)
	}

	if desc.Error == "" {
		t.Error("expected error text for unknown service")
	}
	if desc.ServiceName != "ghost-service" {
		t.Errorf("ServiceName = %q", desc.ServiceName)
	}
	if len(desc.AvailableServices) != 2 {
		t.Errorf("available services = %v", desc.AvailableServices)
	}
	if desc.InstanceCount != 0 || len(desc.Instances) != 0 {
		t.Errorf("expected empty instances, got %+v", desc)
	}
}

// TestDescribeServiceError 测试注册中心错误原样向上传递
func TestDescribeServiceError(t *testing.T) {
	wantErr := errors.New("etcd unavailable")

	agg := newTestAggregator(&fakeResolver{failQuery: wantErr})
	if _, err := agg.DescribeService(context.Background(), "notes-service"); !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped resolve error, got %v", err)
	}

	// 实例为空时需要名称列表构造未命中结果，该查询的错误同样向上传递
	agg = newTestAggregator(&fakeResolver{failList: wantErr})
	if _, err := agg.DescribeService(context.Background(), "notes-service"); !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped registry error, got %v", err)
	}
}

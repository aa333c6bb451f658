package registry

import (
	"context"
	"fmt"
)

// ServiceInfo 服务实例信息
type ServiceInfo struct {
	// ServiceName 服务名称
	ServiceName string `json:"service_name"`
	// Host 实例主机名或 IP
	Host string `json:"host"`
	// Port 实例端口
	Port int `json:"port"`
	// Secure 是否启用 TLS
	Secure bool `json:"secure"`
	// Metadata 元数据（如 version, weight, region 等）
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Address 返回 host:port 形式的实例地址
func (s *ServiceInfo) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Scheme 返回实例的访问协议
func (s *ServiceInfo) Scheme() string {
	if s.Secure {
		return "https"
	}
	return "http"
}

// URI 返回实例的完整访问地址
func (s *ServiceInfo) URI() string {
	return fmt.Sprintf("%s://%s:%d", s.Scheme(), s.Host, s.Port)
}

// Resolver 服务发现查询接口
// 注册、心跳与租约管理属于各服务自身的部署面，此接口只读
type Resolver interface {
	// Services 返回当前已注册的服务名称列表
	Services(ctx context.Context) ([]string, error)
	// Resolve 解析指定服务的实例列表，未知服务返回空列表而非错误
	Resolve(ctx context.Context, serviceName string) ([]*ServiceInfo, error)
}

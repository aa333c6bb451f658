package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// GatewayMetrics Gateway 服务指标
type GatewayMetrics struct {
	// HTTP 指标
	RequestTotal    *prometheus.CounterVec   // 请求总数（按方法、路径、状态码）
	RequestDuration *prometheus.HistogramVec // 请求处理延迟

	// 注册中心指标
	RegistryQueryTotal    *prometheus.CounterVec   // 注册中心查询总数（按操作、结果）
	RegistryQueryDuration *prometheus.HistogramVec // 注册中心查询延迟
}

// New 创建 Gateway 指标
func New(namespace string) *GatewayMetrics {
	if namespace == "" {
		namespace = "gateway"
	}

	return &GatewayMetrics{
		RequestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP 请求总数",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP 请求处理延迟（秒）",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		RegistryQueryTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registry_queries_total",
				Help:      "注册中心查询总数",
			},
			[]string{"operation", "result"}, // operation: list/describe
		),
		RegistryQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "registry_query_duration_seconds",
				Help:      "注册中心查询延迟（秒）",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"operation"},
		),
	}
}

// Register 注册指标到 Prometheus Registry
func (m *GatewayMetrics) Register(registerer prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.RequestTotal,
		m.RequestDuration,
		m.RegistryQueryTotal,
		m.RegistryQueryDuration,
	}

	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			return err
		}
	}

	return nil
}

// RecordRequest 记录 HTTP 请求
func (m *GatewayMetrics) RecordRequest(method, path, status string, duration float64) {
	m.RequestTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordRegistryQuery 记录注册中心查询
func (m *GatewayMetrics) RecordRegistryQuery(operation string, success bool, duration float64) {
	result := "success"
	if !success {
		result = "failed"
	}
	m.RegistryQueryTotal.WithLabelValues(operation, result).Inc()
	m.RegistryQueryDuration.WithLabelValues(operation).Observe(duration)
}

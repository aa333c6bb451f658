package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/notehub/notehub/pkg/database/postgres"
)

// NotesMetrics Notes 服务指标
type NotesMetrics struct {
	namespace string

	// HTTP 指标
	RequestTotal    *prometheus.CounterVec   // 请求总数（按方法、路径、状态码）
	RequestDuration *prometheus.HistogramVec // 请求处理延迟

	// 数据库指标
	DBQueryTotal    *prometheus.CounterVec   // 数据库查询总数（按操作、结果）
	DBQueryDuration *prometheus.HistogramVec // 数据库查询延迟

	// 业务指标
	NotesCreated prometheus.Counter // 创建笔记总数
	NotesDeleted prometheus.Counter // 删除笔记总数
}

// New 创建 Notes 指标
func New(namespace string) *NotesMetrics {
	if namespace == "" {
		namespace = "notes"
	}

	return &NotesMetrics{
		namespace: namespace,
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
		DBQueryTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_queries_total",
				Help:      "数据库查询总数",
			},
			[]string{"operation", "result"}, // operation: select/insert/update/delete
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "数据库查询延迟（秒）",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"operation"},
		),
		NotesCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "created_total",
				Help:      "创建笔记总数",
			},
		),
		NotesDeleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deleted_total",
				Help:      "删除笔记总数",
			},
		),
	}
}

// Register 注册指标到 Prometheus Registry
func (m *NotesMetrics) Register(registerer prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.RequestTotal,
		m.RequestDuration,
		m.DBQueryTotal,
		m.DBQueryDuration,
		m.NotesCreated,
		m.NotesDeleted,
	}

	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			return err
		}
	}

	return nil
}

// RegisterPoolStats 注册数据库连接池状态指标
// stats 在每次抓取时被调用，返回当前连接池快照
func (m *NotesMetrics) RegisterPoolStats(registerer prometheus.Registerer, stats func() *postgres.PoolStats) error {
	gauges := []struct {
		name  string
		help  string
		value func(*postgres.PoolStats) float64
	}{
		{"db_pool_acquired_conns", "当前已获取的连接数", func(s *postgres.PoolStats) float64 { return float64(s.AcquiredConns) }},
		{"db_pool_idle_conns", "空闲连接数", func(s *postgres.PoolStats) float64 { return float64(s.IdleConns) }},
		{"db_pool_max_conns", "最大连接数", func(s *postgres.PoolStats) float64 { return float64(s.MaxConns) }},
		{"db_pool_total_conns", "总连接数", func(s *postgres.PoolStats) float64 { return float64(s.TotalConns) }},
	}

	for _, g := range gauges {
		g := g
		gauge := prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: m.namespace,
				Name:      g.name,
				Help:      g.help,
			},
			func() float64 { return g.value(stats()) },
		)
		if err := registerer.Register(gauge); err != nil {
			return err
		}
	}

	return nil
}

// RecordRequest 记录 HTTP 请求
func (m *NotesMetrics) RecordRequest(method, path, status string, duration float64) {
	m.RequestTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordDBQuery 记录数据库查询
func (m *NotesMetrics) RecordDBQuery(operation string, success bool, duration float64) {
	result := "success"
	if !success {
		result = "failed"
	}
	m.DBQueryTotal.WithLabelValues(operation, result).Inc()
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}

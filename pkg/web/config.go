package web

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Config Web 服务配置
type Config struct {
	// Port 监听端口（notes 8081 / user 8082 / gateway 8080）
	Port int `mapstructure:"port"`
	// Mode gin 运行模式：debug、release、test
	Mode string `mapstructure:"mode"`

	// ReadTimeout 请求读取超时
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout 响应写入超时
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownTimeout 优雅关机等待时间
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// MaxHeaderBytes 请求头大小上限
	MaxHeaderBytes int `mapstructure:"max_header_bytes"`

	// EnableTLS 是否启用 TLS
	EnableTLS bool `mapstructure:"enable_tls"`
	CertFile  string `mapstructure:"cert_file"`
	KeyFile   string `mapstructure:"key_file"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Port:            8080,
		Mode:            gin.ReleaseMode,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		MaxHeaderBytes:  1 << 20,
		EnableTLS:       false,
	}
}

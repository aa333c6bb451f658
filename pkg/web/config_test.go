package web

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// TestDefaultConfig 测试默认配置
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Mode != gin.ReleaseMode {
		t.Errorf("Mode = %q, want release", cfg.Mode)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 5s", cfg.ShutdownTimeout)
	}
	if cfg.MaxHeaderBytes != 1<<20 {
		t.Errorf("MaxHeaderBytes = %d, want 1MB", cfg.MaxHeaderBytes)
	}
	if cfg.EnableTLS {
		t.Error("TLS should be disabled by default")
	}
}

package config

import (
	"testing"
	"time"
)

// 测试用的配置结构
type testConfig struct {
	Server   serverConfig    `json:"server"`
	Features map[string]bool `json:"features"`
	Tags     []string        `json:"tags"`
	Extra    *extraConfig    `json:"extra"`
}

type serverConfig struct {
	Host    string        `json:"host"`
	Port    int           `json:"port"`
	TLS     bool          `json:"tls"`
	Timeout time.Duration `json:"timeout"`
}

type extraConfig struct {
	Retry int    `json:"retry"`
	Name  string `json:"name"`
}

// TestMergeConfig_BasicTypes 测试基本类型合并
func TestMergeConfig_BasicTypes(t *testing.T) {
	dst := &testConfig{
		Server: serverConfig{
			Host: "localhost",
			Port: 8080,
		},
	}

	src := &testConfig{
		Server: serverConfig{
			Port: 9090,
			TLS:  true,
		},
	}

	result, err := MergeConfig(dst, src)
	if err != nil {
		t.Fatalf("MergeConfig failed: %v", err)
	}

	// Port 和 TLS 应该被覆盖
	if result.Server.Port != 9090 {
		t.Errorf("Expected Port=9090, got %d", result.Server.Port)
	}
	if !result.Server.TLS {
		t.Errorf("Expected TLS=true, got %v", result.Server.TLS)
	}

	// Host 在 src 中是零值，应保留 dst 的值
	if result.Server.Host != "localhost" {
		t.Errorf("Expected Host=localhost, got %s", result.Server.Host)
	}
}

// TestMergeConfig_NilHandling 测试 nil 入参处理
func TestMergeConfig_NilHandling(t *testing.T) {
	cfg := &testConfig{Server: serverConfig{Port: 8080}}

	if _, err := MergeConfig[testConfig](nil, nil); err == nil {
		t.Error("Expected error when both dst and src are nil")
	}

	result, err := MergeConfig(nil, cfg)
	if err != nil {
		t.Fatalf("MergeConfig failed: %v", err)
	}
	if result != cfg {
		t.Error("Expected src returned when dst is nil")
	}

	result, err = MergeConfig(cfg, nil)
	if err != nil {
		t.Fatalf("MergeConfig failed: %v", err)
	}
	if result != cfg {
		t.Error("Expected dst returned when src is nil")
	}
}

// TestMergeConfig_Slice 测试切片整体覆盖
func TestMergeConfig_Slice(t *testing.T) {
	dst := &testConfig{Tags: []string{"a", "b"}}
	src := &testConfig{Tags: []string{"c"}}

	result, err := MergeConfig(dst, src)
	if err != nil {
		t.Fatalf("MergeConfig failed: %v", err)
	}

	if len(result.Tags) != 1 || result.Tags[0] != "c" {
		t.Errorf("Expected Tags=[c], got %v", result.Tags)
	}
}

// TestMergeConfig_Map 测试 map 键级合并
func TestMergeConfig_Map(t *testing.T) {
	dst := &testConfig{Features: map[string]bool{"a": true, "b": false}}
	src := &testConfig{Features: map[string]bool{"b": true, "c": true}}

	result, err := MergeConfig(dst, src)
	if err != nil {
		t.Fatalf("MergeConfig failed: %v", err)
	}

	if !result.Features["a"] || !result.Features["b"] || !result.Features["c"] {
		t.Errorf("Unexpected merged features: %v", result.Features)
	}
}

// TestMergeConfig_Pointer 测试指针字段合并
func TestMergeConfig_Pointer(t *testing.T) {
	dst := &testConfig{Extra: &extraConfig{Retry: 3, Name: "dst"}}
	src := &testConfig{Extra: &extraConfig{Name: "src"}}

	result, err := MergeConfig(dst, src)
	if err != nil {
		t.Fatalf("MergeConfig failed: %v", err)
	}

	if result.Extra.Name != "src" {
		t.Errorf("Expected Name=src, got %s", result.Extra.Name)
	}
	// Retry 在 src 中是零值，应保留
	if result.Extra.Retry != 3 {
		t.Errorf("Expected Retry=3, got %d", result.Extra.Retry)
	}

	// dst 的指针为 nil 时应新建
	dst2 := &testConfig{}
	result, err = MergeConfig(dst2, src)
	if err != nil {
		t.Fatalf("MergeConfig failed: %v", err)
	}
	if result.Extra == nil || result.Extra.Name != "src" {
		t.Errorf("Expected Extra created from src, got %+v", result.Extra)
	}
}

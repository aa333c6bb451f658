package logger

import "testing"

// TestConfigValidate 测试配置验证
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{
			name:    "default config",
			cfg:     DefaultConfig(),
			wantErr: false,
		},
		{
			name: "unknown level",
			cfg: &Config{
				Level:         "verbose",
				EnableConsole: true,
			},
			wantErr: true,
		},
		{
			name: "unknown format",
			cfg: &Config{
				Format:        "xml",
				EnableConsole: true,
			},
			wantErr: true,
		},
		{
			name: "file output without path",
			cfg: &Config{
				EnableConsole: true,
				EnableFile:    true,
			},
			wantErr: true,
		},
		{
			name: "no output enabled",
			cfg: &Config{
				EnableConsole: false,
				EnableFile:    false,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestNewWithPartialConfig 测试部分配置可以与默认值合并
func TestNewWithPartialConfig(t *testing.T) {
	l, err := New(&Config{Level: DebugLevel})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if l.config.Format != JSONFormat {
		t.Errorf("Expected default format %q, got %q", JSONFormat, l.config.Format)
	}
	if !l.config.EnableConsole {
		t.Error("Expected console output enabled by default")
	}
}

// TestNamedLogger 测试具名 logger 派生
func TestNamedLogger(t *testing.T) {
	l, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	named := l.Named("dao.note")
	if named == nil {
		t.Fatal("Named() returned nil")
	}

	// 派生不应影响原 logger
	if l.name != "" {
		t.Errorf("Expected original logger unnamed, got %q", l.name)
	}
}

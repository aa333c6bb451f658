package postgres

import "testing"

// TestValidateConfig 测试配置验证
func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "default config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty host",
			mutate:  func(c *Config) { c.Database.Host = "" },
			wantErr: true,
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Database.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "empty user",
			mutate:  func(c *Config) { c.Database.User = "" },
			wantErr: true,
		},
		{
			name:    "empty db name",
			mutate:  func(c *Config) { c.Database.DBName = "" },
			wantErr: true,
		},
		{
			name:    "zero max conns",
			mutate:  func(c *Config) { c.Pool.MaxConns = 0 },
			wantErr: true,
		},
		{
			name: "min conns greater than max conns",
			mutate: func(c *Config) {
				c.Pool.MinConns = 50
				c.Pool.MaxConns = 10
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestMergeConfigDefaults 测试部分配置与默认值合并
func TestMergeConfigDefaults(t *testing.T) {
	cfg, err := MergeConfig(DefaultConfig(), &Config{
		Database: DBConfig{DBName: "notes"},
	})
	if err != nil {
		t.Fatalf("MergeConfig failed: %v", err)
	}

	if cfg.Database.DBName != "notes" {
		t.Errorf("Expected db_name=notes, got %s", cfg.Database.DBName)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected default host retained, got %s", cfg.Database.Host)
	}
	if cfg.Pool.MaxConns != 25 {
		t.Errorf("Expected default max_conns retained, got %d", cfg.Pool.MaxConns)
	}
}

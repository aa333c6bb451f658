package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Client PostgreSQL 客户端
type Client struct {
	pool *pgxpool.Pool
	cfg  *Config
}

// New 创建 PostgreSQL 客户端
func New(cfg *Config) (*Client, error) {
	// 合并配置，确保有最小可用的配置
	newCfg, err := MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}

	if err := validateConfig(newCfg); err != nil {
		return nil, err
	}

	pool, err := createPool(newCfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		pool: pool,
		cfg:  newCfg,
	}, nil
}

// Close 关闭客户端
func (c *Client) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// Ping 检查数据库连接
func (c *Client) Ping(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// Stats 获取连接池状态
func (c *Client) Stats() *PoolStats {
	stat := c.pool.Stat()
	return &PoolStats{
		AcquireCount:  stat.AcquireCount(),
		AcquiredConns: stat.AcquiredConns(),
		IdleConns:     stat.IdleConns(),
		MaxConns:      stat.MaxConns(),
		TotalConns:    stat.TotalConns(),
	}
}

// validateConfig 验证配置
func validateConfig(cfg *Config) error {
	if cfg == nil {
		return ErrNilConfig
	}

	if cfg.Database.Host == "" {
		return fmt.Errorf("%w: host is empty", ErrInvalidConfig)
	}

	if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
		return fmt.Errorf("%w: invalid port %d", ErrInvalidConfig, cfg.Database.Port)
	}

	if cfg.Database.User == "" {
		return fmt.Errorf("%w: user is empty", ErrInvalidConfig)
	}

	if cfg.Database.DBName == "" {
		return fmt.Errorf("%w: db_name is empty", ErrInvalidConfig)
	}

	if cfg.Pool.MaxConns <= 0 {
		return fmt.Errorf("%w: max_conns must be positive", ErrInvalidConfig)
	}

	if cfg.Pool.MinConns < 0 {
		return fmt.Errorf("%w: min_conns must be non-negative", ErrInvalidConfig)
	}

	if cfg.Pool.MinConns > cfg.Pool.MaxConns {
		return fmt.Errorf("%w: min_conns cannot be greater than max_conns", ErrInvalidConfig)
	}

	return nil
}

// createPool 创建连接池
func createPool(cfg *Config) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
		int(cfg.ConnectTimeout.Seconds()),
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	poolConfig.MaxConns = cfg.Pool.MaxConns
	poolConfig.MinConns = cfg.Pool.MinConns
	poolConfig.MaxConnLifetime = cfg.Pool.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Pool.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.Pool.HealthCheckPeriod

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

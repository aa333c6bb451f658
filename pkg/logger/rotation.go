package logger

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotationConfig 日志轮转配置
type RotationConfig struct {
	// MaxSize 单个文件最大体积（MB）
	MaxSize int `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	// MaxBackups 保留的历史文件数量
	MaxBackups int `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	// MaxAge 历史文件保留天数
	MaxAge int `mapstructure:"max_age" json:"max_age" yaml:"max_age"`
	// Compress 是否压缩历史文件
	Compress bool `mapstructure:"compress" json:"compress" yaml:"compress"`
}

// DefaultRotationConfig 返回默认轮转配置
func DefaultRotationConfig() *RotationConfig {
	return &RotationConfig{
		MaxSize:    100,
		MaxBackups: 10,
		MaxAge:     30,
		Compress:   true,
	}
}

// NewRotationWriter 创建带轮转能力的文件写入器
func NewRotationWriter(cfg *RotationConfig, path string) (io.Writer, error) {
	if path == "" {
		return nil, ErrInvalidConfig
	}

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}, nil
}

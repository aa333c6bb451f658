package logger

import (
	"os"
	"sync"

	"github.com/notehub/notehub/pkg/config"
)

var (
	defaultLogger   Logger
	defaultLoggerMu sync.RWMutex
)

// InitDefault 初始化默认 logger
func InitDefault(cfg *Config) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}

	SetDefault(l)
	return nil
}

// InitDefaultFromEnv 从环境变量初始化默认 logger
// 环境变量前缀: NOTEHUB_LOG_
func InitDefaultFromEnv() error {
	envConfig := &Config{}

	if level := os.Getenv("NOTEHUB_LOG_LEVEL"); level != "" {
		envConfig.Level = Level(level)
	}
	if format := os.Getenv("NOTEHUB_LOG_FORMAT"); format != "" {
		envConfig.Format = Format(format)
	}
	if path := os.Getenv("NOTEHUB_LOG_PATH"); path != "" {
		envConfig.EnableFile = true
		envConfig.OutputPath = path
	}
	if os.Getenv("NOTEHUB_LOG_DEVELOPMENT") == "true" {
		envConfig.Development = true
	}

	mergedConfig, err := config.MergeConfig(DefaultConfig(), envConfig)
	if err != nil {
		return err
	}

	return InitDefault(mergedConfig)
}

// SetDefault 设置默认 logger
func SetDefault(l Logger) {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = l
}

// Default 获取默认 logger（懒加载，仅控制台输出）
func Default() Logger {
	defaultLoggerMu.RLock()
	if defaultLogger != nil {
		defer defaultLoggerMu.RUnlock()
		return defaultLogger
	}
	defaultLoggerMu.RUnlock()

	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	if defaultLogger == nil {
		l, err := New(DefaultConfig())
		if err != nil {
			panic(err)
		}
		defaultLogger = l
	}
	return defaultLogger
}

// --- 便捷函数（使用默认 logger）---

func Debug(msg string, keysAndValues ...interface{}) {
	Default().Debug(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...interface{}) {
	Default().Info(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	Default().Warn(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...interface{}) {
	Default().Error(msg, keysAndValues...)
}

func Named(name string) Logger {
	return Default().Named(name)
}

func Sync() error {
	return Default().Sync()
}

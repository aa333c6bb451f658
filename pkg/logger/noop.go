package logger

import "context"

// 确保 NopLogger 实现了 Logger 接口
var _ Logger = (*NopLogger)(nil)

// NopLogger 空实现，测试或禁用日志时使用
type NopLogger struct{}

// NewNop 创建 NopLogger
func NewNop() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *NopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *NopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (n *NopLogger) Error(msg string, keysAndValues ...interface{}) {}

func (n *NopLogger) DebugContext(ctx context.Context, msg string, keysAndValues ...interface{}) {}
func (n *NopLogger) InfoContext(ctx context.Context, msg string, keysAndValues ...interface{})  {}
func (n *NopLogger) WarnContext(ctx context.Context, msg string, keysAndValues ...interface{})  {}
func (n *NopLogger) ErrorContext(ctx context.Context, msg string, keysAndValues ...interface{}) {}

func (n *NopLogger) Named(name string) Logger                        { return n }
func (n *NopLogger) WithFields(keysAndValues ...interface{}) Logger  { return n }
func (n *NopLogger) Sync() error                                     { return nil }

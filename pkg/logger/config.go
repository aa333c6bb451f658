package logger

import "fmt"

// Level 日志等级
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
	PanicLevel Level = "panic"
	FatalLevel Level = "fatal"
)

// Format 日志输出格式
type Format string

const (
	JSONFormat    Format = "json"
	ConsoleFormat Format = "console"
)

// Config 日志配置
type Config struct {
	// Level 日志等级
	Level Level `mapstructure:"level" json:"level" yaml:"level"`
	// Format 输出格式（json/console）
	Format Format `mapstructure:"format" json:"format" yaml:"format"`
	// TimeFormat 时间格式（空值使用 ISO8601）
	TimeFormat string `mapstructure:"time_format" json:"time_format" yaml:"time_format"`

	// EnableConsole 是否输出到控制台
	EnableConsole bool `mapstructure:"enable_console" json:"enable_console" yaml:"enable_console"`
	// EnableFile 是否输出到文件
	EnableFile bool `mapstructure:"enable_file" json:"enable_file" yaml:"enable_file"`
	// OutputPath 文件输出路径
	OutputPath string `mapstructure:"output_path" json:"output_path" yaml:"output_path"`
	// Rotation 文件轮转配置
	Rotation RotationConfig `mapstructure:"rotation" json:"rotation" yaml:"rotation"`

	// Development 开发模式（彩色输出）
	Development bool `mapstructure:"development" json:"development" yaml:"development"`
	// EnableStacktrace 是否记录堆栈
	EnableStacktrace bool `mapstructure:"enable_stacktrace" json:"enable_stacktrace" yaml:"enable_stacktrace"`
	// StacktraceLevel 记录堆栈的最低等级
	StacktraceLevel Level `mapstructure:"stacktrace_level" json:"stacktrace_level" yaml:"stacktrace_level"`
}

// DefaultConfig 返回默认配置（仅控制台输出）
func DefaultConfig() *Config {
	return &Config{
		Level:            InfoLevel,
		Format:           JSONFormat,
		EnableConsole:    true,
		EnableFile:       false,
		Rotation:         *DefaultRotationConfig(),
		EnableStacktrace: false,
		StacktraceLevel:  ErrorLevel,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	switch c.Level {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel, PanicLevel, FatalLevel, "":
	default:
		return fmt.Errorf("%w: unknown level %q", ErrInvalidConfig, c.Level)
	}

	switch c.Format {
	case JSONFormat, ConsoleFormat, "":
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}

	if c.EnableFile && c.OutputPath == "" {
		return fmt.Errorf("%w: output_path is required when enable_file is true", ErrInvalidConfig)
	}

	if !c.EnableConsole && !c.EnableFile {
		return fmt.Errorf("%w: at least one output must be enabled", ErrInvalidConfig)
	}

	return nil
}

package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// Config represents the logger configuration.
type Config struct {
	// Director is the directory where log files are stored.
	// An empty Director disables file output.
	Director string `mapstructure:"director" json:"director" yaml:"director"`

	// Level is the minimum log level (debug, info, warn, error, fatal).
	Level string `mapstructure:"level" json:"level" yaml:"level"`

	// Format is the log format (json or console).
	Format string `mapstructure:"format" json:"format" yaml:"format"`

	// EncodeLevel is one of lowercase, lowercase_color, capital, capital_color.
	EncodeLevel string `mapstructure:"encode_level" json:"encode_level" yaml:"encode_level"`

	// Prefix is prepended to the timestamp of every line.
	Prefix string `mapstructure:"prefix" json:"prefix" yaml:"prefix"`

	TimeFormat string `mapstructure:"time_format" json:"time_format" yaml:"time_format"`

	// LogInTerminal mirrors every entry to stdout.
	LogInTerminal bool `mapstructure:"log_in_terminal" json:"log_in_terminal" yaml:"log_in_terminal"`

	// Rotation settings handed to lumberjack.
	MaxAge     int  `mapstructure:"max_age" json:"max_age" yaml:"max_age"`
	MaxSize    int  `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	MaxBackups int  `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	Compress   bool `mapstructure:"compress" json:"compress" yaml:"compress"`

	ShowLineNumber bool `mapstructure:"show_line_number" json:"show_line_number" yaml:"show_line_number"`
}

// DefaultConfig logs human readable lines to the terminal only.
func DefaultConfig() Config {
	return Config{
		Director:       "",
		Level:          "info",
		Format:         "console",
		EncodeLevel:    "capital",
		TimeFormat:     "2006/01/02 - 15:04:05",
		LogInTerminal:  true,
		MaxAge:         7,
		MaxSize:        100,
		MaxBackups:     10,
		Compress:       true,
		ShowLineNumber: false,
	}
}

// TransportLevel converts the string level to zapcore.Level.
func (c Config) TransportLevel() zapcore.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// ZapEncodeLevel returns the zapcore.LevelEncoder based on EncodeLevel.
func (c Config) ZapEncodeLevel() zapcore.LevelEncoder {
	switch c.EncodeLevel {
	case "lowercase_color":
		return zapcore.LowercaseColorLevelEncoder
	case "capital":
		return zapcore.CapitalLevelEncoder
	case "capital_color":
		return zapcore.CapitalColorLevelEncoder
	default:
		return zapcore.LowercaseLevelEncoder
	}
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.TimeFormat == "" {
		c.TimeFormat = defaults.TimeFormat
	}
	if c.Format == "" {
		c.Format = defaults.Format
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = defaults.MaxBackups
	}
	if c.MaxSize == 0 {
		c.MaxSize = defaults.MaxSize
	}
	if c.MaxAge == 0 {
		c.MaxAge = defaults.MaxAge
	}
	// Nowhere to write: fall back to the terminal.
	if c.Director == "" {
		c.LogInTerminal = true
	}
}

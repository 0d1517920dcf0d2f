package logging

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// level is shared by every logger built from a Config so that a reload
// can change verbosity without rebuilding cores.
var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// SetLevel changes the minimum level of all loggers created by NewLogger.
func SetLevel(l string) {
	level.SetLevel(Config{Level: l}.TransportLevel())
}

// CurrentLevel returns the active minimum level.
func CurrentLevel() zapcore.Level {
	return level.Level()
}

func newEncoder(config Config) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "message",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    config.ZapEncodeLevel(),
		EncodeTime:     timeEncoder(config),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	if config.Format == "json" {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func timeEncoder(config Config) zapcore.TimeEncoder {
	return func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(config.Prefix + t.Format(config.TimeFormat))
	}
}

// buildCores returns one terminal core plus, when a Director is configured,
// one file core per level so that each level lands in its own file.
func buildCores(config Config) []zapcore.Core {
	level.SetLevel(config.TransportLevel())
	encoder := newEncoder(config)

	var cores []zapcore.Core
	if config.LogInTerminal {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level))
	}
	if config.Director == "" {
		return cores
	}

	for l := zapcore.DebugLevel; l <= zapcore.FatalLevel; l++ {
		exact := l
		enabler := zap.LevelEnablerFunc(func(lv zapcore.Level) bool {
			return lv == exact && level.Enabled(lv)
		})
		w := newLevelWriter(config, exact.String())
		registerWriter(w)
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(w), enabler))
	}
	return cores
}

// levelWriter writes one level to <director>/<yyyy-mm-dd>/<level>.log,
// rotated by lumberjack.
type levelWriter struct {
	config Config
	level  string

	mu      sync.Mutex
	date    string
	current *lumberjack.Logger
}

func newLevelWriter(config Config, level string) *levelWriter {
	return &levelWriter{config: config, level: level}
}

func (w *levelWriter) Write(p []byte) (int, error) {
	date := time.Now().Format("2006-01-02")

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil || w.date != date {
		if w.current != nil {
			_ = w.current.Close()
		}
		dir := filepath.Join(w.config.Director, date)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			dir = w.config.Director
			_ = os.MkdirAll(dir, 0o755)
		}
		w.current = &lumberjack.Logger{
			Filename:   filepath.Join(dir, w.level+".log"),
			MaxSize:    w.config.MaxSize,
			MaxBackups: w.config.MaxBackups,
			MaxAge:     w.config.MaxAge,
			Compress:   w.config.Compress,
			LocalTime:  true,
		}
		w.date = date
	}
	return w.current.Write(p)
}

func (w *levelWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return nil
	}
	err := w.current.Close()
	w.current = nil
	return err
}

var (
	writers   []*levelWriter
	writersMu sync.Mutex
)

func registerWriter(w *levelWriter) {
	writersMu.Lock()
	defer writersMu.Unlock()
	writers = append(writers, w)
}

// CloseAllWriters closes every log file opened so far.
func CloseAllWriters() error {
	writersMu.Lock()
	defer writersMu.Unlock()

	var lastErr error
	for _, w := range writers {
		if err := w.Close(); err != nil {
			lastErr = err
		}
	}
	writers = nil
	return lastErr
}

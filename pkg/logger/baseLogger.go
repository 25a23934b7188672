package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"io"
	"os"
	"sync"
)

type BaseLogger struct {
	mu     sync.Mutex
	prefix string
	sugar  *zap.SugaredLogger
}

// NewLogger пишет в writer (stdout, если writer == nil) консольным энкодером zap.
func NewLogger(writer io.Writer, prefix string) *BaseLogger {
	if writer == nil {
		writer = os.Stdout
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(writer),
		zap.NewAtomicLevelAt(zapcore.InfoLevel),
	)
	return &BaseLogger{
		prefix: prefix,
		sugar:  zap.New(core).Sugar(),
	}
}

func NewNop() *BaseLogger {
	return &BaseLogger{sugar: zap.NewNop().Sugar()}
}

func (l *BaseLogger) Log(format string, v ...interface{}) {
	l.sugar.Infof(l.format(format), v...)
}

func (l *BaseLogger) Error(format string, v ...interface{}) {
	l.sugar.Errorf(l.format(format), v...)
}

func (l *BaseLogger) WithPrefix(extraPrefix string) *BaseLogger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &BaseLogger{
		prefix: l.prefix + " " + extraPrefix,
		sugar:  l.sugar,
	}
}

func (l *BaseLogger) SetPrefix(prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefix = prefix
}

func (l *BaseLogger) Sync() error {
	return l.sugar.Sync()
}

func (l *BaseLogger) format(format string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.prefix == "" {
		return format
	}
	return l.prefix + " " + format
}

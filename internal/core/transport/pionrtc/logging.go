package pionrtc

import (
	"fmt"
	"log/slog"

	"github.com/pion/logging"

	"github.com/dep2p/go-dcbridge/pkg/lib/log"
)

// loggerFactory 将 pion 的分级日志接入 pkg/lib/log
type loggerFactory struct{}

var _ logging.LoggerFactory = loggerFactory{}

// NewLogger 为 pion 子系统创建日志器，组件名为 "pion/<scope>"
func (loggerFactory) NewLogger(scope string) logging.LeveledLogger {
	return &leveledLogger{l: log.Logger("pion/" + scope)}
}

type leveledLogger struct {
	l *log.LazyLogger
}

// trace 级别并入 debug
func (p *leveledLogger) Trace(msg string) { p.l.Debug(msg) }
func (p *leveledLogger) Debug(msg string) { p.l.Debug(msg) }
func (p *leveledLogger) Info(msg string)  { p.l.Info(msg) }
func (p *leveledLogger) Warn(msg string)  { p.l.Warn(msg) }
func (p *leveledLogger) Error(msg string) { p.l.Error(msg) }

func (p *leveledLogger) Tracef(format string, args ...interface{}) {
	p.logf(slog.LevelDebug, format, args...)
}

func (p *leveledLogger) Debugf(format string, args ...interface{}) {
	p.logf(slog.LevelDebug, format, args...)
}

func (p *leveledLogger) Infof(format string, args ...interface{}) {
	p.logf(slog.LevelInfo, format, args...)
}

func (p *leveledLogger) Warnf(format string, args ...interface{}) {
	p.logf(slog.LevelWarn, format, args...)
}

func (p *leveledLogger) Errorf(format string, args ...interface{}) {
	p.logf(slog.LevelError, format, args...)
}

// logf 只在级别开启时格式化
func (p *leveledLogger) logf(level slog.Level, format string, args ...interface{}) {
	if !p.l.Enabled(level) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	switch level {
	case slog.LevelDebug:
		p.l.Debug(msg)
	case slog.LevelInfo:
		p.l.Info(msg)
	case slog.LevelWarn:
		p.l.Warn(msg)
	default:
		p.l.Error(msg)
	}
}

// Package log 提供 dcbridge 统一日志接口
//
// 基于 Go 标准库 log/slog 封装，提供按组件划分的懒加载 logger。
//
// 环境变量：
//   - DCBRIDGE_LOG_LEVEL: 日志级别，支持按组件配置
//     格式: 组件=级别,组件=级别,默认级别
//     示例: core/observer=debug,host/wshost=warn,info
//   - DCBRIDGE_LOG_FORMAT: text（默认）或 json
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// 日志级别常量（从 slog 导出，方便使用）
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// levelConfig 组件级别配置
type levelConfig struct {
	mu         sync.RWMutex
	defaultLvl slog.Level
	components map[string]slog.Level
}

var levels = &levelConfig{
	defaultLvl: slog.LevelInfo,
	components: make(map[string]slog.Level),
}

// enabled 判断组件在给定级别是否输出
func (c *levelConfig) enabled(component string, level slog.Level) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	threshold, ok := c.components[component]
	if !ok {
		threshold = c.defaultLvl
	}
	return level >= threshold
}

// SetDefault 设置默认 logger
func SetDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

// New 创建文本格式的 logger
func New(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewJSON 创建 JSON 格式的 logger
func NewJSON(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// SetOutput 将默认 logger 输出重定向到 w
//
// 组件级别过滤由 LazyLogger 完成，这里的 handler 放开到 Debug。
func SetOutput(w io.Writer, json bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	if json {
		slog.SetDefault(NewJSON(w, opts))
		return
	}
	slog.SetDefault(New(w, opts))
}

// SetLevel 设置默认日志级别
func SetLevel(level slog.Level) {
	levels.mu.Lock()
	levels.defaultLvl = level
	levels.mu.Unlock()
}

// SetComponentLevel 设置单个组件的日志级别
func SetComponentLevel(component string, level slog.Level) {
	levels.mu.Lock()
	levels.components[component] = level
	levels.mu.Unlock()
}

// ParseLevel 解析日志级别名称
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug", "trace":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// ApplyLevelSpec 应用级别配置字符串
//
// 格式: component=level,component=level,defaultLevel
func ApplyLevelSpec(spec string) {
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if k, v, ok := strings.Cut(part, "="); ok {
			if level, ok := ParseLevel(v); ok {
				SetComponentLevel(strings.TrimSpace(k), level)
			}
			continue
		}
		if level, ok := ParseLevel(part); ok {
			SetLevel(level)
		}
	}
}

// ============================================================================
//                              LazyLogger
// ============================================================================

// LazyLogger 懒加载 logger
//
// 每次日志调用时都从 slog.Default() 获取最新的 handler，
// 支持在运行时动态切换日志输出目标。
//
//	var logger = log.Logger("core/registry")
//	logger.Info("entry added", "id", id)
type LazyLogger struct {
	component string
}

// Logger 返回带组件名的 LazyLogger
func Logger(component string) *LazyLogger {
	return &LazyLogger{component: component}
}

// Component 返回组件名
func (l *LazyLogger) Component() string {
	return l.component
}

// Enabled 判断指定级别是否会输出
func (l *LazyLogger) Enabled(level slog.Level) bool {
	return levels.enabled(l.component, level)
}

func (l *LazyLogger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if !levels.enabled(l.component, level) {
		return
	}
	slog.Default().With("component", l.component).Log(ctx, level, msg, args...)
}

// Debug 输出 Debug 级别日志
func (l *LazyLogger) Debug(msg string, args ...any) {
	l.log(context.Background(), slog.LevelDebug, msg, args...)
}

// Info 输出 Info 级别日志
func (l *LazyLogger) Info(msg string, args ...any) {
	l.log(context.Background(), slog.LevelInfo, msg, args...)
}

// Warn 输出 Warn 级别日志
func (l *LazyLogger) Warn(msg string, args ...any) {
	l.log(context.Background(), slog.LevelWarn, msg, args...)
}

// Error 输出 Error 级别日志
func (l *LazyLogger) Error(msg string, args ...any) {
	l.log(context.Background(), slog.LevelError, msg, args...)
}

// DebugContext 带 context 的 Debug 日志
func (l *LazyLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, msg, args...)
}

// InfoContext 带 context 的 Info 日志
func (l *LazyLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, msg, args...)
}

// WarnContext 带 context 的 Warn 日志
func (l *LazyLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, msg, args...)
}

// ErrorContext 带 context 的 Error 日志
func (l *LazyLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelError, msg, args...)
}

// With 添加额外的属性
func (l *LazyLogger) With(args ...any) *slog.Logger {
	return slog.Default().With("component", l.component).With(args...)
}

// ============================================================================
//                              初始化
// ============================================================================

func init() {
	json := strings.EqualFold(os.Getenv("DCBRIDGE_LOG_FORMAT"), "json")
	SetOutput(os.Stderr, json)
	if spec := os.Getenv("DCBRIDGE_LOG_LEVEL"); spec != "" {
		ApplyLevelSpec(spec)
	}
}

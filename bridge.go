package dcbridge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/dep2p/go-dcbridge/config"
	"github.com/dep2p/go-dcbridge/internal/core/codec"
	"github.com/dep2p/go-dcbridge/internal/core/conduit"
	"github.com/dep2p/go-dcbridge/internal/core/connection"
	"github.com/dep2p/go-dcbridge/internal/core/datachannel"
	"github.com/dep2p/go-dcbridge/internal/core/metrics"
	"github.com/dep2p/go-dcbridge/internal/core/transport/pionrtc"
	"github.com/dep2p/go-dcbridge/internal/host/wshost"
	pkgif "github.com/dep2p/go-dcbridge/pkg/interfaces"
	"github.com/dep2p/go-dcbridge/pkg/lib/log"
)

var logger = log.Logger("dcbridge")

// stopTimeout Close 时 Fx 停止的超时
const stopTimeout = 15 * time.Second

// Bridge 数据通道桥接
//
// 所有方法都可以并发调用。传输层回调与调用方操作之间的同步由内部模块完成。
type Bridge struct {
	cfg *config.Config
	app *fx.App

	mu      sync.Mutex
	started bool
	closed  bool
	logFile io.Closer

	// 由 Fx 注入
	manager   *connection.Manager
	hub       *conduit.Hub
	api       *pionrtc.API
	host      *wshost.Server
	registry  *prometheus.Registry
	collector *metrics.Collector
}

// New 创建 Bridge
//
// 创建后组件已可用（可以登记连接、创建通道），
// Start 只负责启动宿主监听等需要网络的部分。
func New(opts ...Option) (*Bridge, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	b := &Bridge{cfg: o.config}

	logFile, err := setupLogging(o.config.Log)
	if err != nil {
		return nil, err
	}
	b.logFile = logFile

	app, err := buildFxApp(o, b)
	if err != nil {
		b.closeLogFile()
		return nil, err
	}
	if err := app.Err(); err != nil {
		b.closeLogFile()
		return nil, fmt.Errorf("build bridge: %w", err)
	}
	b.app = app
	return b, nil
}

// setupLogging 按配置切换日志输出，环境变量 DCBRIDGE_LOG_LEVEL 优先
func setupLogging(cfg config.LogConfig) (io.Closer, error) {
	var (
		w      io.Writer = os.Stderr
		closer io.Closer
	)
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}
	log.SetOutput(w, strings.EqualFold(cfg.Format, "json"))
	log.ApplyLevelSpec(cfg.Level)
	if spec := os.Getenv("DCBRIDGE_LOG_LEVEL"); spec != "" {
		log.ApplyLevelSpec(spec)
	}
	return closer, nil
}

// Start 启动 Bridge
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBridgeClosed
	}
	if b.started {
		return nil
	}
	if err := b.app.Start(ctx); err != nil {
		return fmt.Errorf("start bridge: %w", err)
	}
	b.started = true
	logger.Info("bridge started", "version", Version, "namespace", b.cfg.Namespace, "host", b.HostAddr())
	return nil
}

// Close 关闭 Bridge
//
// 拆除所有连接（通道的事件管道收到流结束），关闭宿主会话。
// 未启动的 Bridge 也会拆除已登记的连接。
func (b *Bridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	started := b.started
	b.mu.Unlock()

	var err error
	if started {
		ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		err = b.app.Stop(ctx)
		cancel()
	} else {
		err = multierr.Combine(b.manager.Close(), b.hub.Close())
	}
	logger.Info("bridge closed", "err", err)
	b.closeLogFile()
	return err
}

func (b *Bridge) closeLogFile() {
	if b.logFile != nil {
		log.SetOutput(os.Stderr, strings.EqualFold(b.cfg.Log.Format, "json"))
		_ = b.logFile.Close()
		b.logFile = nil
	}
}

func (b *Bridge) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Config 返回生效的配置副本
func (b *Bridge) Config() config.Config {
	return *b.cfg
}

// HostAddr 返回宿主桥接的监听地址，未启用时为空
func (b *Bridge) HostAddr() string {
	if b.host == nil {
		return ""
	}
	return b.host.Addr()
}

// ════════════════════════════════════════════════════════════════════════════
//                              连接管理
// ════════════════════════════════════════════════════════════════════════════

// AddConnection 登记外部创建的对等连接，id 为空时自动生成
func (b *Bridge) AddConnection(id ConnectionID, pc pkgif.PeerConnection) (ConnectionID, error) {
	if b.isClosed() {
		return "", ErrBridgeClosed
	}
	return b.manager.Add(id, pc)
}

// NewPeerConnection 用 pion 创建对等连接并登记
//
// 返回的 PeerConnection 通过 Raw() 暴露 pion 连接，用于信令。
func (b *Bridge) NewPeerConnection(id ConnectionID) (ConnectionID, *pionrtc.PeerConnection, error) {
	if b.isClosed() {
		return "", nil, ErrBridgeClosed
	}
	pc, err := b.api.NewPeerConnection()
	if err != nil {
		return "", nil, fmt.Errorf("create peer connection: %w", err)
	}
	connID, err := b.manager.Add(id, pc)
	if err != nil {
		_ = pc.Close()
		return "", nil, err
	}
	return connID, pc, nil
}

// RemoveConnection 拆除连接及其全部通道
func (b *Bridge) RemoveConnection(id ConnectionID) error {
	return b.manager.Remove(id)
}

// Connections 返回所有连接 ID
func (b *Bridge) Connections() []ConnectionID {
	return b.manager.IDs()
}

// ════════════════════════════════════════════════════════════════════════════
//                              数据通道
// ════════════════════════════════════════════════════════════════════════════

// CreateDataChannel 在连接上创建数据通道
func (b *Bridge) CreateDataChannel(connID ConnectionID, label string, cfg ChannelConfig) (ChannelInfo, error) {
	svc, err := b.manager.Get(connID)
	if err != nil {
		return ChannelInfo{}, err
	}
	return svc.CreateDataChannel(label, cfg)
}

// CreateDataChannelFromMap 用宿主侧的 dataChannelDict 创建通道
//
// 返回 {id, label}。字段类型错误返回 ErrConfigDecode。
func (b *Bridge) CreateDataChannelFromMap(connID ConnectionID, label string, dict map[string]any) (map[string]any, error) {
	cfg, err := codec.DecodeChannelConfig(dict)
	if err != nil {
		return nil, err
	}
	info, err := b.CreateDataChannel(connID, label, cfg)
	if err != nil {
		return nil, err
	}
	return codec.EncodeCreateResult(info), nil
}

// Send 发送消息
//
// msgType 为 "binary" 且 data 为 []byte 时按二进制发送，否则 data 须为字符串。
func (b *Bridge) Send(connID ConnectionID, id ChannelID, msgType string, data any) error {
	svc, err := b.manager.Get(connID)
	if err != nil {
		return err
	}
	return svc.Send(id, msgType, data)
}

// CloseChannel 关闭通道，重复关闭返回 ErrChannelNotFound
func (b *Bridge) CloseChannel(connID ConnectionID, id ChannelID) error {
	svc, err := b.manager.Get(connID)
	if err != nil {
		return err
	}
	return svc.Close(id)
}

// Channel 查找通道句柄
func (b *Bridge) Channel(connID ConnectionID, id ChannelID) (pkgif.DataChannel, bool) {
	svc, err := b.manager.Get(connID)
	if err != nil {
		return nil, false
	}
	return svc.Resolve(id)
}

// ════════════════════════════════════════════════════════════════════════════
//                              事件管道
// ════════════════════════════════════════════════════════════════════════════

// ConduitName 返回通道的事件管道名
func (b *Bridge) ConduitName(connID ConnectionID, id ChannelID) string {
	return datachannel.ConduitName(b.cfg.Namespace+"/"+connID.String(), id)
}

// Listen 附加管道监听者，替换已有的监听者
func (b *Bridge) Listen(stream string, sink pkgif.EventSink) error {
	return b.hub.Listen(stream, sink)
}

// Cancel 分离管道监听者
func (b *Bridge) Cancel(stream string) error {
	return b.hub.Cancel(stream)
}

// Conduits 返回所有事件管道名
func (b *Bridge) Conduits() []string {
	return b.hub.Names()
}

// ════════════════════════════════════════════════════════════════════════════
//                              指标
// ════════════════════════════════════════════════════════════════════════════

// Stats 返回指标快照，指标关闭时为零值
func (b *Bridge) Stats() metrics.Snapshot {
	return b.collector.Snapshot()
}

// MetricsHandler 返回 /metrics 处理器
func (b *Bridge) MetricsHandler() http.Handler {
	return metrics.Handler(b.registry)
}

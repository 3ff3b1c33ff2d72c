package wshost

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dep2p/go-dcbridge/config"
	"github.com/dep2p/go-dcbridge/internal/core/codec"
	"github.com/dep2p/go-dcbridge/internal/core/conduit"
	"github.com/dep2p/go-dcbridge/internal/core/metrics"
	pkgif "github.com/dep2p/go-dcbridge/pkg/interfaces"
	"github.com/dep2p/go-dcbridge/pkg/lib/log"
	"github.com/dep2p/go-dcbridge/pkg/types"
)

var logger = log.Logger("host/wshost")

// Server WebSocket 宿主桥接服务器
type Server struct {
	cfg      config.HostConfig
	conns    pkgif.ConnectionManager
	conduits *conduit.Hub
	wire     *codec.Wire
	metrics  *metrics.Collector
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*session]struct{}
	httpSrv  *http.Server
	ln       net.Listener
	serveErr chan error
}

// NewServer 创建服务器
func NewServer(cfg config.HostConfig, conns pkgif.ConnectionManager, hub *conduit.Hub, wire *codec.Wire, mc *metrics.Collector) *Server {
	s := &Server{
		cfg:      cfg,
		conns:    conns,
		conduits: hub,
		wire:     wire,
		metrics:  mc,
		sessions: make(map[*session]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// checkOrigin 未配置白名单时沿用同源检查
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(s.cfg.AllowedOrigins) == 0 {
		return origin == "http://"+r.Host || origin == "https://"+r.Host
	}
	for _, o := range s.cfg.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// ServeHTTP 升级为 WebSocket 并运行会话
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	ss := newSession(uuid.NewString(), conn, s)
	s.mu.Lock()
	s.sessions[ss] = struct{}{}
	s.mu.Unlock()

	logger.Info("host session established", "session", ss.id, "remote", conn.RemoteAddr().String())
	ss.run()
}

// Handler 返回挂载在配置路径上的 HTTP 处理器
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(s.cfg.Path, s)
	return mux
}

// Start 开始监听
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("host listen %s: %w", s.cfg.ListenAddr, err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.ln = ln
	s.httpSrv = srv
	s.serveErr = make(chan error, 1)
	s.mu.Unlock()

	go func() {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.serveErr <- err
	}()
	logger.Info("host bridge listening", "addr", ln.Addr().String(), "path", s.cfg.Path)
	return nil
}

// Addr 返回实际监听地址，未启动时为空
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Stop 停止监听并关闭所有会话
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpSrv
	serveErr := s.serveErr
	s.httpSrv = nil
	sessions := make([]*session, 0, len(s.sessions))
	for ss := range s.sessions {
		sessions = append(sessions, ss)
	}
	s.mu.Unlock()

	// 已升级的连接不受 http.Server.Shutdown 管理
	for _, ss := range sessions {
		ss.close()
	}
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	return <-serveErr
}

// SessionCount 返回活动会话数
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) removeSession(ss *session) {
	s.mu.Lock()
	delete(s.sessions, ss)
	s.mu.Unlock()
}

// call 执行方法调用并返回应答帧
func (s *Server) call(seq int, method string, args codec.Map) codec.Map {
	var (
		result any
		err    error
	)
	switch method {
	case MethodCreateDataChannel:
		result, err = s.createDataChannel(args)
	case MethodDataChannelSend:
		err = s.dataChannelSend(args)
	case MethodDataChannelClose:
		err = s.dataChannelClose(args)
	default:
		return errorFrame(seq, CodeUnknownMethod, "unknown method "+method)
	}
	if err != nil {
		logger.Debug("host call failed", "method", method, "seq", seq, "err", err)
		return errorFrame(seq, ErrorCode(err), err.Error())
	}
	return resultFrame(seq, result)
}

func (s *Server) service(args codec.Map) (pkgif.DataChannelService, error) {
	id, err := codec.RequireString(args, ArgPeerConnectionID)
	if err != nil {
		return nil, err
	}
	return s.conns.Get(types.ConnectionID(id))
}

func (s *Server) createDataChannel(args codec.Map) (any, error) {
	svc, err := s.service(args)
	if err != nil {
		return nil, err
	}
	label, err := codec.RequireString(args, ArgLabel)
	if err != nil {
		return nil, err
	}
	dict, _, err := codec.Submap(args, ArgDataChannelDict)
	if err != nil {
		return nil, err
	}
	cfg, err := codec.DecodeChannelConfig(dict)
	if err != nil {
		return nil, err
	}
	info, err := svc.CreateDataChannel(label, cfg)
	if err != nil {
		return nil, err
	}
	return codec.EncodeCreateResult(info), nil
}

func (s *Server) dataChannelSend(args codec.Map) error {
	svc, err := s.service(args)
	if err != nil {
		return err
	}
	id, err := codec.RequireInt(args, ArgDataChannelID)
	if err != nil {
		return err
	}
	msgType, err := codec.RequireString(args, ArgType)
	if err != nil {
		return err
	}
	return svc.Send(types.ChannelID(id), msgType, args[ArgData])
}

func (s *Server) dataChannelClose(args codec.Map) error {
	svc, err := s.service(args)
	if err != nil {
		return err
	}
	id, err := codec.RequireInt(args, ArgDataChannelID)
	if err != nil {
		return err
	}
	return svc.Close(types.ChannelID(id))
}

package wshost

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dep2p/go-dcbridge/internal/core/codec"
	"github.com/dep2p/go-dcbridge/internal/core/metrics"
	pkgif "github.com/dep2p/go-dcbridge/pkg/interfaces"
	"github.com/dep2p/go-dcbridge/pkg/types"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var errSessionClosed = errors.New("host session closed")

// session 单个宿主 WebSocket 会话
type session struct {
	id     string
	conn   *websocket.Conn
	server *Server

	send chan []byte
	done chan struct{}

	closeOnce sync.Once

	mu      sync.Mutex
	streams map[string]*streamSink
}

func newSession(id string, conn *websocket.Conn, s *Server) *session {
	return &session{
		id:      id,
		conn:    conn,
		server:  s,
		send:    make(chan []byte, s.cfg.SendQueueSize),
		done:    make(chan struct{}),
		streams: make(map[string]*streamSink),
	}
}

// run 启动写循环并在当前 goroutine 读取，读结束后清理会话
func (ss *session) run() {
	go ss.writeLoop()
	ss.readLoop()
	ss.close()
}

func (ss *session) readLoop() {
	ss.conn.SetReadLimit(ss.server.cfg.ReadLimit)
	_ = ss.conn.SetReadDeadline(time.Now().Add(pongWait))
	ss.conn.SetPongHandler(func(string) error {
		return ss.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		mt, data, err := ss.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("host session closed unexpectedly", "session", ss.id, "err", err)
			}
			return
		}
		_ = ss.conn.SetReadDeadline(time.Now().Add(pongWait))

		if mt != websocket.BinaryMessage {
			ss.reply(errorFrame(0, CodeConfigDecode, "frames must be binary CBOR"))
			continue
		}
		frame, err := ss.server.wire.Unmarshal(data)
		if err != nil {
			ss.reply(errorFrame(0, CodeConfigDecode, err.Error()))
			continue
		}
		ss.handleFrame(frame)
	}
}

func (ss *session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	writeTimeout := time.Duration(ss.server.cfg.WriteTimeout)
	for {
		select {
		case data := <-ss.send:
			_ = ss.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := ss.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				logger.Debug("host write failed", "session", ss.id, "err", err)
				ss.close()
				return
			}
		case <-ticker.C:
			_ = ss.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := ss.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				ss.close()
				return
			}
		case <-ss.done:
			return
		}
	}
}

// handleFrame 按 kind 分派
func (ss *session) handleFrame(frame codec.Map) {
	seq, _, err := codec.Int(frame, keySeq)
	if err != nil {
		ss.reply(errorFrame(0, CodeConfigDecode, err.Error()))
		return
	}
	kind, err := codec.RequireString(frame, keyKind)
	if err != nil {
		ss.reply(errorFrame(seq, CodeConfigDecode, err.Error()))
		return
	}

	switch kind {
	case KindCall:
		method, err := codec.RequireString(frame, keyMethod)
		if err != nil {
			ss.reply(errorFrame(seq, CodeConfigDecode, err.Error()))
			return
		}
		args, _, err := codec.Submap(frame, keyArgs)
		if err != nil {
			ss.reply(errorFrame(seq, CodeConfigDecode, err.Error()))
			return
		}
		ss.reply(ss.server.call(seq, method, args))

	case KindListen:
		stream, err := codec.RequireString(frame, keyStream)
		if err != nil {
			ss.reply(errorFrame(seq, CodeConfigDecode, err.Error()))
			return
		}
		if err := ss.listen(stream); err != nil {
			ss.reply(errorFrame(seq, ErrorCode(err), err.Error()))
			return
		}
		ss.reply(resultFrame(seq, nil))

	case KindCancel:
		stream, err := codec.RequireString(frame, keyStream)
		if err != nil {
			ss.reply(errorFrame(seq, CodeConfigDecode, err.Error()))
			return
		}
		if err := ss.cancel(stream); err != nil {
			ss.reply(errorFrame(seq, ErrorCode(err), err.Error()))
			return
		}
		ss.reply(resultFrame(seq, nil))

	default:
		ss.reply(errorFrame(seq, CodeConfigDecode, "unknown frame kind "+kind))
	}
}

// listen 将本会话附加为管道监听者
//
// 先登记再附加：管道在附加后随即销毁时，EndOfStream 中的 forget 能找到这条登记。
func (ss *session) listen(stream string) error {
	sink := &streamSink{session: ss, stream: stream}
	ss.mu.Lock()
	ss.streams[stream] = sink
	ss.mu.Unlock()

	if err := ss.server.conduits.Listen(stream, sink); err != nil {
		ss.forget(stream, sink)
		return err
	}
	logger.Debug("host listening", "session", ss.id, "stream", stream)
	return nil
}

// cancel 分离本会话在管道上的监听
func (ss *session) cancel(stream string) error {
	ss.mu.Lock()
	sink, ok := ss.streams[stream]
	delete(ss.streams, stream)
	ss.mu.Unlock()

	if !ok {
		if _, exists := ss.server.conduits.Lookup(stream); !exists {
			return types.ErrConduitNotFound
		}
		return nil
	}
	return ss.server.conduits.CancelSink(stream, sink)
}

func (ss *session) forget(stream string, sink *streamSink) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.streams[stream] == sink {
		delete(ss.streams, stream)
	}
}

// reply 阻塞写入应答帧，会话关闭时放弃
func (ss *session) reply(frame codec.Map) {
	data, err := ss.server.wire.Marshal(frame)
	if err != nil {
		logger.Error("encode reply failed", "session", ss.id, "err", err)
		return
	}
	select {
	case ss.send <- data:
	case <-ss.done:
	}
}

// push 非阻塞写入事件帧，队列满时丢弃
func (ss *session) push(frame codec.Map) error {
	data, err := ss.server.wire.Marshal(frame)
	if err != nil {
		return err
	}
	select {
	case <-ss.done:
		return errSessionClosed
	default:
	}
	select {
	case ss.send <- data:
		return nil
	default:
		ss.server.metrics.EventDropped(metrics.DropSlowConsumer)
		logger.Debug("host queue full, event dropped", "session", ss.id)
		return nil
	}
}

// close 关闭会话并分离所有监听
func (ss *session) close() {
	ss.closeOnce.Do(func() {
		close(ss.done)

		ss.mu.Lock()
		streams := ss.streams
		ss.streams = make(map[string]*streamSink)
		ss.mu.Unlock()

		for stream, sink := range streams {
			_ = ss.server.conduits.CancelSink(stream, sink)
		}
		_ = ss.conn.Close()
		ss.server.removeSession(ss)
		logger.Debug("host session closed", "session", ss.id, "streams", len(streams))
	})
}

// streamSink 将管道事件转为会话帧
type streamSink struct {
	session *session
	stream  string
}

var _ pkgif.EventSink = (*streamSink)(nil)

// Success 推送事件
func (s *streamSink) Success(event any) {
	_ = s.session.push(eventFrame(s.stream, event))
}

// EndOfStream 推送流结束
func (s *streamSink) EndOfStream() {
	s.session.forget(s.stream, s)
	_ = s.session.push(endOfStreamFrame(s.stream))
}

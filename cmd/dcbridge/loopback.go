package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pion/webrtc/v4"

	"github.com/dep2p/go-dcbridge"
	"github.com/dep2p/go-dcbridge/config"
	"github.com/dep2p/go-dcbridge/internal/core/codec"
	"github.com/dep2p/go-dcbridge/internal/core/transport/pionrtc"
	"github.com/dep2p/go-dcbridge/pkg/types"
)

const loopbackConnection dcbridge.ConnectionID = "loopback"

// runLoopback 在进程内建立一对 pion 连接
//
// 本端由 Bridge 管理，对端是一个回显通道。两端用协商通道 id 0，
// 不依赖 DCEP 握手。每两秒发送一条文本，回显经事件管道打印。
func runLoopback(ctx context.Context, b *dcbridge.Bridge, cfg *config.Config) error {
	connID, local, err := b.NewPeerConnection(loopbackConnection)
	if err != nil {
		return err
	}
	defer func() { _ = b.RemoveConnection(connID) }()

	chID := 0
	chCfg := dcbridge.DefaultChannelConfig()
	chCfg.Negotiated = true
	chCfg.ID = &chID
	info, err := b.CreateDataChannel(connID, "echo", chCfg)
	if err != nil {
		return err
	}

	sink := newPrintSink()
	if err := b.Listen(b.ConduitName(connID, info.ID), sink); err != nil {
		return err
	}

	remote, err := pionrtc.NewAPI(cfg.Transport).NewPeerConnection()
	if err != nil {
		return err
	}
	defer func() { _ = remote.Close() }()

	negotiated := true
	remoteID := uint16(chID)
	echo, err := remote.Raw().CreateDataChannel("echo", &webrtc.DataChannelInit{
		Negotiated: &negotiated,
		ID:         &remoteID,
	})
	if err != nil {
		return fmt.Errorf("create echo channel: %w", err)
	}
	echo.OnMessage(func(msg webrtc.DataChannelMessage) {
		if msg.IsString {
			_ = echo.SendText(string(msg.Data))
			return
		}
		_ = echo.Send(msg.Data)
	})

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Transport.ConnectTimeout.Duration())
	err = pionrtc.ConnectLoopback(connectCtx, local, remote)
	cancel()
	if err != nil {
		return err
	}

	select {
	case <-sink.opened:
	case <-ctx.Done():
		return nil
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for n := 1; ; n++ {
		if err := b.Send(connID, info.ID, types.MessageTypeText.String(), fmt.Sprintf("ping %d", n)); err != nil {
			logger.Warn("loopback send", "err", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// printSink 把事件打印到标准输出
type printSink struct {
	once   sync.Once
	opened chan struct{}
}

func newPrintSink() *printSink {
	return &printSink{opened: make(chan struct{})}
}

func (s *printSink) Success(event any) {
	m, ok := event.(codec.Map)
	if !ok {
		return
	}
	switch m[codec.KeyEvent] {
	case types.EventDataChannelStateChanged:
		fmt.Printf("  [%v] state=%v\n", m[codec.KeyID], m[codec.KeyState])
		if m[codec.KeyState] == types.ChannelStateOpen.String() {
			s.once.Do(func() { close(s.opened) })
		}
	case types.EventDataChannelReceiveMessage:
		fmt.Printf("  [%v] %v: %v\n", m[codec.KeyID], m[codec.KeyType], m[codec.KeyData])
	}
}

func (s *printSink) EndOfStream() {
	fmt.Println("  end of stream")
}

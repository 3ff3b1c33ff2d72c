package pionrtc

import (
	"context"
	"fmt"
	"time"

	"github.com/pion/webrtc/v4"
)

// ConnectLoopback 在进程内完成 a（offer）与 b（answer）的协商
//
// 调用前 a 上至少要创建一个数据通道，否则 offer 中没有 application 段。
// 等到两端都进入 connected 或 ctx 结束时返回。
func ConnectLoopback(ctx context.Context, a, b *PeerConnection) error {
	if err := exchange(a.pc, b.pc); err != nil {
		return err
	}

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		sa, sb := a.pc.ConnectionState(), b.pc.ConnectionState()
		if sa == webrtc.PeerConnectionStateConnected && sb == webrtc.PeerConnectionStateConnected {
			logger.Debug("loopback connected")
			return nil
		}
		if sa == webrtc.PeerConnectionStateFailed || sb == webrtc.PeerConnectionStateFailed {
			return fmt.Errorf("loopback connection failed: offer=%s answer=%s", sa, sb)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("loopback connect: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// exchange 交换完整收集候选后的 SDP
func exchange(offerer, answerer *webrtc.PeerConnection) error {
	offer, err := offerer.CreateOffer(nil)
	if err != nil {
		return fmt.Errorf("create offer: %w", err)
	}
	gathered := webrtc.GatheringCompletePromise(offerer)
	if err := offerer.SetLocalDescription(offer); err != nil {
		return fmt.Errorf("set local offer: %w", err)
	}
	<-gathered

	if err := answerer.SetRemoteDescription(*offerer.LocalDescription()); err != nil {
		return fmt.Errorf("set remote offer: %w", err)
	}
	answer, err := answerer.CreateAnswer(nil)
	if err != nil {
		return fmt.Errorf("create answer: %w", err)
	}
	gathered = webrtc.GatheringCompletePromise(answerer)
	if err := answerer.SetLocalDescription(answer); err != nil {
		return fmt.Errorf("set local answer: %w", err)
	}
	<-gathered

	if err := offerer.SetRemoteDescription(*answerer.LocalDescription()); err != nil {
		return fmt.Errorf("set remote answer: %w", err)
	}
	return nil
}

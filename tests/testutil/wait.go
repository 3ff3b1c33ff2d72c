package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dep2p/go-dcbridge/tests/mocks"
)

// WaitForCondition 等待条件满足或超时
//
// 参数：
//   - t: 测试对象
//   - timeout: 超时时间
//   - interval: 检查间隔
//   - condition: 条件函数，返回 true 表示条件满足
//
// 返回：条件是否满足（超时返回 false）
func WaitForCondition(t *testing.T, timeout time.Duration, interval time.Duration, condition func() bool) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// 立即检查一次
	if condition() {
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if condition() {
				return true
			}
		}
	}
}

// WaitForConditionOrFail 等待条件满足，超时则 fail 测试
func WaitForConditionOrFail(t *testing.T, timeout time.Duration, interval time.Duration, condition func() bool, msg string) {
	t.Helper()

	if !WaitForCondition(t, timeout, interval, condition) {
		t.Fatalf("等待超时: %s", msg)
	}
}

// Eventually 在指定时间内重试条件检查
//
// 使用默认间隔 20ms。
//
// 示例:
//
//	testutil.Eventually(t, 5*time.Second, func() bool {
//	    return ch.State() == types.ChannelStateOpen
//	}, "通道应该打开")
func Eventually(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	t.Helper()
	WaitForConditionOrFail(t, timeout, 20*time.Millisecond, condition, msg)
}

// WaitForEvents 等待 sink 收到至少 n 个事件并返回它们
func WaitForEvents(t *testing.T, sink *mocks.RecordingSink, n int, timeout time.Duration) []any {
	t.Helper()
	Eventually(t, timeout, func() bool {
		return len(sink.Events()) >= n
	}, "等待管道事件")
	return sink.Events()
}

package mocks

import (
	"sync"

	"github.com/dep2p/go-dcbridge/pkg/interfaces"
)

// RecordingSink 记录所有推送的 EventSink
type RecordingSink struct {
	mu     sync.Mutex
	events []any
	ended  int
}

var _ interfaces.EventSink = (*RecordingSink)(nil)

// NewRecordingSink 创建 RecordingSink
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// Success 记录事件
func (s *RecordingSink) Success(event any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// EndOfStream 记录流结束
func (s *RecordingSink) EndOfStream() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended++
}

// Events 返回事件副本
func (s *RecordingSink) Events() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]any, len(s.events))
	copy(out, s.events)
	return out
}

// EndCount 返回 EndOfStream 次数
func (s *RecordingSink) EndCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

package quote

import (
	"context"
	"sync"

	"github.com/wyfcoding/bsengine/logging"
)

// Sink 接收报价记录。实现必须可并发调用。
type Sink interface {
	Emit(ctx context.Context, rec Record) error
}

// LogSink 将记录写入结构化日志。
type LogSink struct {
	logger *logging.Logger
}

// NewLogSink 创建日志 Sink。
func NewLogSink(logger *logging.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit 以 INFO 级别输出整条记录。
func (s *LogSink) Emit(ctx context.Context, rec Record) error {
	s.logger.InfoContext(ctx, "quote record", "kind", rec.RecordKind(), "id", rec.RecordID(), "record", rec)
	return nil
}

// MemorySink 在内存中保存记录。
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

// NewMemorySink 创建内存 Sink。
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Emit 追加记录。
func (s *MemorySink) Emit(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Records 返回记录快照。
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records...)
}

// Len 记录条数。
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Reset 清空记录。
func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

type discardSink struct{}

func (discardSink) Emit(context.Context, Record) error { return nil }

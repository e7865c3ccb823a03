package logger

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// captureHandler collects records for assertions. An optional delay per
// record simulates slow log I/O.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
	delay   time.Duration
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, rec slog.Record) error { //nolint:gocritic // slog.Handler interface requires value receiver
	if h.delay > 0 {
		time.Sleep(h.delay)
	}
	h.mu.Lock()
	h.records = append(h.records, rec)
	h.mu.Unlock()
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

func record(msg string) slog.Record {
	return slog.NewRecord(time.Now(), slog.LevelInfo, msg, 0)
}

func TestAsyncHandlerDelivers(t *testing.T) {
	inner := &captureHandler{}
	ah := NewAsyncHandler(inner, 100, 1)

	if err := ah.Handle(context.Background(), record("hello")); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	ah.Close()

	if got := inner.count(); got != 1 {
		t.Fatalf("records = %d, want 1", got)
	}
}

func TestAsyncHandlerConcurrentWriters(t *testing.T) {
	const writers = 100
	const perWriter = 100

	inner := &captureHandler{}
	ah := NewAsyncHandler(inner, writers*perWriter, 4)

	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWriter {
				_ = ah.Handle(context.Background(), record("concurrent"))
			}
		}()
	}
	wg.Wait()
	ah.Close()

	if got := inner.count(); got != writers*perWriter {
		t.Fatalf("records = %d, want %d", got, writers*perWriter)
	}
}

func TestAsyncHandlerFullQueueDropsAndCounts(t *testing.T) {
	inner := &captureHandler{delay: 10 * time.Millisecond}
	ah := NewAsyncHandler(inner, 1, 1)

	for range 50 {
		_ = ah.Handle(context.Background(), record("flood"))
	}
	ah.Close()

	if ah.DroppedCount() == 0 {
		t.Fatal("expected drops on a full queue")
	}
}

func TestAsyncHandlerCloseDrainsQueue(t *testing.T) {
	inner := &captureHandler{}
	ah := NewAsyncHandler(inner, 1000, 2)

	const total = 200
	for range total {
		_ = ah.Handle(context.Background(), record("drain"))
	}
	ah.Close()

	if got := inner.count(); got != total {
		t.Fatalf("records after close = %d, want %d", got, total)
	}
}

func TestAsyncHandlerCloseIsIdempotent(t *testing.T) {
	ah := NewAsyncHandler(&captureHandler{}, 10, 1)
	ah.Close()
	ah.Close()
}

package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sink receives a copy of every stored entry. Sinks run off the write path;
// an error is logged and otherwise ignored.
type Sink interface {
	Write(ctx context.Context, entry SystemLog) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, entry SystemLog) error

func (f SinkFunc) Write(ctx context.Context, entry SystemLog) error { return f(ctx, entry) }

// DropCounter is implemented by sinks that want to know about entries the
// dispatcher discarded because its queue was full.
type DropCounter interface {
	Dropped(entry SystemLog)
}

const (
	defaultQueueSize = 256
	sinkWriteTimeout = 5 * time.Second
)

type dispatcher struct {
	sinks  []Sink
	queue  chan SystemLog
	logger *zap.Logger
	wg     sync.WaitGroup
	once   sync.Once
	mu     sync.RWMutex
	closed bool
}

func newDispatcher(sinks []Sink, size int, logger *zap.Logger) *dispatcher {
	if size <= 0 {
		size = defaultQueueSize
	}
	d := &dispatcher{
		sinks:  sinks,
		queue:  make(chan SystemLog, size),
		logger: logger,
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// enqueue never blocks; a full queue drops the entry.
func (d *dispatcher) enqueue(entry SystemLog) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	select {
	case d.queue <- entry:
	default:
		d.logger.Warn("audit sink queue full, entry dropped", zap.String("id", entry.ID))
		for _, s := range d.sinks {
			if c, ok := s.(DropCounter); ok {
				c.Dropped(entry)
			}
		}
	}
}

func (d *dispatcher) run() {
	defer d.wg.Done()
	for entry := range d.queue {
		for _, s := range d.sinks {
			d.write(s, entry)
		}
	}
}

func (d *dispatcher) write(s Sink, entry SystemLog) {
	ctx, cancel := context.WithTimeout(context.Background(), sinkWriteTimeout)
	defer cancel()
	if err := s.Write(ctx, entry.clone()); err != nil {
		d.logger.Warn("audit sink write failed",
			zap.String("sink", fmt.Sprintf("%T", s)),
			zap.String("id", entry.ID),
			zap.Error(err),
		)
	}
}

func (d *dispatcher) close() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
		d.wg.Wait()
	})
}

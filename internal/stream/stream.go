// Package stream models the execution stream that generation and
// aggregation work is issued onto. Instead of ambient process-wide
// state, callers pass an explicit *Stream; the benchmark driver
// synchronizes the stream around each measured call so that timing
// reflects true completion of submitted work, not just submission.
package stream

import (
	"sync"
)

// Stream is an ordered asynchronous work queue. Work submitted to a
// stream executes sequentially in submission order on a dedicated
// goroutine. A Stream is owned by a single parameter-combination run;
// streams are never shared across concurrent combinations.
type Stream struct {
	tasks   chan func()
	pending sync.WaitGroup
	once    sync.Once
}

// New creates a stream and starts its worker.
func New() *Stream {
	s := &Stream{
		tasks: make(chan func(), 64),
	}
	go s.run()
	return s
}

func (s *Stream) run() {
	for task := range s.tasks {
		task()
	}
}

// Submit enqueues fn for ordered execution on the stream.
func (s *Stream) Submit(fn func()) {
	s.pending.Add(1)
	s.tasks <- func() {
		defer s.pending.Done()
		fn()
	}
}

// Synchronize blocks until every task submitted so far has completed.
func (s *Stream) Synchronize() {
	s.pending.Wait()
}

// Close drains the stream and stops its worker. The stream must not be
// used after Close.
func (s *Stream) Close() {
	s.once.Do(func() {
		s.pending.Wait()
		close(s.tasks)
	})
}

var (
	defaultStream *Stream
	defaultOnce   sync.Once
)

// Default returns the process-wide default stream, created on first
// use. The benchmark driver prefers per-combination streams; Default
// exists for callers outside a driven run.
func Default() *Stream {
	defaultOnce.Do(func() {
		defaultStream = New()
	})
	return defaultStream
}

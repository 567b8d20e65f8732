package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

var errWriterClosed = errors.New("logger: writer closed")

type writeOp struct {
	line []byte
	ack  chan error
}

// asyncWriter copies lines to every sink from a single goroutine so
// handlers never block on slow stdout or disk.
type asyncWriter struct {
	ops   chan writeOp
	done  chan struct{}
	sinks []*bufio.Writer

	// mu guards closed against sends on a closed ops channel.
	mu     sync.RWMutex
	closed bool

	errMu sync.Mutex
	err   error
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	w := &asyncWriter{
		ops:  make(chan writeOp, 256),
		done: make(chan struct{}),
	}
	for _, out := range writers {
		if out != nil {
			w.sinks = append(w.sinks, bufio.NewWriterSize(out, bufSize))
		}
	}
	go w.run()
	return w
}

func (w *asyncWriter) run() {
	defer close(w.done)
	for op := range w.ops {
		if op.ack != nil {
			op.ack <- w.flush()
			continue
		}
		for _, s := range w.sinks {
			if _, err := s.Write(op.line); err != nil {
				w.fail(err)
				break
			}
		}
		if len(w.ops) == 0 {
			if err := w.flush(); err != nil {
				w.fail(err)
			}
		}
	}
	if err := w.flush(); err != nil {
		w.fail(err)
	}
}

// Write queues a copy of p. It blocks only when the queue is full.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.firstErr(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return errWriterClosed
	}
	w.ops <- writeOp{line: append([]byte(nil), p...)}
	return nil
}

// Flush waits until every line queued before it reached the sinks.
func (w *asyncWriter) Flush() error {
	ack := make(chan error, 1)
	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return w.firstErr()
	}
	w.ops <- writeOp{ack: ack}
	w.mu.RUnlock()
	if err := <-ack; err != nil {
		return err
	}
	return w.firstErr()
}

// Close drains the queue and returns the first write error.
func (w *asyncWriter) Close() error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.ops)
	}
	w.mu.Unlock()
	<-w.done
	return w.firstErr()
}

func (w *asyncWriter) flush() error {
	var errs []error
	for _, s := range w.sinks {
		if err := s.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) fail(err error) {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	if w.err == nil {
		w.err = err
	}
}

func (w *asyncWriter) firstErr() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.err
}

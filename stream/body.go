package stream

import (
	"errors"
	"io"
	"iter"
	"slices"
	"sync"
)

// ErrFinished is returned by [Body.Append] once [Body.Finish] has been called.
var ErrFinished = errors.New("body already finished")

// readFromChunkSize is the per-chunk read size used by [Body.ReadFrom].
const readFromChunkSize = 32 * 1024

// Body is a single-producer, multi-consumer chunk queue guarded by a
// condition variable. It moves through two states: Open, where the
// producer appends and consumers suspend when no chunk is buffered, and
// Closed after [Body.Finish], which releases every pending consumer with
// no-more-data.
//
// Chunk iteration via [Body.Next], [Body.Chunks], or [Body.Read] is one
// shared forward pass: a drained chunk is gone. Only [Body.Collect] retains
// the full byte sequence, memoized after the first completed drain.
type Body struct {
	mu   sync.Mutex
	cond *sync.Cond

	queue    [][]byte
	finished bool

	// Collect state. buf accumulates chunks drained by in-flight Collect
	// callers; once the body is finished the result moves to collected and
	// never changes again.
	buf       []byte
	collected []byte
	done      bool

	// leftover carries the partially-consumed chunk between Read calls.
	// Only the Read pass touches it.
	leftover []byte
}

// New returns an empty, open Body.
func New() *Body {
	b := &Body{}
	b.cond = sync.NewCond(&b.mu)

	return b
}

// Append queues chunk for consumers. The chunk is copied, so the producer
// may reuse its buffer. Appending to a finished body fails with
// [ErrFinished].
func (b *Body) Append(chunk []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.finished {
		return ErrFinished
	}

	b.queue = append(b.queue, slices.Clone(chunk))
	b.cond.Broadcast()

	return nil
}

// Finish closes the write side: no further appends are permitted and every
// suspended consumer is released. Finish is idempotent.
func (b *Body) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.finished = true
	b.cond.Broadcast()
}

// Finished reports whether the write side has been closed.
func (b *Body) Finished() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.finished
}

// Next pops the next chunk in arrival order. It suspends while the body is
// open and no chunk is buffered, resuming when one is appended or the body
// finishes. ok is false once the queue is drained and the body is closed.
func (b *Body) Next() (chunk []byte, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for len(b.queue) == 0 && !b.finished {
		b.cond.Wait()
	}

	if len(b.queue) == 0 {
		return nil, false
	}

	chunk = b.queue[0]
	b.queue = b.queue[1:]

	return chunk, true
}

// Chunks returns a lazy iterator over [Body.Next]. It participates in the
// same single forward pass: ranging a second time after the first has
// drained yields nothing further.
func (b *Body) Chunks() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for {
			chunk, ok := b.Next()
			if !ok {
				return
			}

			if !yield(chunk) {
				return
			}
		}
	}
}

// Collect concatenates all remaining chunks in arrival order, including
// chunks appended after the call, returning once the body finishes. The
// result is computed once: concurrent callers cooperate on a single
// accumulation under the mutex and all observe identical bytes, and later
// calls return the memoized value without needing the producer.
func (b *Body) Collect() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	for {
		if b.done {
			return b.collected
		}

		for _, chunk := range b.queue {
			b.buf = append(b.buf, chunk...)
		}
		b.queue = nil

		if b.finished {
			b.collected = b.buf
			b.buf = nil
			b.done = true
			b.cond.Broadcast()

			return b.collected
		}

		b.cond.Wait()
	}
}

// Read implements [io.Reader] over the chunk sequence, returning [io.EOF]
// once the queue is drained and the body is finished. Read shares the
// single forward pass with Next and must not be called from multiple
// goroutines at once.
func (b *Body) Read(p []byte) (int, error) {
	for len(b.leftover) == 0 {
		chunk, ok := b.Next()
		if !ok {
			return 0, io.EOF
		}

		b.leftover = chunk
	}

	n := copy(p, b.leftover)
	b.leftover = b.leftover[n:]

	return n, nil
}

// ReadFrom implements [io.ReaderFrom] for the producer side, appending
// fixed-size chunks read from r until EOF. It does not call Finish; the
// producer decides when the body is complete.
func (b *Body) ReadFrom(r io.Reader) (int64, error) {
	var total int64

	buf := make([]byte, readFromChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			total += int64(n)
			if appendErr := b.Append(buf[:n]); appendErr != nil {
				return total, appendErr
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return total, nil
			}

			return total, err
		}
	}
}

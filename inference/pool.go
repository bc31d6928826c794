package inference

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Pool hands out ONNX sessions over one parser model. ONNX Runtime
// sessions are not safe for concurrent Run calls, so every sentence in
// flight holds its own session.
type Pool struct {
	idle chan *Session
	size int

	mu     sync.Mutex
	closed bool
	busy   int
}

// NewPool opens size sessions over modelPath. A size below one is
// treated as one.
func NewPool(modelPath string, size int) (*Pool, error) {
	size = max(size, 1)

	p := &Pool{
		idle: make(chan *Session, size),
		size: size,
	}
	for i := range size {
		s, err := NewSession(modelPath)
		if err != nil {
			_ = p.Close() // the open error is the one worth reporting
			return nil, fmt.Errorf("opening session %d of %d: %w", i+1, size, err)
		}
		p.idle <- s
	}
	return p, nil
}

// Acquire takes an idle session, waiting until one is released or ctx
// is done. It returns ErrPoolClosed once the pool is closed.
func (p *Pool) Acquire(ctx context.Context) (*Session, error) {
	select {
	case s, ok := <-p.idle:
		if !ok {
			return nil, ErrPoolClosed
		}
		p.mu.Lock()
		p.busy++
		p.mu.Unlock()
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release gives s back to the pool. Sessions released after Close are
// closed instead.
func (p *Pool) Release(s *Session) {
	if s == nil {
		return
	}

	// The lock is held across the send so Close cannot close idle under us.
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.busy > 0 {
		p.busy--
	}
	if p.closed {
		_ = s.Close()
		return
	}
	select {
	case p.idle <- s:
	default:
		_ = s.Close() // not one of ours
	}
}

// Infer runs one sentence on a pooled session.
func (p *Pool) Infer(ctx context.Context, wordIDs []int64) (*Logits, error) {
	s, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Release(s)
	return s.Infer(ctx, wordIDs)
}

// InUse returns how many sessions are currently checked out.
func (p *Pool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

// Close closes the idle sessions. Checked-out sessions are closed when
// they come back.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.idle)
	p.mu.Unlock()

	var errs []error
	for s := range p.idle {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

// Size returns the number of sessions the pool was opened with.
func (p *Pool) Size() int {
	return p.size
}

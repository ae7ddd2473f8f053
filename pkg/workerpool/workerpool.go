// Package workerpool provides a chunked, backpressured goroutine pool for
// embarrassingly parallel, pure workloads — the shape recipe search needs to
// fan a pigment-combination list out across available cores without any
// shared mutable state.
package workerpool

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

var (
	// ErrPoolClosed is returned when submitting work to a closed pool.
	ErrPoolClosed = errors.New("workerpool: pool closed")
	// ErrCallbackNil is returned when the provided callback is nil.
	ErrCallbackNil = errors.New("workerpool: callback cannot be nil")
	// ErrAlreadyInitialized is returned when Init is called twice without Close.
	ErrAlreadyInitialized = errors.New("workerpool: already initialized")
	// ErrNotInitialized is returned when Execute is called before Init.
	ErrNotInitialized = errors.New("workerpool: not initialized")
)

// Callback processes the half-open range [start, end) of a workload.
// Implementations must be concurrency-safe and side-effect-free: callbacks
// for disjoint ranges may run on different goroutines at the same time.
type Callback func(start, end int) error

// ChunkSizer decides how many items belong in one dispatched chunk.
type ChunkSizer func(total, workers int) int

// Option configures a Pool at Init time.
type Option func(*poolConfig)

type poolConfig struct {
	workers int
	sizer   ChunkSizer
}

// Pool coordinates chunked parallel execution over an index range.
// The zero value is usable; call Init before Execute.
type Pool struct {
	// Size and Sizer may be set before Init to override the defaults
	// (GOMAXPROCS workers, one chunk per worker).
	Size  int
	Sizer ChunkSizer

	workers int
	sizer   ChunkSizer
	tasks   chan *job
	stop    chan struct{}
	wg      sync.WaitGroup
	jobPool sync.Pool

	closed      atomic.Bool
	initialized atomic.Bool
}

type job struct {
	start, end int
	state      *execState
}

func (j *job) reset() { j.start, j.end, j.state = 0, 0, nil }

type execState struct {
	cb      Callback
	wg      sync.WaitGroup
	failed  atomic.Bool
	errOnce sync.Once
	err     error
}

func (s *execState) setErr(err error) {
	if err == nil {
		return
	}
	s.errOnce.Do(func() {
		s.err = err
		s.failed.Store(true)
	})
}

// Init starts the pool's worker goroutines. It must be called exactly once
// before Execute, and paired with Close when the pool is no longer needed.
func (p *Pool) Init(opts ...Option) error {
	if p.initialized.Load() {
		return ErrAlreadyInitialized
	}

	cfg := poolConfig{workers: p.Size, sizer: p.Sizer}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers <= 0 {
		cfg.workers = runtime.GOMAXPROCS(0)
		if cfg.workers <= 0 {
			cfg.workers = 1
		}
	}
	if cfg.sizer == nil {
		cfg.sizer = defaultChunkSizer
	}

	p.workers = cfg.workers
	p.sizer = cfg.sizer
	p.tasks = make(chan *job, cfg.workers)
	p.stop = make(chan struct{})
	p.jobPool = sync.Pool{New: func() any { return &job{} }}
	p.closed.Store(false)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.worker()
	}

	p.initialized.Store(true)
	return nil
}

// Execute splits [0, total) into chunks and runs fn over each chunk in
// parallel, blocking until every dispatched chunk has been handled. Once a
// chunk returns an error, chunks that have not started yet are skipped and
// that first error is returned. Dispatch blocks while all workers are busy, which bounds how far ahead of
// the slowest worker the submitter can get.
func (p *Pool) Execute(total int, fn Callback) error {
	if fn == nil {
		return ErrCallbackNil
	}
	if total <= 0 {
		return nil
	}
	if !p.initialized.Load() {
		return ErrNotInitialized
	}
	if p.closed.Load() {
		return ErrPoolClosed
	}

	state := &execState{cb: fn}
	chunk := p.chunkSize(total)

	for start := 0; start < total; start += chunk {
		end := start + chunk
		if end > total {
			end = total
		}
		if err := p.dispatch(state, start, end); err != nil {
			state.wg.Wait()
			return err
		}
	}

	state.wg.Wait()
	return state.err
}

// Close shuts the pool down, waiting for in-flight chunks to finish. It is
// safe to call Close more than once.
func (p *Pool) Close() {
	if !p.initialized.Load() || !p.closed.CompareAndSwap(false, true) {
		return
	}
	close(p.stop)
	p.wg.Wait()
	p.initialized.Store(false)
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			return
		case j := <-p.tasks:
			if j == nil || j.state == nil {
				continue
			}
			state := j.state
			if !state.failed.Load() {
				state.setErr(state.cb(j.start, j.end))
			}
			state.wg.Done()
			j.reset()
			p.jobPool.Put(j)
		}
	}
}

func (p *Pool) dispatch(state *execState, start, end int) error {
	state.wg.Add(1)
	j := p.jobPool.Get().(*job)
	j.start, j.end, j.state = start, end, state

	select {
	case <-p.stop:
		state.wg.Done()
		j.reset()
		p.jobPool.Put(j)
		return ErrPoolClosed
	case p.tasks <- j:
		return nil
	}
}

func (p *Pool) chunkSize(total int) int {
	size := p.sizer(total, p.workers)
	if size <= 0 {
		return 1
	}
	return size
}

func defaultChunkSizer(total, workers int) int {
	if workers <= 0 {
		workers = 1
	}
	size := (total + workers - 1) / workers
	if size <= 0 {
		return 1
	}
	return size
}

// WithWorkers overrides the worker count used by the pool.
func WithWorkers(n int) Option {
	return func(cfg *poolConfig) {
		if n > 0 {
			cfg.workers = n
		}
	}
}

// WithChunkSizer overrides how work is split into dispatched chunks.
func WithChunkSizer(sizer ChunkSizer) Option {
	return func(cfg *poolConfig) {
		if sizer != nil {
			cfg.sizer = sizer
		}
	}
}

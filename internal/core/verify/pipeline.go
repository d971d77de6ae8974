package verify

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/factlens/factlens/internal/config"
	"github.com/factlens/factlens/internal/core"
	apperrors "github.com/factlens/factlens/internal/errors"
	"github.com/factlens/factlens/internal/metrics"
	"github.com/factlens/factlens/internal/observability"
)

// ResultStore persists completed verifications and serves lookups.
type ResultStore interface {
	SaveResult(ctx context.Context, result *core.VerificationResult) error
	GetResult(ctx context.Context, id string) (*core.VerificationResult, core.RequestState, error)
}

// resultAnnotator is the optional post-analysis enrichment hook.
type resultAnnotator interface {
	Annotate(ctx context.Context, result *core.VerificationResult)
}

// Pipeline resolves pending requests asynchronously: submissions enter a
// bounded queue, workers analyze them after the configured processing delay,
// and results land in the store. Await lets callers block on a pending ID
// with a bounded timeout.
type Pipeline struct {
	store     ResultStore
	analyzer  Analyzer
	annotator resultAnnotator

	delay   time.Duration
	workers int
	queue   chan *core.Request

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	stopped  bool
	watchers map[string][]chan struct{}
}

// NewPipeline constructs a pipeline. The annotator may be nil.
func NewPipeline(store ResultStore, analyzer Analyzer, annotator resultAnnotator, cfg config.PipelineConfig, workers int) *Pipeline {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pipeline{
		store:     store,
		analyzer:  analyzer,
		annotator: annotator,
		delay:     cfg.ProcessingDelay,
		workers:   workers,
		queue:     make(chan *core.Request, queueSize),
		ctx:       ctx,
		cancel:    cancel,
		watchers:  make(map[string][]chan struct{}),
	}
}

// Start launches the worker pool.
func (p *Pipeline) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop shuts the pipeline down, waiting for in-flight work until ctx expires.
func (p *Pipeline) Stop(ctx context.Context) error {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	if ctx == nil {
		<-done
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue adds an accepted request to the processing queue.
func (p *Pipeline) Enqueue(ctx context.Context, req *core.Request) error {
	if p == nil {
		return errors.New("pipeline is not initialized")
	}
	if req == nil {
		return errors.New("request is required")
	}

	p.mu.Lock()
	stopped := p.stopped
	p.mu.Unlock()
	if stopped {
		return errors.New("pipeline is shutting down")
	}

	select {
	case p.queue <- req:
		metrics.SetPipelineQueueDepth(int64(len(p.queue)))
		return nil
	default:
		return errors.New("verification queue is full")
	}
}

// Await blocks until the result for id is ready, the timeout elapses, or the
// context is cancelled. Unknown IDs fail immediately with NOT_FOUND.
func (p *Pipeline) Await(ctx context.Context, id string, timeout time.Duration) (*core.VerificationResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		// Subscribe before checking so a completion between the check and
		// the wait cannot be missed.
		notify := p.subscribe(id)

		result, state, err := p.store.GetResult(ctx, id)
		if err != nil {
			p.unsubscribe(id, notify)
			return nil, err
		}

		switch state {
		case core.StateReady:
			p.unsubscribe(id, notify)
			return result, nil
		case core.StateNotFound:
			p.unsubscribe(id, notify)
			return nil, apperrors.NewNotFoundError("no verification request with that id")
		}

		select {
		case <-notify:
			// Result landed; loop to fetch it.
		case <-timer.C:
			p.unsubscribe(id, notify)
			metrics.RecordAwaitTimeout()
			return nil, apperrors.NewTimeoutError("verification did not complete in time")
		case <-ctx.Done():
			p.unsubscribe(id, notify)
			return nil, ctx.Err()
		}
	}
}

func (p *Pipeline) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case req := <-p.queue:
			metrics.SetPipelineQueueDepth(int64(len(p.queue)))
			p.process(req)
		}
	}
}

func (p *Pipeline) process(req *core.Request) {
	if req == nil {
		return
	}

	started := time.Now()

	// Simulated backend latency keeps result timing consistent with the
	// interactive latency budget.
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-p.ctx.Done():
			return
		}
	}

	result, err := p.analyzer.Analyze(p.ctx, req)
	if err != nil {
		p.logError("verification analysis failed", req.ID, err)
		return
	}

	if p.annotator != nil {
		p.annotator.Annotate(p.ctx, result)
	}

	if err := p.store.SaveResult(p.ctx, result); err != nil {
		p.logError("failed to store verification result", req.ID, err)
		return
	}

	metrics.RecordVerification(string(result.Status), time.Since(started))
	p.notify(req.ID)

	if observability.ServerLogger != nil {
		observability.ServerLogger.Info("verification completed",
			zap.String("request_id", req.ID),
			zap.String("verification_status", string(result.Status)),
			zap.Int("credibility_score", result.CredibilityScore),
			zap.Duration("duration", time.Since(started)),
		)
	}
}

func (p *Pipeline) subscribe(id string) chan struct{} {
	ch := make(chan struct{})
	p.mu.Lock()
	p.watchers[id] = append(p.watchers[id], ch)
	p.mu.Unlock()
	return ch
}

func (p *Pipeline) unsubscribe(id string, ch chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	watchers := p.watchers[id]
	for i, candidate := range watchers {
		if candidate == ch {
			p.watchers[id] = append(watchers[:i], watchers[i+1:]...)
			break
		}
	}
	if len(p.watchers[id]) == 0 {
		delete(p.watchers, id)
	}
}

func (p *Pipeline) notify(id string) {
	p.mu.Lock()
	watchers := p.watchers[id]
	delete(p.watchers, id)
	p.mu.Unlock()

	for _, ch := range watchers {
		close(ch)
	}
}

func (p *Pipeline) logError(msg string, requestID string, err error) {
	if observability.ServerLogger == nil {
		return
	}
	observability.ServerLogger.Error(msg,
		zap.String("request_id", requestID),
		zap.Error(err),
	)
}

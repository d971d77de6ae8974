package verify

import (
	"context"
	"sync"
	"testing"
	"time"

	gferrors "github.com/fulmenhq/gofulmen/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factlens/factlens/internal/config"
	"github.com/factlens/factlens/internal/core"
)

// memoryStore is an in-memory ResultStore tracking pending IDs.
type memoryStore struct {
	mu      sync.Mutex
	pending map[string]bool
	results map[string]*core.VerificationResult
	saveErr error
}

func newMemoryStore(pendingIDs ...string) *memoryStore {
	pending := make(map[string]bool, len(pendingIDs))
	for _, id := range pendingIDs {
		pending[id] = true
	}
	return &memoryStore{
		pending: pending,
		results: make(map[string]*core.VerificationResult),
	}
}

func (m *memoryStore) SaveResult(_ context.Context, result *core.VerificationResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.results[result.ID] = result
	delete(m.pending, result.ID)
	return nil
}

func (m *memoryStore) GetResult(_ context.Context, id string) (*core.VerificationResult, core.RequestState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if result, ok := m.results[id]; ok {
		return result, core.StateReady, nil
	}
	if m.pending[id] {
		return nil, core.StatePending, nil
	}
	return nil, core.StateNotFound, nil
}

func newTestPipeline(t *testing.T, store ResultStore, cfg config.PipelineConfig) *Pipeline {
	t.Helper()

	analyzer := newTestAnalyzer(t)
	p := NewPipeline(store, analyzer, nil, cfg, 2)
	p.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = p.Stop(ctx)
	})

	return p
}

func pendingRequest(id, content string) *core.Request {
	return &core.Request{
		ID:          id,
		State:       core.StatePending,
		ContentType: core.ContentTypeText,
		Content:     content,
		SubmittedAt: time.Now().UTC(),
	}
}

func TestPipelineProcessesRequest(t *testing.T) {
	store := newMemoryStore("req-1")
	p := newTestPipeline(t, store, config.PipelineConfig{
		ProcessingDelay: 10 * time.Millisecond,
		QueueSize:       4,
	})

	req := pendingRequest("req-1", "The Earth is flat and NASA hides it.")
	require.NoError(t, p.Enqueue(context.Background(), req))

	result, err := p.Await(context.Background(), "req-1", 5*time.Second)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, core.StatusFalse, result.Status)
	assert.Equal(t, 2, result.CredibilityScore)
}

func TestPipelineAwaitUnknownID(t *testing.T) {
	p := newTestPipeline(t, newMemoryStore(), config.PipelineConfig{QueueSize: 4})

	_, err := p.Await(context.Background(), "never-submitted", time.Second)
	require.Error(t, err)

	var envelope *gferrors.ErrorEnvelope
	require.ErrorAs(t, err, &envelope)
	assert.Equal(t, "NOT_FOUND", envelope.Code)
}

func TestPipelineAwaitTimeout(t *testing.T) {
	// Pending ID that is never enqueued, so it never resolves.
	store := newMemoryStore("req-stuck")
	p := newTestPipeline(t, store, config.PipelineConfig{QueueSize: 4})

	start := time.Now()
	_, err := p.Await(context.Background(), "req-stuck", 50*time.Millisecond)
	require.Error(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	var envelope *gferrors.ErrorEnvelope
	require.ErrorAs(t, err, &envelope)
	assert.Equal(t, "TIMEOUT", envelope.Code)
}

func TestPipelineAwaitHonorsContext(t *testing.T) {
	store := newMemoryStore("req-stuck")
	p := newTestPipeline(t, store, config.PipelineConfig{QueueSize: 4})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := p.Await(ctx, "req-stuck", 5*time.Second)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPipelineAwaitReturnsExistingResult(t *testing.T) {
	store := newMemoryStore()
	stored := &core.VerificationResult{
		ID:     "req-done",
		Status: core.StatusTrue,
	}
	require.NoError(t, store.SaveResult(context.Background(), stored))

	p := newTestPipeline(t, store, config.PipelineConfig{QueueSize: 4})

	result, err := p.Await(context.Background(), "req-done", time.Second)
	require.NoError(t, err)
	assert.Equal(t, core.StatusTrue, result.Status)
}

func TestPipelineQueueFull(t *testing.T) {
	store := newMemoryStore()
	analyzer := newTestAnalyzer(t)

	// Not started: nothing drains the queue.
	p := NewPipeline(store, analyzer, nil, config.PipelineConfig{QueueSize: 1}, 1)

	require.NoError(t, p.Enqueue(context.Background(), pendingRequest("req-1", "a")))
	err := p.Enqueue(context.Background(), pendingRequest("req-2", "b"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue is full")
}

func TestPipelineEnqueueAfterStop(t *testing.T) {
	store := newMemoryStore()
	p := NewPipeline(store, newTestAnalyzer(t), nil, config.PipelineConfig{QueueSize: 4}, 1)
	p.Start()
	require.NoError(t, p.Stop(context.Background()))

	err := p.Enqueue(context.Background(), pendingRequest("req-1", "a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutting down")
}

func TestPipelineConcurrentSubmissions(t *testing.T) {
	ids := []string{"req-a", "req-b", "req-c", "req-d", "req-e"}
	store := newMemoryStore(ids...)
	p := newTestPipeline(t, store, config.PipelineConfig{
		ProcessingDelay: 5 * time.Millisecond,
		QueueSize:       16,
	})

	for _, id := range ids {
		require.NoError(t, p.Enqueue(context.Background(), pendingRequest(id, "claim "+id)))
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			result, err := p.Await(context.Background(), id, 5*time.Second)
			assert.NoError(t, err)
			assert.NotNil(t, result)
		}(id)
	}
	wg.Wait()
}

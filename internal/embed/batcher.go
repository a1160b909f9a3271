package embed

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/okonst/scribecheck/internal/model"
)

// sleepFunc is the delay function used between retries (injectable for tests).
var sleepFunc = sleep

// Batcher embeds a run's segments concurrently. One segment's failure
// never aborts the batch: each segment carries its own status, and the
// aggregate confidence reflects how many succeeded.
type Batcher struct {
	provider   Provider
	cache      *VectorCache // nil disables caching
	limiter    *rate.Limiter
	maxWorkers int
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
}

// NewBatcher creates a batcher over the given provider.
func NewBatcher(provider Provider, cache *VectorCache, cfg model.EmbeddingConfig) *Batcher {
	maxWorkers := cfg.MaxInFlight
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 500 * time.Millisecond
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ratePerSec := cfg.RatePerSec
	if ratePerSec <= 0 {
		ratePerSec = 10
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 5
	}

	return &Batcher{
		provider:   provider,
		cache:      cache,
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), burst),
		maxWorkers: maxWorkers,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		timeout:    timeout,
	}
}

// EmbedAll embeds every segment, bounded by the concurrency cap and
// the provider rate limiter. Results are positional: result i belongs
// to segments[i]. Cancelling ctx marks undispatched segments as
// skipped and returns ctx.Err so the caller can abandon the run.
func (b *Batcher) EmbedAll(ctx context.Context, segments []model.Segment) ([]model.SegmentVector, error) {
	results := make([]model.SegmentVector, len(segments))
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, b.maxWorkers)

	for i, seg := range segments {
		wg.Add(1)
		go func(idx int, s model.Segment) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = model.SegmentVector{
					SegmentIndex: s.Index,
					Status:       model.VectorSkipped,
					Err:          ctx.Err(),
				}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = b.embedOne(ctx, s)
		}(i, seg)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// embedOne embeds a single segment with bounded exponential backoff.
// Only transient failures (rate limit, service unavailable) are
// retried; invalid input fails immediately.
func (b *Batcher) embedOne(ctx context.Context, seg model.Segment) model.SegmentVector {
	if b.cache != nil {
		if vec, found := b.cache.Get(seg.Text); found {
			return model.SegmentVector{SegmentIndex: seg.Index, Vector: vec, Status: model.VectorOK}
		}
	}

	var lastErr error
	delay := b.retryDelay

	for attempt := 0; attempt < b.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepFunc(ctx, delay); err != nil {
				return model.SegmentVector{SegmentIndex: seg.Index, Status: model.VectorFailed, Err: lastErr}
			}
			delay *= 2
		}

		if err := b.limiter.Wait(ctx); err != nil {
			return model.SegmentVector{SegmentIndex: seg.Index, Status: model.VectorFailed, Err: err}
		}

		callCtx, cancel := context.WithTimeout(ctx, b.timeout)
		vec, err := b.provider.Embed(callCtx, seg.Text)
		cancel()

		if err == nil {
			if b.cache != nil {
				b.cache.Set(seg.Text, vec)
			}
			return model.SegmentVector{SegmentIndex: seg.Index, Vector: vec, Status: model.VectorOK}
		}

		lastErr = err

		var provErr *ProviderError
		if errors.As(err, &provErr) && !provErr.Retryable() {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	return model.SegmentVector{SegmentIndex: seg.Index, Status: model.VectorFailed, Err: lastErr}
}

// Embed embeds a single piece of text outside a batch (corpus
// ingestion, ad-hoc queries) with the same retry and cache behavior.
func (b *Batcher) Embed(ctx context.Context, text string) ([]float32, error) {
	sv := b.embedOne(ctx, model.Segment{Index: 0, Text: text})
	if sv.Status != model.VectorOK {
		return nil, sv.Err
	}
	return sv.Vector, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

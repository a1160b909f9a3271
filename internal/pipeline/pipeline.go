package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/okonst/scribecheck/internal/embed"
	"github.com/okonst/scribecheck/internal/index"
	"github.com/okonst/scribecheck/internal/llm"
	"github.com/okonst/scribecheck/internal/model"
	"github.com/okonst/scribecheck/internal/score"
	"github.com/okonst/scribecheck/internal/segment"
	"github.com/okonst/scribecheck/internal/store"
	"github.com/okonst/scribecheck/internal/suggest"
)

// PersistenceError wraps a store failure. The run is considered failed
// and must be retried by the caller.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist analysis result: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Analyzer orchestrates one document analysis run:
// segment -> embed -> query index -> aggregate -> suggest -> persist.
type Analyzer struct {
	segmenter  *segment.Segmenter
	batcher    *embed.Batcher
	holder     *index.Holder
	aggregator *score.Aggregator
	selector   *suggest.Selector
	composer   *suggest.Composer
	store      store.Store
	topK       int
	verbose    bool

	// onState, when set, observes run state transitions.
	onState func(model.RunState)
}

// NewAnalyzer assembles the pipeline from configuration and its
// collaborators. The advisor may be nil (static suggestion templates
// are used).
func NewAnalyzer(cfg *model.Config, provider embed.Provider, holder *index.Holder, st store.Store, advisor *llm.Advisor) *Analyzer {
	var cache *embed.VectorCache
	if cfg.Cache.Enabled {
		cache = embed.NewVectorCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	topK := cfg.Analysis.TopK
	if topK <= 0 {
		topK = 1
	}

	return &Analyzer{
		segmenter:  segment.NewSegmenter(cfg.Segmenter.MinSegmentLength),
		batcher:    embed.NewBatcher(provider, cache, cfg.Embedding),
		holder:     holder,
		aggregator: score.NewAggregator(cfg.Analysis.FlagThreshold),
		selector:   suggest.NewSelector(cfg.Analysis.MaxSuggestions),
		composer:   suggest.NewComposer(advisor),
		store:      st,
		topK:       topK,
		verbose:    cfg.Output.Verbose,
	}
}

// SetStateHook registers an observer for run state transitions.
func (a *Analyzer) SetStateHook(hook func(model.RunState)) {
	a.onState = hook
}

func (a *Analyzer) setState(s model.RunState) {
	if a.onState != nil {
		a.onState(s)
	}
}

// Batcher exposes the analyzer's embedder for corpus ingestion and
// ad-hoc queries, so they share the cache and rate limiter.
func (a *Analyzer) Batcher() *embed.Batcher {
	return a.batcher
}

// Analyze runs one full analysis and persists the result. Partial
// embedding failures lower the confidence score but never fail the
// run; only an empty document, cancellation, or a persistence failure
// do. On cancellation nothing is persisted.
func (a *Analyzer) Analyze(ctx context.Context, doc model.Document) (*model.AnalysisResult, error) {
	a.setState(model.StatePending)

	// 1. Segment
	a.setState(model.StateSegmenting)
	segments, err := a.segmenter.Segment(doc)
	if err != nil {
		a.setState(model.StateFailed)
		return nil, fmt.Errorf("segment document %s: %w", doc.ID, err)
	}
	if a.verbose {
		fmt.Fprintf(os.Stderr, "✓ Segmented into %d units\n", len(segments))
	}

	// 2. Embed, bounded concurrency, per-segment failure isolation
	a.setState(model.StateEmbedding)
	vectors, err := a.batcher.EmbedAll(ctx, segments)
	if err != nil {
		// Cancelled mid-run: all-or-nothing, persist nothing.
		a.setState(model.StateFailed)
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	// 3. Query the index for each embedded segment
	a.setState(model.StateScoring)
	snap := a.holder.Snapshot()
	matches := make(map[int][]model.Match, len(vectors))
	for _, sv := range vectors {
		if sv.Status != model.VectorOK {
			continue
		}
		segMatches, err := snap.Query(sv.Vector, a.topK)
		if err != nil {
			if errors.Is(err, index.ErrIndexEmpty) {
				// Empty corpus means no matches, not a failure.
				continue
			}
			a.setState(model.StateFailed)
			return nil, fmt.Errorf("query index: %w", err)
		}
		for i := range segMatches {
			segMatches[i].SegmentIndex = sv.SegmentIndex
		}
		matches[sv.SegmentIndex] = segMatches
	}

	assessment := a.aggregator.Aggregate(segments, vectors, matches, snap)
	if a.verbose {
		fmt.Fprintf(os.Stderr, "✓ Plagiarism score %.3f (confidence %.2f, %d/%d segments embedded)\n",
			assessment.PlagiarismScore, assessment.ConfidenceScore,
			assessment.SegmentsEmbedded, assessment.SegmentsTotal)
	}

	// 4. Suggestions
	a.setState(model.StateSuggesting)
	suggestions := a.selector.Select(matches, snap)
	research := a.composer.Research(ctx, doc, suggestions)
	citations := a.composer.Citations(suggestions)

	// 5. Assemble. Pure composition: offsets pass through untouched.
	result := &model.AnalysisResult{
		DocumentID:              doc.ID,
		PlagiarismScore:         assessment.PlagiarismScore,
		FlaggedSections:         assessment.FlaggedSections,
		SuggestedSources:        suggestions,
		ResearchSuggestions:     research,
		CitationRecommendations: citations,
		ConfidenceScore:         assessment.ConfidenceScore,
		SegmentsTotal:           assessment.SegmentsTotal,
		SegmentsEmbedded:        assessment.SegmentsEmbedded,
		AnalyzedAt:              time.Now().UTC(),
	}

	if err := ctx.Err(); err != nil {
		a.setState(model.StateFailed)
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	// 6. Persist
	if err := a.store.Save(ctx, result); err != nil {
		a.setState(model.StateFailed)
		return nil, &PersistenceError{Err: err}
	}

	a.setState(model.StateCompleted)
	return result, nil
}

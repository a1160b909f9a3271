package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okonst/scribecheck/internal/embed"
	"github.com/okonst/scribecheck/internal/index"
	"github.com/okonst/scribecheck/internal/model"
	"github.com/okonst/scribecheck/internal/store"
)

// fixedProvider returns a scripted vector per exact text, failing for
// unknown texts. It makes whole-pipeline runs fully deterministic.
type fixedProvider struct {
	vectors map[string][]float32
}

func (p *fixedProvider) Name() string   { return "fixed" }
func (p *fixedProvider) Dimension() int { return 3 }

func (p *fixedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := p.vectors[text]; ok {
		return vec, nil
	}
	return nil, &embed.ProviderError{Kind: embed.KindInvalidInput, Err: errors.New("no scripted vector")}
}

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Embedding.Dimension = 3
	cfg.Embedding.Timeout = time.Second
	cfg.Embedding.RetryDelay = time.Millisecond
	cfg.Embedding.RatePerSec = 1000
	cfg.Embedding.BurstSize = 100
	cfg.Cache.Enabled = false
	return cfg
}

var (
	paraA = strings.Repeat("a", 64)
	paraB = strings.Repeat("b", 64)
)

// corpusHolder builds a two-source index: src-1 matches paraA at 0.93,
// nothing matches paraB above 0.10.
func corpusHolder() *index.Holder {
	h := index.NewHolder()
	h.Rebuild([]model.ReferenceSource{
		{ID: "src-1", Title: "Reference One", Type: model.SourcePaper, Vector: []float32{1, 0, 0}},
		{ID: "src-2", Title: "Reference Two", Type: model.SourceTextbook, Vector: []float32{0, 1, 0}},
	})
	return h
}

func scriptedVectors() map[string][]float32 {
	return map[string][]float32{
		// cos with src-1 = 0.93, with src-2 = 0.3676
		paraA: {0.93, 0.3676, 0},
		// cos with src-1 = 0.10, with src-2 = 0
		paraB: {0.10, 0, 0.995},
	}
}

func TestAnalyze_TwoParagraphScenario(t *testing.T) {
	provider := &fixedProvider{vectors: scriptedVectors()}
	st := store.NewMemoryStore()
	analyzer := NewAnalyzer(testConfig(), provider, corpusHolder(), st, nil)

	var states []model.RunState
	analyzer.SetStateHook(func(s model.RunState) { states = append(states, s) })

	doc := model.Document{ID: "doc-1", Text: paraA + "\n\n" + paraB, Topic: "testing"}
	result, err := analyzer.Analyze(context.Background(), doc)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if diff := result.PlagiarismScore - 0.515; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("PlagiarismScore = %f, want 0.515", result.PlagiarismScore)
	}
	if result.ConfidenceScore != 1.0 {
		t.Errorf("ConfidenceScore = %f, want 1.0", result.ConfidenceScore)
	}
	if len(result.FlaggedSections) != 1 {
		t.Fatalf("flagged sections = %d, want 1", len(result.FlaggedSections))
	}
	flagged := result.FlaggedSections[0]
	if flagged.SourceID != "src-1" || flagged.SegmentIndex != 0 {
		t.Errorf("wrong section flagged: %+v", flagged)
	}
	if doc.Text[flagged.Start:flagged.End] != paraA {
		t.Errorf("flagged offsets do not map back to the first paragraph")
	}

	if last := states[len(states)-1]; last != model.StateCompleted {
		t.Errorf("final state = %s, want completed", last)
	}

	// Result was persisted.
	if _, err := st.Load(context.Background(), "doc-1"); err != nil {
		t.Errorf("result not persisted: %v", err)
	}
}

func TestAnalyze_AllEmbeddingsFailStillCompletes(t *testing.T) {
	provider := &fixedProvider{vectors: map[string][]float32{}} // everything fails
	st := store.NewMemoryStore()
	analyzer := NewAnalyzer(testConfig(), provider, corpusHolder(), st, nil)

	var states []model.RunState
	analyzer.SetStateHook(func(s model.RunState) { states = append(states, s) })

	doc := model.Document{ID: "doc-2", Text: paraA + "\n\n" + paraB}
	result, err := analyzer.Analyze(context.Background(), doc)
	if err != nil {
		t.Fatalf("run must complete despite provider failures: %v", err)
	}

	if result.PlagiarismScore != 0 {
		t.Errorf("PlagiarismScore = %f, want 0", result.PlagiarismScore)
	}
	if result.ConfidenceScore != 0 {
		t.Errorf("ConfidenceScore = %f, want 0", result.ConfidenceScore)
	}
	for _, s := range states {
		if s == model.StateFailed {
			t.Error("run must not enter failed state on embedding failures")
		}
	}
}

func TestAnalyze_EmptyCorpus(t *testing.T) {
	provider := &fixedProvider{vectors: scriptedVectors()}
	st := store.NewMemoryStore()
	analyzer := NewAnalyzer(testConfig(), provider, index.NewHolder(), st, nil)

	doc := model.Document{ID: "doc-3", Text: paraA + "\n\n" + paraB}
	result, err := analyzer.Analyze(context.Background(), doc)
	if err != nil {
		t.Fatalf("empty corpus must not fail the run: %v", err)
	}

	if result.PlagiarismScore != 0 {
		t.Errorf("PlagiarismScore = %f, want 0", result.PlagiarismScore)
	}
	if len(result.SuggestedSources) != 0 {
		t.Errorf("suggested sources = %d, want 0", len(result.SuggestedSources))
	}
	if result.ConfidenceScore != 1.0 {
		t.Errorf("ConfidenceScore = %f, want 1.0 (embedding still succeeded)", result.ConfidenceScore)
	}
}

func TestAnalyze_EmptyDocumentFails(t *testing.T) {
	provider := &fixedProvider{vectors: scriptedVectors()}
	analyzer := NewAnalyzer(testConfig(), provider, corpusHolder(), store.NewMemoryStore(), nil)

	var states []model.RunState
	analyzer.SetStateHook(func(s model.RunState) { states = append(states, s) })

	_, err := analyzer.Analyze(context.Background(), model.Document{ID: "doc-4", Text: "   \n\n  "})
	if err == nil {
		t.Fatal("expected error for empty document")
	}
	if last := states[len(states)-1]; last != model.StateFailed {
		t.Errorf("final state = %s, want failed", last)
	}
}

// failingStore always fails Save.
type failingStore struct{}

func (f *failingStore) Save(ctx context.Context, result *model.AnalysisResult) error {
	return errors.New("disk on fire")
}

func (f *failingStore) Load(ctx context.Context, documentID string) (*model.AnalysisResult, error) {
	return nil, store.ErrNotFound
}

func TestAnalyze_PersistenceFailureIsFatal(t *testing.T) {
	provider := &fixedProvider{vectors: scriptedVectors()}
	analyzer := NewAnalyzer(testConfig(), provider, corpusHolder(), &failingStore{}, nil)

	doc := model.Document{ID: "doc-5", Text: paraA + "\n\n" + paraB}
	_, err := analyzer.Analyze(context.Background(), doc)

	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}

func TestAnalyze_CancellationPersistsNothing(t *testing.T) {
	provider := &fixedProvider{vectors: scriptedVectors()}
	st := store.NewMemoryStore()
	analyzer := NewAnalyzer(testConfig(), provider, corpusHolder(), st, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := model.Document{ID: "doc-6", Text: paraA + "\n\n" + paraB}
	if _, err := analyzer.Analyze(ctx, doc); err == nil {
		t.Fatal("expected error for cancelled run")
	}

	if _, err := st.Load(context.Background(), "doc-6"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("cancelled run must persist nothing, got %v", err)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	provider := &fixedProvider{vectors: scriptedVectors()}
	st := store.NewMemoryStore()
	analyzer := NewAnalyzer(testConfig(), provider, corpusHolder(), st, nil)

	doc := model.Document{ID: "doc-7", Text: paraA + "\n\n" + paraB}

	first, err := analyzer.Analyze(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	second, err := analyzer.Analyze(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}

	if first.PlagiarismScore != second.PlagiarismScore {
		t.Errorf("scores differ across identical runs: %f vs %f", first.PlagiarismScore, second.PlagiarismScore)
	}
	if len(first.FlaggedSections) != len(second.FlaggedSections) {
		t.Errorf("flagged sections differ across identical runs")
	}

	// Each run appended a new record.
	if history := st.History("doc-7"); len(history) != 2 {
		t.Errorf("history length = %d, want 2", len(history))
	}
}

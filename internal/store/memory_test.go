package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okonst/scribecheck/internal/model"
)

func TestMemoryStore_SaveAndLoad(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	result := &model.AnalysisResult{
		DocumentID:      "doc-1",
		PlagiarismScore: 0.42,
		ConfidenceScore: 1.0,
		AnalyzedAt:      time.Now().UTC(),
	}
	if err := s.Save(ctx, result); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.PlagiarismScore != 0.42 {
		t.Errorf("PlagiarismScore = %f, want 0.42", got.PlagiarismScore)
	}
}

func TestMemoryStore_LoadMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Load(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ReanalysisAppendsNewRecord(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := &model.AnalysisResult{DocumentID: "doc-1", PlagiarismScore: 0.1}
	second := &model.AnalysisResult{DocumentID: "doc-1", PlagiarismScore: 0.9}
	if err := s.Save(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx, "doc-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.PlagiarismScore != 0.9 {
		t.Errorf("Load should return the latest record, got score %f", got.PlagiarismScore)
	}

	if history := s.History("doc-1"); len(history) != 2 {
		t.Errorf("history length = %d, want 2 (old records kept)", len(history))
	}
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Save(ctx, &model.AnalysisResult{DocumentID: "doc-1"}); err == nil {
		t.Error("Save with cancelled context should fail")
	}
}

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/okonst/scribecheck/internal/model"
)

func TestFileStore_SaveAndLoad(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()

	result := &model.AnalysisResult{
		DocumentID:      "doc-1",
		PlagiarismScore: 0.42,
		ConfidenceScore: 1.0,
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

func TestFileStore_LoadMissing(t *testing.T) {
	s := NewFileStore(t.TempDir())
	_, err := s.Load(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStore_ReanalysisAppendsNewRecord(t *testing.T) {
	s := NewFileStore(t.TempDir())
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

	history, err := s.History("doc-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Errorf("history length = %d, want 2 (old records kept)", len(history))
	}
}

func TestFileStore_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1 := NewFileStore(dir)
	if err := s1.Save(ctx, &model.AnalysisResult{DocumentID: "doc-1", PlagiarismScore: 0.3}); err != nil {
		t.Fatal(err)
	}

	// A fresh store over the same directory sees earlier records
	s2 := NewFileStore(dir)
	got, err := s2.Load(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Load after restart: %v", err)
	}
	if got.PlagiarismScore != 0.3 {
		t.Errorf("PlagiarismScore = %f, want 0.3", got.PlagiarismScore)
	}
}

func TestFileStore_CancelledContext(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Save(ctx, &model.AnalysisResult{DocumentID: "doc-1"}); err == nil {
		t.Error("Save with cancelled context should fail")
	}
}

package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/okonst/scribecheck/internal/model"
)

// Analyzer defines the interface for analyzing one document.
type Analyzer interface {
	Analyze(ctx context.Context, doc model.Document) (*model.AnalysisResult, error)
}

// AnalyzeJob represents one document analysis job.
type AnalyzeJob struct {
	Doc      model.Document
	Analyzer Analyzer
}

// Execute runs the analysis job.
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	result, err := j.Analyzer.Analyze(ctx, j.Doc)
	return &AnalyzeResult{
		DocumentID: j.Doc.ID,
		Result:     result,
		Error:      err,
	}
}

// AnalyzeResult represents the result of an analysis job.
type AnalyzeResult struct {
	DocumentID string
	Result     *model.AnalysisResult
	Error      error
}

// GetError returns the error from the analysis result.
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple documents concurrently. Runs share
// only the read-only index snapshot; each job is otherwise
// independent, so a pool of workers is safe.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessDocuments analyzes the documents concurrently and returns one
// result per document.
func (b *BatchProcessor) ProcessDocuments(ctx context.Context, docs []model.Document) []*AnalyzeResult {
	if len(docs) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// Drain results while submitting: both pool channels are buffered
	// at workers*2, so submitting every job up front blocks once the
	// buffers fill on batches larger than the pool.
	collector := NewResultCollector()
	var drain sync.WaitGroup
	drain.Add(1)
	go func() {
		defer drain.Done()
		for range docs {
			collector.Add(pool.Take())
		}
	}()

	for _, doc := range docs {
		pool.Submit(&AnalyzeJob{
			Doc:      doc,
			Analyzer: b.analyzer,
		})
	}

	drain.Wait()
	pool.Shutdown()

	results := collector.Results()
	analyzeResults := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		analyzeResults[i] = result.(*AnalyzeResult)
	}

	return analyzeResults
}

// ProcessDir reads every .txt file in a directory as a document and
// analyzes them concurrently. The filename stem becomes the document
// ID.
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir, topic, level string) ([]*AnalyzeResult, error) {
	docs, err := ReadDocumentsFromDir(dir, topic, level)
	if err != nil {
		return nil, fmt.Errorf("read documents: %w", err)
	}

	return b.ProcessDocuments(ctx, docs), nil
}

// ReadDocumentsFromDir loads .txt files from a directory as documents,
// sorted by filename for stable ordering.
func ReadDocumentsFromDir(dir, topic, level string) ([]model.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var docs []model.Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		doc, err := ReadDocumentFromFile(path, topic, level)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// ReadDocumentFromFile loads one text file as a document.
func ReadDocumentFromFile(path, topic, level string) (model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	text := string(data)
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return model.Document{
		ID:            id,
		Text:          text,
		Topic:         topic,
		AcademicLevel: level,
		WordCount:     len(strings.Fields(text)),
	}, nil
}

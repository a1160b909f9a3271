package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/okonst/scribecheck/internal/model"
)

// FileStore persists run histories as one JSON file per document, so
// records survive process restarts. Re-analysis appends to the file
// rather than replacing it.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Save appends the result to the document's history file.
func (s *FileStore) Save(ctx context.Context, result *model.AnalysisResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.readHistory(result.DocumentID)
	if err != nil {
		return err
	}
	history = append(history, result)

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := os.WriteFile(s.path(result.DocumentID), data, 0644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}

// Load returns the latest result for the document.
func (s *FileStore) Load(ctx context.Context, documentID string) (*model.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.readHistory(documentID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, ErrNotFound
	}
	return history[len(history)-1], nil
}

// History returns every stored result for the document, oldest first.
func (s *FileStore) History(documentID string) ([]*model.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readHistory(documentID)
}

func (s *FileStore) readHistory(documentID string) ([]*model.AnalysisResult, error) {
	data, err := os.ReadFile(s.path(documentID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}

	var history []*model.AnalysisResult
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parse history file: %w", err)
	}
	return history, nil
}

// path hashes the document ID so arbitrary IDs map to safe filenames.
func (s *FileStore) path(documentID string) string {
	hash := sha256.Sum256([]byte(documentID))
	return filepath.Join(s.dir, hex.EncodeToString(hash[:16])+".json")
}

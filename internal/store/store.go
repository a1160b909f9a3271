package store

import (
	"context"
	"errors"

	"github.com/okonst/scribecheck/internal/model"
)

// ErrNotFound indicates no analysis result exists for the document.
var ErrNotFound = errors.New("analysis result not found")

// Store persists analysis results. The analysis core talks to
// persistence only through this interface; a Save failure is fatal for
// the run and surfaced to the caller for retry.
type Store interface {
	// Save persists one analysis result. Each run produces a new
	// record; implementations must not overwrite run history.
	Save(ctx context.Context, result *model.AnalysisResult) error

	// Load returns the most recent analysis result for the document,
	// or ErrNotFound.
	Load(ctx context.Context, documentID string) (*model.AnalysisResult, error)
}

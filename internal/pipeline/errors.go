package pipeline

import (
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/reel-remix/internal/chunk"
)

var (
	// ErrNoTranscriptAvailable means every window of an item failed.
	ErrNoTranscriptAvailable = errors.New("no transcript available")
	// ErrNothingProcessed means no item of a batch produced a result.
	ErrNothingProcessed = errors.New("no videos processed")
)

// ChunkTranscriptionError is one window that could not be transcribed.
// It is recorded in the transcript, never returned to batch callers.
type ChunkTranscriptionError struct {
	Index  int
	Window chunk.Window
	Err    error
}

func (e *ChunkTranscriptionError) Error() string {
	return fmt.Sprintf("transcribe window %d %s: %v", e.Index, e.Window, e.Err)
}

func (e *ChunkTranscriptionError) Unwrap() error { return e.Err }

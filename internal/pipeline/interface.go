package pipeline

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/reel-remix/internal/models"
)

// Assembler turns one audio artifact into a transcript, tolerating
// individual window failures.
type Assembler interface {
	// Assemble probes the audio length and then transcribes it.
	Assemble(ctx context.Context, audio models.MediaArtifact, baseID string) (*models.TranscriptResult, error)
	// AssembleDuration transcribes audio whose length is already known.
	AssembleDuration(ctx context.Context, audio models.MediaArtifact, baseID string, total time.Duration) (*models.TranscriptResult, error)
}

// ItemPipeline runs one video through fetch, extract, probe, transcribe and
// optionally analyze. It never returns an error; failures are in the outcome.
type ItemPipeline interface {
	Run(ctx context.Context, item models.VideoItem, skipAnalysis bool) ItemOutcome
}

// Batch processes a creator's own reels plus one reference reel and, when
// both sides produced usable text, synthesizes a remix script.
type Batch interface {
	Run(ctx context.Context, req Request) (*models.BatchResult, error)
}

// Recorder stores a summary of each finished batch. Optional.
type Recorder interface {
	Record(ctx context.Context, result *models.BatchResult) error
}

// Request is one batch invocation.
type Request struct {
	Own       []string `json:"own" yaml:"own"`
	Reference string   `json:"reference" yaml:"reference"`
}

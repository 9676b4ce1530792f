package models

import (
	"strings"

	"github.com/nguyentantai21042004/reel-remix/internal/chunk"
)

// TranscriptResult is the assembled transcript of one audio artifact.
// Text joins the successful windows in SourceWindows order.
type TranscriptResult struct {
	Text          string         `json:"text"`
	SourceWindows []chunk.Window `json:"sourceWindows"`
	FailedWindows []chunk.Window `json:"failedWindows,omitempty"`
	Artifact      *MediaArtifact `json:"artifact,omitempty"`
}

// HasText reports whether the transcript carries any words.
func (t *TranscriptResult) HasText() bool {
	return t != nil && strings.TrimSpace(t.Text) != ""
}

// ItemResult is what one item pipeline produced. Missing stages leave
// Transcript or Analysis nil.
type ItemResult struct {
	BaseID     string            `json:"id"`
	Reference  string            `json:"reference"`
	Artifacts  []MediaArtifact   `json:"artifacts"`
	Transcript *TranscriptResult `json:"transcript,omitempty"`
	Analysis   *string           `json:"analysis,omitempty"`
}

// Artifact returns the first artifact of kind, if any.
func (r *ItemResult) Artifact(kind ArtifactKind) (MediaArtifact, bool) {
	for _, a := range r.Artifacts {
		if a.Kind == kind {
			return a, true
		}
	}
	return MediaArtifact{}, false
}

// HasAnalysis reports whether a non-empty analysis exists.
func (r *ItemResult) HasAnalysis() bool {
	return r != nil && r.Analysis != nil && strings.TrimSpace(*r.Analysis) != ""
}

// BatchResult aggregates every item of one batch.
type BatchResult struct {
	ID                string          `json:"id"`
	OwnResults        []ItemResult    `json:"results"`
	ReferenceResult   *ItemResult     `json:"viralResult"`
	SynthesizedScript *string         `json:"generatedContent"`
	ScriptArtifacts   []MediaArtifact `json:"scriptArtifacts,omitempty"`
}

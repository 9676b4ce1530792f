package models

import "time"

// ArtifactKind tells what an artifact holds and where it is stored.
type ArtifactKind string

const (
	KindVideo      ArtifactKind = "video"
	KindAudio      ArtifactKind = "audio"
	KindTranscript ArtifactKind = "transcript"
	KindAnalysis   ArtifactKind = "analysis"
	KindScript     ArtifactKind = "script"
)

// MediaArtifact is a handle to content written by one pipeline run.
// It is immutable once written.
type MediaArtifact struct {
	ID          string       `json:"id"`
	Kind        ArtifactKind `json:"kind"`
	StoragePath string       `json:"-"`
	PublicPath  string       `json:"path"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// VideoItem is one resolved video reference.
type VideoItem struct {
	Reference  string `json:"reference"`
	VideoURL   string `json:"videoUrl,omitempty"`
	DisplayURL string `json:"displayUrl,omitempty"`
}

// MediaURL returns the URL to download, falling back to the display URL.
func (v VideoItem) MediaURL() string {
	if v.VideoURL != "" {
		return v.VideoURL
	}
	return v.DisplayURL
}

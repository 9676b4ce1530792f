package speech

import "context"

// Transcriber converts one audio file into text. An empty string with a nil
// error means the provider heard nothing.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
	Name() string
}

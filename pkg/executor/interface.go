package executor

import "context"

// Executor runs external binaries such as ffmpeg and ffprobe.
type Executor interface {
	// Execute runs name with args and returns its stdout.
	Execute(ctx context.Context, name string, args ...string) (string, error)
}

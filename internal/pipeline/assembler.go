package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nguyentantai21042004/reel-remix/internal/chunk"
	"github.com/nguyentantai21042004/reel-remix/internal/logger"
	"github.com/nguyentantai21042004/reel-remix/internal/metrics"
	"github.com/nguyentantai21042004/reel-remix/internal/models"
	"github.com/sirupsen/logrus"
)

// windowOutcome is the result of one transcription attempt.
type windowOutcome struct {
	window chunk.Window
	text   string
	err    error
}

func (a *implAssembler) Assemble(ctx context.Context, audio models.MediaArtifact, baseID string) (*models.TranscriptResult, error) {
	total, err := a.media.ProbeDuration(ctx, audio.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("%w: probe duration: %w", ErrNoTranscriptAvailable, err)
	}
	return a.AssembleDuration(ctx, audio, baseID, total)
}

func (a *implAssembler) AssembleDuration(ctx context.Context, audio models.MediaArtifact, baseID string, total time.Duration) (*models.TranscriptResult, error) {
	windows, err := chunk.Plan(total, a.maxChunk)
	if err != nil {
		return nil, fmt.Errorf("plan windows: %w", err)
	}

	if len(windows) == 1 {
		a.logger.Info(ctx, "Transcribing %s directly (%s)", filepath.Base(audio.StoragePath), total)
	} else {
		a.logger.Info(ctx, "Audio is %s, splitting into %d windows", total.Round(time.Second), len(windows))
	}

	outcomes := a.transcribeAll(ctx, audio, baseID, windows)

	result, err := foldTranscript(outcomes)
	if err != nil {
		a.logger.Error(ctx, "No transcript for %s from %d window(s): %v", baseID, len(windows), err)
		return nil, err
	}
	if len(result.FailedWindows) > 0 {
		a.logger.Warn(ctx, "Transcript for %s is missing %d of %d window(s)", baseID, len(result.FailedWindows), len(windows))
	}

	if result.HasText() {
		artifact := a.store.New(models.KindTranscript, baseID+".txt")
		saved, err := a.store.Write(ctx, artifact, strings.NewReader(result.Text))
		if err != nil {
			a.logger.Warn(ctx, "Failed to save transcript %s: %v", artifact.StoragePath, err)
		} else {
			result.Artifact = &saved
		}
	}

	return result, nil
}

// transcribeAll runs every window, at most a.concurrency at a time, and
// returns the outcomes indexed by window position.
func (a *implAssembler) transcribeAll(ctx context.Context, audio models.MediaArtifact, baseID string, windows []chunk.Window) []windowOutcome {
	outcomes := make([]windowOutcome, len(windows))
	direct := len(windows) == 1
	sem := newSemaphore(a.concurrency)

	var wg sync.WaitGroup
	for i, w := range windows {
		outcomes[i].window = w

		if err := sem.acquire(ctx); err != nil {
			outcomes[i].err = &ChunkTranscriptionError{Index: i, Window: w, Err: err}
			continue
		}
		// acquire may win the race against a cancelled ctx.
		if err := ctx.Err(); err != nil {
			sem.release()
			outcomes[i].err = &ChunkTranscriptionError{Index: i, Window: w, Err: err}
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.release()

			wctx := logger.WithFields(ctx, logrus.Fields{"window": i, "start": w.Start.Seconds()})
			text, err := a.transcribeWindow(wctx, audio, baseID, i, w, direct)
			if err != nil {
				metrics.ChunkTranscriptions.WithLabelValues("failed").Inc()
				a.logger.Warn(wctx, "Window %d/%d failed: %v", i+1, len(windows), err)
			} else {
				metrics.ChunkTranscriptions.WithLabelValues("ok").Inc()
			}
			outcomes[i].text = text
			outcomes[i].err = err
		}()
	}
	wg.Wait()

	return outcomes
}

// transcribeWindow makes one speech call. Multi-window plans clip an
// ephemeral sub-artifact first, which is removed on every exit path.
func (a *implAssembler) transcribeWindow(ctx context.Context, audio models.MediaArtifact, baseID string, idx int, w chunk.Window, direct bool) (string, error) {
	if direct {
		text, err := a.speech.Transcribe(ctx, audio.StoragePath)
		if err != nil {
			return "", &ChunkTranscriptionError{Index: idx, Window: w, Err: err}
		}
		return text, nil
	}

	clip := a.store.Ephemeral(fmt.Sprintf("%s_part%d%s", baseID, idx, filepath.Ext(audio.StoragePath)))
	defer func() {
		// The request context may already be cancelled here.
		if err := a.store.Remove(context.WithoutCancel(ctx), clip); err != nil {
			a.logger.Warn(ctx, "Failed to remove chunk %s: %v", clip.StoragePath, err)
		}
	}()

	a.logger.Debug(ctx, "Processing window %d (starts at %s)", idx+1, w.Start)

	if err := a.media.Clip(ctx, audio.StoragePath, w, clip.StoragePath); err != nil {
		return "", &ChunkTranscriptionError{Index: idx, Window: w, Err: err}
	}

	text, err := a.speech.Transcribe(ctx, clip.StoragePath)
	if err != nil {
		return "", &ChunkTranscriptionError{Index: idx, Window: w, Err: err}
	}
	return text, nil
}

// foldTranscript reduces window outcomes, already in window order, into a
// transcript. Successful windows with blank text add no words; if no window
// adds any, there is no transcript.
func foldTranscript(outcomes []windowOutcome) (*models.TranscriptResult, error) {
	result := &models.TranscriptResult{
		SourceWindows: make([]chunk.Window, 0, len(outcomes)),
	}

	var parts []string
	for _, o := range outcomes {
		result.SourceWindows = append(result.SourceWindows, o.window)
		if o.err != nil {
			result.FailedWindows = append(result.FailedWindows, o.window)
			continue
		}
		if text := strings.TrimSpace(o.text); text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return nil, ErrNoTranscriptAvailable
	}
	result.Text = strings.Join(parts, " ")
	return result, nil
}

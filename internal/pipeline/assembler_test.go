package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nguyentantai21042004/reel-remix/internal/chunk"
	"github.com/nguyentantai21042004/reel-remix/internal/logger"
)

func win(start, length int) chunk.Window {
	return chunk.Window{Start: time.Duration(start) * time.Second, Length: time.Duration(length) * time.Second}
}

func TestFoldTranscript(t *testing.T) {
	tests := []struct {
		name       string
		outcomes   []windowOutcome
		wantText   string
		wantFailed []chunk.Window
		wantErr    error
	}{
		{
			name:     "all succeed",
			outcomes: []windowOutcome{{window: win(0, 25), text: "a"}, {window: win(25, 25), text: " b "}},
			wantText: "a b",
		},
		{
			name: "middle fails",
			outcomes: []windowOutcome{
				{window: win(0, 25), text: "first"},
				{window: win(25, 25), err: errBoom},
				{window: win(50, 25), text: "third"},
			},
			wantText:   "first third",
			wantFailed: []chunk.Window{win(25, 25)},
		},
		{
			name:     "blank success adds no words",
			outcomes: []windowOutcome{{window: win(0, 25), text: ""}, {window: win(25, 25), text: "x"}},
			wantText: "x",
		},
		{
			name:     "only blank successes",
			outcomes: []windowOutcome{{window: win(0, 10), text: "  "}},
			wantErr:  ErrNoTranscriptAvailable,
		},
		{
			name:     "blank and failed windows",
			outcomes: []windowOutcome{{window: win(0, 25), text: ""}, {window: win(25, 25), err: errBoom}},
			wantErr:  ErrNoTranscriptAvailable,
		},
		{
			name:     "all fail",
			outcomes: []windowOutcome{{window: win(0, 25), err: errBoom}, {window: win(25, 25), err: errBoom}},
			wantErr:  ErrNoTranscriptAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := foldTranscript(tt.outcomes)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("foldTranscript() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				if got != nil {
					t.Error("failed fold must not return a transcript")
				}
				return
			}
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if len(got.SourceWindows) != len(tt.outcomes) {
				t.Errorf("SourceWindows = %v", got.SourceWindows)
			}
			if len(got.FailedWindows) != len(tt.wantFailed) {
				t.Fatalf("FailedWindows = %v, want %v", got.FailedWindows, tt.wantFailed)
			}
			for i := range tt.wantFailed {
				if got.FailedWindows[i] != tt.wantFailed[i] {
					t.Errorf("FailedWindows[%d] = %v, want %v", i, got.FailedWindows[i], tt.wantFailed[i])
				}
			}
		})
	}
}

func TestAssembleDirect(t *testing.T) {
	store := newTestStore(t)
	tc := &fakeTranscoder{duration: 10 * time.Second}
	sp := &fakeSpeech{texts: map[int]string{-1: "short clip"}}
	a := NewAssembler(tc, sp, store, 25*time.Second, 2, logger.Nop())

	audio := store.audio(t, "reel_x.mp3")
	got, err := a.Assemble(context.Background(), audio, "reel_x")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if len(sp.calls) != 1 || sp.calls[0] != audio.StoragePath {
		t.Errorf("speech calls = %v, want one call on the whole artifact", sp.calls)
	}
	if len(tc.clips) != 0 {
		t.Errorf("direct path clipped %v", tc.clips)
	}
	if got.Text != "short clip" || len(got.SourceWindows) != 1 || got.SourceWindows[0] != win(0, 10) {
		t.Errorf("result = %+v", got)
	}
	if got.Artifact == nil || got.Artifact.PublicPath != "/downloads/transcripts/reel_x.txt" {
		t.Errorf("Artifact = %+v", got.Artifact)
	}
	data, err := os.ReadFile(filepath.Join(store.root, "transcripts", "reel_x.txt"))
	if err != nil || string(data) != "short clip" {
		t.Errorf("saved transcript = %q, %v", data, err)
	}
}

func TestAssembleChunkedOrderAndPartialFailure(t *testing.T) {
	store := newTestStore(t)
	tc := &fakeTranscoder{duration: 70 * time.Second}
	sp := &fakeSpeech{
		texts: map[int]string{0: "chunk0", 2: "chunk2"},
		errs:  map[int]error{1: errBoom},
		// Window 0 completes last.
		delays: map[int]time.Duration{0: 30 * time.Millisecond},
	}
	a := NewAssembler(tc, sp, store, 25*time.Second, 3, logger.Nop())

	got, err := a.Assemble(context.Background(), store.audio(t, "reel_y.mp3"), "reel_y")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if got.Text != "chunk0 chunk2" {
		t.Errorf("Text = %q, want %q", got.Text, "chunk0 chunk2")
	}
	wantWindows := []chunk.Window{win(0, 25), win(25, 25), win(50, 25)}
	for i, w := range wantWindows {
		if got.SourceWindows[i] != w {
			t.Errorf("SourceWindows[%d] = %v, want %v", i, got.SourceWindows[i], w)
		}
	}
	if len(got.FailedWindows) != 1 || got.FailedWindows[0] != win(25, 25) {
		t.Errorf("FailedWindows = %v", got.FailedWindows)
	}
	if len(sp.calls) != 3 || len(tc.clips) != 3 {
		t.Errorf("calls = %d, clips = %d, want 3 each", len(sp.calls), len(tc.clips))
	}
	if left := store.tempFiles(t); len(left) != 0 {
		t.Errorf("ephemeral chunks left behind: %v", left)
	}
}

func TestAssembleAllFail(t *testing.T) {
	store := newTestStore(t)
	tc := &fakeTranscoder{duration: 60 * time.Second}
	sp := &fakeSpeech{errs: map[int]error{0: errBoom, 1: errBoom, 2: errBoom}}
	a := NewAssembler(tc, sp, store, 25*time.Second, 2, logger.Nop())

	_, err := a.Assemble(context.Background(), store.audio(t, "reel_z.mp3"), "reel_z")
	if !errors.Is(err, ErrNoTranscriptAvailable) {
		t.Fatalf("Assemble() error = %v, want ErrNoTranscriptAvailable", err)
	}
	if left := store.tempFiles(t); len(left) != 0 {
		t.Errorf("ephemeral chunks left behind: %v", left)
	}
	if _, err := os.Stat(filepath.Join(store.root, "transcripts", "reel_z.txt")); !os.IsNotExist(err) {
		t.Error("no transcript file expected when every window fails")
	}
}

func TestAssembleClipFailureCleansUp(t *testing.T) {
	store := newTestStore(t)
	tc := &fakeTranscoder{duration: 40 * time.Second, clipErr: errBoom}
	sp := &fakeSpeech{}
	a := NewAssembler(tc, sp, store, 25*time.Second, 1, logger.Nop())

	_, err := a.Assemble(context.Background(), store.audio(t, "reel_c.mp3"), "reel_c")
	if !errors.Is(err, ErrNoTranscriptAvailable) {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(sp.calls) != 0 {
		t.Errorf("speech called after clip failure: %v", sp.calls)
	}
	if left := store.tempFiles(t); len(left) != 0 {
		t.Errorf("ephemeral chunks left behind: %v", left)
	}
}

func TestAssembleCancellationCleansUp(t *testing.T) {
	store := newTestStore(t)
	tc := &fakeTranscoder{duration: 100 * time.Second}
	sp := &fakeSpeech{block: true, started: make(chan struct{}, 4)}
	a := NewAssembler(tc, sp, store, 25*time.Second, 2, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := a.Assemble(ctx, store.audio(t, "reel_k.mp3"), "reel_k")
		done <- err
	}()

	<-sp.started
	<-sp.started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, ErrNoTranscriptAvailable) {
			t.Errorf("Assemble() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Assemble() did not return after cancellation")
	}

	if left := store.tempFiles(t); len(left) != 0 {
		t.Errorf("ephemeral chunks left behind: %v", left)
	}
	if len(sp.calls) != 2 {
		t.Errorf("speech calls = %d, want 2 (the rest never started)", len(sp.calls))
	}
}

func TestAssembleProbeFailure(t *testing.T) {
	store := newTestStore(t)
	tc := &fakeTranscoder{probeErr: errBoom}
	a := NewAssembler(tc, &fakeSpeech{}, store, 25*time.Second, 2, logger.Nop())

	_, err := a.Assemble(context.Background(), store.audio(t, "reel_p.mp3"), "reel_p")
	if !errors.Is(err, ErrNoTranscriptAvailable) {
		t.Errorf("Assemble() error = %v, want %v", err, ErrNoTranscriptAvailable)
	}
	if !errors.Is(err, errBoom) {
		t.Errorf("Assemble() error = %v, want wrapped probe error", err)
	}
}

func TestAssembleBlankSpeech(t *testing.T) {
	store := newTestStore(t)
	sp := &fakeSpeech{texts: map[int]string{-1: "   "}}
	a := NewAssembler(&fakeTranscoder{}, sp, store, 25*time.Second, 2, logger.Nop())

	got, err := a.AssembleDuration(context.Background(), store.audio(t, "reel_b.mp3"), "reel_b", 10*time.Second)
	if !errors.Is(err, ErrNoTranscriptAvailable) {
		t.Fatalf("AssembleDuration() = %+v, %v, want %v", got, err, ErrNoTranscriptAvailable)
	}
	if _, statErr := os.Stat(filepath.Join(store.root, "transcripts", "reel_b.txt")); statErr == nil {
		t.Error("blank transcript must not be persisted")
	}
}

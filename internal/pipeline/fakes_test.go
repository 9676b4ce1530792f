package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/reel-remix/internal/chunk"
	"github.com/nguyentantai21042004/reel-remix/internal/logger"
	"github.com/nguyentantai21042004/reel-remix/internal/models"
	"github.com/nguyentantai21042004/reel-remix/internal/storage"
	"github.com/nguyentantai21042004/reel-remix/internal/stylist"
)

var errBoom = errors.New("boom")

type fakeTranscoder struct {
	mu         sync.Mutex
	extractErr error
	clipErr    error
	duration   time.Duration
	probeErr   error
	clips      []string
}

func (f *fakeTranscoder) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	if f.extractErr != nil {
		os.WriteFile(audioPath, []byte("partial"), 0644)
		return f.extractErr
	}
	return os.WriteFile(audioPath, []byte("audio"), 0644)
}

func (f *fakeTranscoder) Clip(ctx context.Context, audioPath string, w chunk.Window, outPath string) error {
	f.mu.Lock()
	f.clips = append(f.clips, outPath)
	f.mu.Unlock()
	if err := os.WriteFile(outPath, []byte(w.String()), 0644); err != nil {
		return err
	}
	return f.clipErr
}

func (f *fakeTranscoder) ProbeDuration(ctx context.Context, audioPath string) (time.Duration, error) {
	return f.duration, f.probeErr
}

// fakeSpeech answers by window index, parsed from the "_part<i>" clip name.
// Direct calls use index -1.
type fakeSpeech struct {
	mu      sync.Mutex
	calls   []string
	texts   map[int]string
	errs    map[int]error
	delays  map[int]time.Duration
	started chan struct{}
	block   bool
}

func (f *fakeSpeech) Name() string { return "fake" }

func (f *fakeSpeech) Transcribe(ctx context.Context, path string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}

	idx := partIndex(path)
	if d := f.delays[idx]; d > 0 {
		time.Sleep(d)
	}
	if err := f.errs[idx]; err != nil {
		return "", err
	}
	return f.texts[idx], nil
}

func partIndex(path string) int {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	i := strings.LastIndex(base, "_part")
	if i < 0 {
		return -1
	}
	n := 0
	for _, c := range base[i+len("_part"):] {
		n = n*10 + int(c-'0')
	}
	return n
}

type fakeFetcher struct {
	body string
	err  error
	urls []string
	mu   sync.Mutex
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	f.mu.Lock()
	f.urls = append(f.urls, url)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

type fakeAnalyzer struct {
	mu    sync.Mutex
	calls int
	out   string
	err   error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, transcript string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.out + ": " + transcript, nil
}

type fakeSynthesizer struct {
	mu        sync.Mutex
	calls     int
	profiles  []string
	reference string
	out       string
	err       error
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, profiles []string, reference string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.profiles = profiles
	f.reference = reference
	return f.out, f.err
}

var _ stylist.Synthesizer = (*fakeSynthesizer)(nil)

type testStore struct {
	storage.Store
	root string
	temp string
}

func newTestStore(t *testing.T) testStore {
	t.Helper()
	root := t.TempDir()
	temp := filepath.Join(root, "tmp")
	s := storage.New(root, temp, nil, logger.Nop())
	for _, d := range s.Dirs() {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	return testStore{Store: s, root: root, temp: temp}
}

func (s testStore) tempFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(s.temp)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (s testStore) audio(t *testing.T, name string) models.MediaArtifact {
	t.Helper()
	a := s.New(models.KindAudio, name)
	if err := os.WriteFile(a.StoragePath, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
	return a
}

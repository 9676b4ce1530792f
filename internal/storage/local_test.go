package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/reel-remix/internal/logger"
	"github.com/nguyentantai21042004/reel-remix/internal/models"
)

type fakeMirror struct {
	got []models.MediaArtifact
	err error
}

func (f *fakeMirror) Mirror(ctx context.Context, a models.MediaArtifact) error {
	f.got = append(f.got, a)
	return f.err
}

func TestNewArtifactPaths(t *testing.T) {
	root := t.TempDir()
	s := New(root, filepath.Join(root, "tmp"), nil, logger.Nop())

	a := s.New(models.KindTranscript, "reel_1.txt")
	if a.StoragePath != filepath.Join(root, "transcripts", "reel_1.txt") {
		t.Errorf("StoragePath = %q", a.StoragePath)
	}
	if a.PublicPath != "/downloads/transcripts/reel_1.txt" {
		t.Errorf("PublicPath = %q", a.PublicPath)
	}
	if a.ID != "reel_1" || a.Kind != models.KindTranscript {
		t.Errorf("artifact = %+v", a)
	}

	e := s.Ephemeral("reel_1_part2.mp3")
	if e.PublicPath != "" || filepath.Dir(e.StoragePath) != filepath.Join(root, "tmp") {
		t.Errorf("ephemeral = %+v", e)
	}
}

func TestWriteAndRemove(t *testing.T) {
	root := t.TempDir()
	mirror := &fakeMirror{}
	s := New(root, filepath.Join(root, "tmp"), mirror, logger.Nop())
	ctx := context.Background()

	a, err := s.Write(ctx, s.New(models.KindAnalysis, "reel_1_analysis.txt"), strings.NewReader("profile"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	data, err := os.ReadFile(a.StoragePath)
	if err != nil || string(data) != "profile" {
		t.Fatalf("content = %q, err = %v", data, err)
	}
	if len(mirror.got) != 1 {
		t.Errorf("mirror calls = %d, want 1", len(mirror.got))
	}

	entries, _ := os.ReadDir(filepath.Dir(a.StoragePath))
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the artifact", len(entries))
	}

	if err := s.Remove(ctx, a); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(a.StoragePath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("artifact still exists: %v", err)
	}
	if err := s.Remove(ctx, a); err != nil {
		t.Errorf("second Remove() error = %v", err)
	}
}

func TestWriteVideoNotMirrored(t *testing.T) {
	root := t.TempDir()
	mirror := &fakeMirror{}
	s := New(root, filepath.Join(root, "tmp"), mirror, logger.Nop())

	if _, err := s.Write(context.Background(), s.New(models.KindVideo, "reel_1.mp4"), strings.NewReader("bytes")); err != nil {
		t.Fatal(err)
	}
	if len(mirror.got) != 0 {
		t.Errorf("video was mirrored")
	}
}

func TestMirrorFailureIsNotFatal(t *testing.T) {
	root := t.TempDir()
	s := New(root, filepath.Join(root, "tmp"), &fakeMirror{err: errors.New("minio down")}, logger.Nop())

	if _, err := s.Write(context.Background(), s.New(models.KindScript, "b.md"), strings.NewReader("x")); err != nil {
		t.Errorf("Write() error = %v", err)
	}
}

func TestCommitRejectsEmpty(t *testing.T) {
	root := t.TempDir()
	s := New(root, filepath.Join(root, "tmp"), nil, logger.Nop())

	if _, err := s.Write(context.Background(), s.New(models.KindVideo, "empty.mp4"), strings.NewReader("")); err == nil {
		t.Error("Write() of empty content should fail")
	}
	if _, err := s.Commit(context.Background(), s.New(models.KindAudio, "missing.mp3")); err == nil {
		t.Error("Commit() of missing file should fail")
	}
}

func TestDirs(t *testing.T) {
	s := New("root", "root/tmp", nil, logger.Nop())
	dirs := s.Dirs()
	if len(dirs) != 6 || dirs[0] != "root/tmp" {
		t.Errorf("Dirs() = %v", dirs)
	}
}

func TestObjectName(t *testing.T) {
	a := models.MediaArtifact{Kind: models.KindTranscript, StoragePath: "/data/transcripts/reel_1.txt"}
	if got := objectName(a); got != "transcript/reel_1.txt" {
		t.Errorf("objectName() = %q", got)
	}
	if got := contentType("x.docx"); !strings.Contains(got, "wordprocessingml") {
		t.Errorf("contentType() = %q", got)
	}
}

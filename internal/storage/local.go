package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/reel-remix/internal/models"
)

var subdirs = map[models.ArtifactKind]string{
	models.KindVideo:      "videos",
	models.KindAudio:      "audios",
	models.KindTranscript: "transcripts",
	models.KindAnalysis:   "analysis",
	models.KindScript:     "scripts",
}

// mirrored lists the kinds forwarded to the mirror after a write.
var mirrored = map[models.ArtifactKind]bool{
	models.KindTranscript: true,
	models.KindAnalysis:   true,
	models.KindScript:     true,
}

func (s *implStore) New(kind models.ArtifactKind, filename string) models.MediaArtifact {
	sub := subdirs[kind]
	return models.MediaArtifact{
		ID:          strings.TrimSuffix(filename, filepath.Ext(filename)),
		Kind:        kind,
		StoragePath: filepath.Join(s.root, sub, filename),
		PublicPath:  path.Join(PublicPrefix, sub, filename),
	}
}

func (s *implStore) Ephemeral(filename string) models.MediaArtifact {
	return models.MediaArtifact{
		ID:          strings.TrimSuffix(filename, filepath.Ext(filename)),
		Kind:        models.KindAudio,
		StoragePath: filepath.Join(s.tempDir, filename),
	}
}

// Write goes through a temp file and a rename so readers never see a partial artifact.
func (s *implStore) Write(ctx context.Context, a models.MediaArtifact, r io.Reader) (models.MediaArtifact, error) {
	dir := filepath.Dir(a.StoragePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return a, fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".partial-*")
	if err != nil {
		return a, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return a, fmt.Errorf("write %s: %w", a.StoragePath, err)
	}
	if err := tmp.Close(); err != nil {
		return a, fmt.Errorf("close %s: %w", a.StoragePath, err)
	}
	if err := os.Rename(tmp.Name(), a.StoragePath); err != nil {
		return a, fmt.Errorf("move into place %s: %w", a.StoragePath, err)
	}

	return s.Commit(ctx, a)
}

func (s *implStore) Commit(ctx context.Context, a models.MediaArtifact) (models.MediaArtifact, error) {
	info, err := os.Stat(a.StoragePath)
	if err != nil {
		return a, fmt.Errorf("stat %s: %w", a.StoragePath, err)
	}
	if info.Size() == 0 {
		return a, fmt.Errorf("artifact %s is empty", a.StoragePath)
	}
	a.CreatedAt = time.Now().UTC()

	if s.mirror != nil && mirrored[a.Kind] {
		if err := s.mirror.Mirror(ctx, a); err != nil {
			s.logger.Warn(ctx, "Failed to mirror %s: %v", a.StoragePath, err)
		}
	}
	return a, nil
}

func (s *implStore) Remove(ctx context.Context, a models.MediaArtifact) error {
	if err := os.Remove(a.StoragePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", a.StoragePath, err)
	}
	s.logger.Debug(ctx, "Removed artifact: %s", a.StoragePath)
	return nil
}

func (s *implStore) Dirs() []string {
	dirs := []string{s.tempDir}
	for _, kind := range []models.ArtifactKind{
		models.KindVideo, models.KindAudio, models.KindTranscript, models.KindAnalysis, models.KindScript,
	} {
		dirs = append(dirs, filepath.Join(s.root, subdirs[kind]))
	}
	return dirs
}

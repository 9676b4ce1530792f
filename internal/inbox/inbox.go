// Package inbox runs batches described by job files dropped into a directory.
//
// A job file is YAML (JSON also parses) with the same fields as a batch
// request:
//
//	own:
//	  - https://www.instagram.com/reel/abc/
//	reference: https://www.instagram.com/reel/xyz/
//
// The outcome is written to <output>/<job>.result.json and the job file is
// moved to the archive directory, whether the batch succeeded or not.
package inbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/reel-remix/internal/logger"
	"github.com/nguyentantai21042004/reel-remix/internal/models"
	"github.com/nguyentantai21042004/reel-remix/internal/pipeline"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Extensions are the job file types the inbox accepts.
var Extensions = []string{".yaml", ".yml", ".json"}

const (
	StatusOK         = "ok"
	StatusNotFound   = "not_found"
	StatusFailed     = "failed"
	StatusInvalidJob = "invalid_job"
	resultFileSuffix = ".result.json"
)

// Result is the content of a job's result file.
type Result struct {
	Job        string                `json:"job"`
	Status     string                `json:"status"`
	Error      string                `json:"error,omitempty"`
	Response   *models.BatchResponse `json:"response,omitempty"`
	FinishedAt time.Time             `json:"finishedAt"`
}

// Runner handles one job file at a time; it fits watcher.EventHandler.
type Runner struct {
	batch       pipeline.Batch
	outputDir   string
	archivedDir string
	logger      logger.Logger
}

// New creates a Runner.
func New(batch pipeline.Batch, outputDir, archivedDir string, log logger.Logger) *Runner {
	return &Runner{
		batch:       batch,
		outputDir:   outputDir,
		archivedDir: archivedDir,
		logger:      log,
	}
}

// Handle runs the job at path. Batch failures are recorded in the result
// file; only I/O failures on the result or archive are returned. A job that
// no longer exists was already handled and archived, so it is left alone.
func (r *Runner) Handle(ctx context.Context, path string) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	ctx = logger.WithFields(ctx, logrus.Fields{"job": name})

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		r.logger.Debug(ctx, "Job %s is gone, skipping", path)
		return nil
	}

	res := r.run(ctx, name, path)

	if err := r.writeResult(name, res); err != nil {
		return err
	}
	if err := r.archive(path); err != nil {
		return err
	}
	r.logger.Info(ctx, "Job %s finished: %s", name, res.Status)
	return nil
}

func (r *Runner) run(ctx context.Context, name, path string) Result {
	res := Result{Job: name}

	req, err := parseJob(path)
	if err != nil {
		r.logger.Error(ctx, "Invalid job %s: %v", path, err)
		res.Status, res.Error = StatusInvalidJob, err.Error()
		res.FinishedAt = time.Now().UTC()
		return res
	}

	result, err := r.batch.Run(ctx, req)
	switch {
	case errors.Is(err, pipeline.ErrNothingProcessed):
		res.Status, res.Error = StatusNotFound, "No videos processed."
	case err != nil:
		r.logger.Error(ctx, "Job %s failed: %v", name, err)
		res.Status, res.Error = StatusFailed, err.Error()
	default:
		resp := models.NewBatchResponse(result)
		res.Status, res.Response = StatusOK, &resp
	}
	res.FinishedAt = time.Now().UTC()
	return res
}

func parseJob(path string) (pipeline.Request, error) {
	var req pipeline.Request
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read job: %w", err)
	}
	if err := yaml.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("parse job: %w", err)
	}
	if len(pipeline.NormalizeReferences(req.Own)) == 0 && strings.TrimSpace(req.Reference) == "" {
		return req, fmt.Errorf("job lists no references")
	}
	return req, nil
}

func (r *Runner) writeResult(name string, res Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	out := filepath.Join(r.outputDir, name+resultFileSuffix)
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("write result %s: %w", out, err)
	}
	return nil
}

func (r *Runner) archive(path string) error {
	dest := filepath.Join(r.archivedDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("archive job: %w", err)
	}
	return nil
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/reel-remix/internal/logger"
	"github.com/nguyentantai21042004/reel-remix/internal/metrics"
	"github.com/nguyentantai21042004/reel-remix/internal/models"
	"github.com/sirupsen/logrus"
)

// Stage is a state of the item state machine.
type Stage string

const (
	StageFetching     Stage = "fetching"
	StageExtracting   Stage = "extracting"
	StageProbing      Stage = "probing"
	StageTranscribing Stage = "transcribing"
	StageAnalyzing    Stage = "analyzing"
	StageDone         Stage = "done"
	StageSkipped      Stage = "skipped"
	StageFailed       Stage = "failed"
)

// ErrNoVideoURL marks an item that was skipped because nothing can be downloaded.
var ErrNoVideoURL = errors.New("item has no video URL")

// ItemOutcome is the terminal state of one item. Result is nil when the
// item was skipped or its fetch failed. Err holds the first failure, fatal
// or not.
type ItemOutcome struct {
	BaseID      string
	State       Stage
	FailedStage Stage
	Result      *models.ItemResult
	Err         error
}

// Processed reports whether the item contributes to the batch.
func (o ItemOutcome) Processed() bool {
	return o.Result != nil
}

func (p *implItemPipeline) Run(ctx context.Context, item models.VideoItem, skipAnalysis bool) ItemOutcome {
	baseID := newBaseID(p.now())
	ctx = logger.WithFields(ctx, logrus.Fields{"item": baseID})

	url := item.MediaURL()
	if url == "" {
		p.logger.Warn(ctx, "Skipping %s: no video URL", item.Reference)
		return ItemOutcome{BaseID: baseID, State: StageSkipped, Err: ErrNoVideoURL}
	}

	// Fetching
	start := time.Now()
	video, err := p.fetch(logger.WithFields(ctx, logrus.Fields{"stage": StageFetching}), baseID, url)
	metrics.ObserveStage(string(StageFetching), start)
	if err != nil {
		p.logger.Error(ctx, "Failed to fetch video content for %s: %v", url, err)
		return failed(baseID, StageFetching, nil, err)
	}

	result := &models.ItemResult{
		BaseID:    baseID,
		Reference: item.Reference,
		Artifacts: []models.MediaArtifact{video},
	}

	// Extracting
	start = time.Now()
	audio, err := p.extract(logger.WithFields(ctx, logrus.Fields{"stage": StageExtracting}), baseID, video)
	metrics.ObserveStage(string(StageExtracting), start)
	if err != nil {
		p.logger.Error(ctx, "Error extracting audio: %v", err)
		return failed(baseID, StageExtracting, result, err)
	}
	result.Artifacts = append(result.Artifacts, audio)

	outcome := ItemOutcome{BaseID: baseID, State: StageDone, Result: result}

	// Probing
	sctx := logger.WithFields(ctx, logrus.Fields{"stage": StageProbing})
	start = time.Now()
	total, err := p.deps.Transcoder.ProbeDuration(sctx, audio.StoragePath)
	metrics.ObserveStage(string(StageProbing), start)
	if err != nil {
		p.logger.Error(sctx, "Probe failed, item has no transcript: %v", err)
		outcome.Err = fmt.Errorf("probe duration: %w", err)
		return outcome
	}
	p.logger.Info(sctx, "Audio duration: %s", total)

	// Transcribing
	sctx = logger.WithFields(ctx, logrus.Fields{"stage": StageTranscribing})
	start = time.Now()
	transcript, err := p.deps.Assembler.AssembleDuration(sctx, audio, baseID, total)
	metrics.ObserveStage(string(StageTranscribing), start)
	if err != nil {
		p.logger.Error(sctx, "Transcription failed, item has no transcript: %v", err)
		outcome.Err = fmt.Errorf("transcribe: %w", err)
		return outcome
	}
	result.Transcript = transcript
	if transcript.Artifact != nil {
		result.Artifacts = append(result.Artifacts, *transcript.Artifact)
	}

	if skipAnalysis || !transcript.HasText() {
		return outcome
	}

	// Analyzing
	sctx = logger.WithFields(ctx, logrus.Fields{"stage": StageAnalyzing})
	start = time.Now()
	analysis, artifact, err := p.analyze(sctx, baseID, transcript.Text)
	metrics.ObserveStage(string(StageAnalyzing), start)
	if err != nil {
		p.logger.Error(sctx, "Error during analysis: %v", err)
		outcome.Err = fmt.Errorf("analyze: %w", err)
		return outcome
	}
	result.Analysis = &analysis
	if artifact != nil {
		result.Artifacts = append(result.Artifacts, *artifact)
	}

	return outcome
}

func (p *implItemPipeline) fetch(ctx context.Context, baseID, url string) (models.MediaArtifact, error) {
	video := p.deps.Store.New(models.KindVideo, baseID+".mp4")
	p.logger.Info(ctx, "Downloading %s to %s...", baseID+".mp4", video.StoragePath)

	body, err := p.deps.Fetcher.Fetch(ctx, url)
	if err != nil {
		return video, err
	}
	defer body.Close()

	saved, err := p.deps.Store.Write(ctx, video, body)
	if err != nil {
		return video, fmt.Errorf("save video: %w", err)
	}
	p.logger.Info(ctx, "Saved video: %s", saved.StoragePath)
	return saved, nil
}

func (p *implItemPipeline) extract(ctx context.Context, baseID string, video models.MediaArtifact) (models.MediaArtifact, error) {
	audio := p.deps.Store.New(models.KindAudio, baseID+"."+p.deps.AudioFormat)

	if err := p.deps.Transcoder.ExtractAudio(ctx, video.StoragePath, audio.StoragePath); err != nil {
		p.removePartial(ctx, audio)
		return audio, err
	}
	saved, err := p.deps.Store.Commit(ctx, audio)
	if err != nil {
		p.removePartial(ctx, audio)
		return audio, fmt.Errorf("commit audio: %w", err)
	}
	return saved, nil
}

func (p *implItemPipeline) analyze(ctx context.Context, baseID, transcript string) (string, *models.MediaArtifact, error) {
	analysis, err := p.deps.Analyzer.Analyze(ctx, transcript)
	if err != nil {
		return "", nil, err
	}

	artifact := p.deps.Store.New(models.KindAnalysis, baseID+"_analysis.txt")
	saved, err := p.deps.Store.Write(ctx, artifact, strings.NewReader(analysis))
	if err != nil {
		p.logger.Warn(ctx, "Failed to save analysis %s: %v", artifact.StoragePath, err)
		return analysis, nil, nil
	}
	p.logger.Info(ctx, "Analysis saved: %s", saved.StoragePath)
	return analysis, &saved, nil
}

func (p *implItemPipeline) removePartial(ctx context.Context, a models.MediaArtifact) {
	if err := p.deps.Store.Remove(context.WithoutCancel(ctx), a); err != nil {
		p.logger.Warn(ctx, "Failed to remove partial %s: %v", a.StoragePath, err)
	}
}

func failed(baseID string, stage Stage, result *models.ItemResult, err error) ItemOutcome {
	return ItemOutcome{
		BaseID:      baseID,
		State:       StageFailed,
		FailedStage: stage,
		Result:      result,
		Err:         fmt.Errorf("%s: %w", stage, err),
	}
}

// newBaseID names every artifact of one item. The random suffix keeps
// concurrent items apart even within the same second.
func newBaseID(now time.Time) string {
	return fmt.Sprintf("reel_%s_%s", now.UTC().Format("20060102T150405"), uuid.NewString()[:8])
}

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/reel-remix/internal/logger"
	"github.com/nguyentantai21042004/reel-remix/internal/metrics"
	"github.com/nguyentantai21042004/reel-remix/internal/models"
	"github.com/nguyentantai21042004/reel-remix/internal/report"
	"github.com/nguyentantai21042004/reel-remix/internal/stylist"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	roleOwn       = "own"
	roleReference = "reference"
)

func (b *implBatch) Run(ctx context.Context, req Request) (*models.BatchResult, error) {
	batchID := uuid.NewString()
	ctx = logger.WithFields(ctx, logrus.Fields{"batch": batchID})

	own := NormalizeReferences(req.Own)
	ref := strings.TrimSpace(req.Reference)
	b.logger.Info(ctx, "Processing %d URL(s) and %d reference URL(s)", len(own), boolToInt(ref != ""))

	ownItems, refItem, err := b.resolve(ctx, own, ref)
	if err != nil {
		return nil, err
	}

	ownOutcomes := make([]ItemOutcome, len(ownItems))
	var refOutcome ItemOutcome

	var g errgroup.Group
	g.SetLimit(b.deps.MaxConcurrent)
	for i, item := range ownItems {
		g.Go(func() error {
			ownOutcomes[i] = b.runItem(ctx, roleOwn, item, false)
			return nil
		})
	}
	if refItem != nil {
		g.Go(func() error {
			refOutcome = b.runItem(ctx, roleReference, *refItem, true)
			return nil
		})
	}
	g.Wait()

	result := &models.BatchResult{ID: batchID}
	for _, o := range ownOutcomes {
		if o.Processed() {
			result.OwnResults = append(result.OwnResults, *o.Result)
		}
	}
	result.ReferenceResult = refOutcome.Result

	if len(result.OwnResults) == 0 && result.ReferenceResult == nil {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("batch %s: %w", batchID, err)
		}
		b.logger.Warn(ctx, "No videos processed")
		return nil, ErrNothingProcessed
	}

	if profiles, reference, ok := remixInputs(result.OwnResults, result.ReferenceResult); ok {
		b.synthesize(ctx, result, profiles, reference)
	}

	if b.deps.Recorder != nil {
		if err := b.deps.Recorder.Record(ctx, result); err != nil {
			b.logger.Warn(ctx, "Failed to record batch history: %v", err)
		}
	}

	b.logger.Info(ctx, "Processed %d main reels and %d viral reel", len(result.OwnResults), boolToInt(result.ReferenceResult != nil))
	return result, nil
}

// resolve maps own references and the reference link to video items. Only
// the first item resolved for the reference link is used.
func (b *implBatch) resolve(ctx context.Context, own []string, ref string) ([]models.VideoItem, *models.VideoItem, error) {
	var ownItems []models.VideoItem
	if len(own) > 0 {
		items, err := b.deps.Resolver.Resolve(ctx, own)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve own references: %w", err)
		}
		ownItems = items
	}

	if ref == "" {
		return ownItems, nil, nil
	}
	items, err := b.deps.Resolver.Resolve(ctx, []string{ref})
	if err != nil {
		return nil, nil, fmt.Errorf("resolve reference: %w", err)
	}
	if len(items) == 0 {
		b.logger.Warn(ctx, "Reference %s resolved to no items", ref)
		return ownItems, nil, nil
	}
	return ownItems, &items[0], nil
}

func (b *implBatch) runItem(ctx context.Context, role string, item models.VideoItem, skipAnalysis bool) ItemOutcome {
	ctx = logger.WithFields(ctx, logrus.Fields{"role": role})
	outcome := b.deps.Items.Run(ctx, item, skipAnalysis)

	label := string(outcome.State)
	if outcome.State == StageFailed {
		label = "failed_" + string(outcome.FailedStage)
	}
	metrics.ItemsProcessed.WithLabelValues(role, label).Inc()
	return outcome
}

func (b *implBatch) synthesize(ctx context.Context, result *models.BatchResult, profiles []string, reference string) {
	script, err := b.deps.Synthesizer.Synthesize(ctx, profiles, reference)
	if err != nil {
		metrics.Synthesis.WithLabelValues("failed").Inc()
		b.logger.Error(ctx, "Error generating new content: %v", err)
		return
	}
	result.SynthesizedScript = &script

	if stylist.IsSoftFailure(script) {
		metrics.Synthesis.WithLabelValues("soft_failure").Inc()
		return
	}
	metrics.Synthesis.WithLabelValues("ok").Inc()
	result.ScriptArtifacts = b.saveScript(ctx, result.ID, script)
}

// saveScript writes the script as markdown and docx. Failures only cost
// the download links; the script text is already in the result.
func (b *implBatch) saveScript(ctx context.Context, batchID, script string) []models.MediaArtifact {
	title := "Remix script " + batchID
	var saved []models.MediaArtifact

	md := b.deps.Store.New(models.KindScript, batchID+".md")
	if a, err := b.deps.Store.Write(ctx, md, strings.NewReader(report.Markdown(title, script, b.now()))); err != nil {
		b.logger.Warn(ctx, "Failed to save script %s: %v", md.StoragePath, err)
	} else {
		saved = append(saved, a)
	}

	doc := b.deps.Store.New(models.KindScript, batchID+".docx")
	if err := report.WriteDocx(title, script, doc.StoragePath); err != nil {
		b.logger.Warn(ctx, "Failed to render %s: %v", doc.StoragePath, err)
		return saved
	}
	if a, err := b.deps.Store.Commit(ctx, doc); err != nil {
		b.logger.Warn(ctx, "Failed to save script %s: %v", doc.StoragePath, err)
	} else {
		saved = append(saved, a)
	}
	return saved
}

// remixInputs decides whether a batch gets a synthesized script. It needs
// at least one own analysis and a reference transcript with text.
func remixInputs(own []models.ItemResult, ref *models.ItemResult) ([]string, string, bool) {
	if ref == nil || !ref.Transcript.HasText() {
		return nil, "", false
	}
	var profiles []string
	for i := range own {
		if own[i].HasAnalysis() {
			profiles = append(profiles, *own[i].Analysis)
		}
	}
	if len(profiles) == 0 {
		return nil, "", false
	}
	return profiles, ref.Transcript.Text, true
}

// NormalizeReferences trims references, drops blanks and removes
// duplicates, keeping first-seen order.
func NormalizeReferences(refs []string) []string {
	seen := make(map[string]bool, len(refs))
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		r = strings.TrimSpace(r)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

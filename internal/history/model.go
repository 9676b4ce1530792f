package history

import (
	"strings"
	"time"

	"github.com/nguyentantai21042004/reel-remix/internal/models"
	"github.com/nguyentantai21042004/reel-remix/internal/stylist"
)

// Script states stored in BatchRun.ScriptStatus.
const (
	ScriptNone        = "none"
	ScriptGenerated   = "generated"
	ScriptSoftFailure = "soft_failure"
)

// BatchRun is the stored summary of one batch.
type BatchRun struct {
	ID               string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	CreatedAt        time.Time `gorm:"index" json:"createdAt"`
	OwnReferences    string    `gorm:"type:text" json:"ownReferences"`
	Reference        string    `gorm:"type:text" json:"reference"`
	OwnProcessed     int       `json:"ownProcessed"`
	OwnAnalysed      int       `json:"ownAnalysed"`
	FailedWindows    int       `json:"failedWindows"`
	ReferenceHasText bool      `json:"referenceHasText"`
	ScriptStatus     string    `gorm:"type:varchar(32);not null;default:'none'" json:"scriptStatus"`
	ScriptPath       string    `gorm:"type:text" json:"scriptPath"`
}

func (BatchRun) TableName() string {
	return "batch_runs"
}

func newBatchRun(r *models.BatchResult) BatchRun {
	run := BatchRun{
		ID:           r.ID,
		OwnProcessed: len(r.OwnResults),
		ScriptStatus: ScriptNone,
	}

	refs := make([]string, 0, len(r.OwnResults))
	for i := range r.OwnResults {
		item := &r.OwnResults[i]
		refs = append(refs, item.Reference)
		if item.HasAnalysis() {
			run.OwnAnalysed++
		}
		if item.Transcript != nil {
			run.FailedWindows += len(item.Transcript.FailedWindows)
		}
	}
	run.OwnReferences = strings.Join(refs, "\n")

	if ref := r.ReferenceResult; ref != nil {
		run.Reference = ref.Reference
		run.ReferenceHasText = ref.Transcript.HasText()
		if ref.Transcript != nil {
			run.FailedWindows += len(ref.Transcript.FailedWindows)
		}
	}

	if s := r.SynthesizedScript; s != nil {
		run.ScriptStatus = ScriptGenerated
		if stylist.IsSoftFailure(*s) {
			run.ScriptStatus = ScriptSoftFailure
		}
	}
	for _, a := range r.ScriptArtifacts {
		if strings.HasSuffix(a.PublicPath, ".md") {
			run.ScriptPath = a.PublicPath
		}
	}
	return run
}

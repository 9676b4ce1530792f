package models

import (
	"fmt"
	"path"
)

// ItemResponse is the per-item shape the web UI reads.
type ItemResponse struct {
	ID             string      `json:"id"`
	Reference      string      `json:"reference,omitempty"`
	Filename       string      `json:"filename"`
	VideoPath      string      `json:"videoPath"`
	AudioPath      string      `json:"audioPath,omitempty"`
	Status         string      `json:"status"`
	TranscriptPath string      `json:"transcriptPath,omitempty"`
	Transcript     string      `json:"transcript,omitempty"`
	FailedWindows  []WindowDTO `json:"failedWindows,omitempty"`
	AnalysisPath   string      `json:"analysisPath,omitempty"`
	Analysis       string      `json:"analysis,omitempty"`
}

// WindowDTO is a time window in seconds.
type WindowDTO struct {
	Start  float64 `json:"start"`
	Length float64 `json:"length"`
}

// BatchResponse is the body returned for a processed batch.
type BatchResponse struct {
	Success          bool           `json:"success"`
	Message          string         `json:"message"`
	BatchID          string         `json:"batchId"`
	Results          []ItemResponse `json:"results"`
	ViralResult      *ItemResponse  `json:"viralResult"`
	GeneratedContent *string        `json:"generatedContent"`
	ScriptPath       string         `json:"scriptPath,omitempty"`
}

// NewItemResponse flattens an ItemResult for the UI.
func NewItemResponse(r ItemResult) ItemResponse {
	resp := ItemResponse{
		ID:        r.BaseID,
		Reference: r.Reference,
		Status:    "saved",
	}

	if v, ok := r.Artifact(KindVideo); ok {
		resp.Filename = path.Base(v.PublicPath)
		resp.VideoPath = v.PublicPath
	}
	if a, ok := r.Artifact(KindAudio); ok {
		resp.AudioPath = a.PublicPath
	}
	if r.Transcript != nil {
		resp.Transcript = r.Transcript.Text
		if r.Transcript.Artifact != nil {
			resp.TranscriptPath = r.Transcript.Artifact.PublicPath
		}
		for _, w := range r.Transcript.FailedWindows {
			resp.FailedWindows = append(resp.FailedWindows, WindowDTO{
				Start:  w.Start.Seconds(),
				Length: w.Length.Seconds(),
			})
		}
	}
	if a, ok := r.Artifact(KindAnalysis); ok {
		resp.AnalysisPath = a.PublicPath
	}
	if r.Analysis != nil {
		resp.Analysis = *r.Analysis
	}

	return resp
}

// NewBatchResponse converts a BatchResult into the UI response.
func NewBatchResponse(r *BatchResult) BatchResponse {
	resp := BatchResponse{
		Success:          true,
		BatchID:          r.ID,
		Results:          make([]ItemResponse, 0, len(r.OwnResults)),
		GeneratedContent: r.SynthesizedScript,
	}

	for _, item := range r.OwnResults {
		resp.Results = append(resp.Results, NewItemResponse(item))
	}

	viral := 0
	if r.ReferenceResult != nil {
		v := NewItemResponse(*r.ReferenceResult)
		resp.ViralResult = &v
		viral = 1
	}

	for _, a := range r.ScriptArtifacts {
		if path.Ext(a.PublicPath) == ".md" {
			resp.ScriptPath = a.PublicPath
		}
	}

	resp.Message = fmt.Sprintf("Processed %d main reels and %d viral reel.", len(r.OwnResults), viral)
	return resp
}

package handler

import (
	"time"

	"luminary/internal/scan/models"
)

// mentionPreview is how many ranked mentions a poll response carries
// unless the caller asks for the full list.
const mentionPreview = 25

// runResponse is the wire shape for a scan run.
type runResponse struct {
	RunID     string          `json:"run_id"`
	TargetID  string          `json:"target_id"`
	Status    string          `json:"status"`
	Progress  int             `json:"progress"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Result    *payloadResponse `json:"result,omitempty"`
}

type payloadResponse struct {
	models.Payload
	MentionsTruncated bool `json:"mentions_truncated"`
}

func fromRun(run *models.ScanRun, full bool) runResponse {
	resp := runResponse{
		RunID:     run.ID.String(),
		TargetID:  run.TargetID.String(),
		Status:    string(run.Status),
		Progress:  run.Progress,
		Error:     run.Error,
		CreatedAt: run.CreatedAt,
		UpdatedAt: run.UpdatedAt,
	}
	if run.Payload == nil {
		return resp
	}

	p := payloadResponse{Payload: *run.Payload}
	if !full && len(p.Mentions) > mentionPreview {
		p.Mentions = p.Mentions[:mentionPreview]
		p.MentionsTruncated = true
	}
	resp.Result = &p
	return resp
}

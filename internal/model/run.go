package model

import "time"

// RunStatus tracks the lifecycle of a stored extraction run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one persisted extraction: the document it was run against and,
// once finished, the full result payload.
type Run struct {
	ID        string            `json:"id"`
	Document  string            `json:"document"`
	Status    RunStatus         `json:"status"`
	Result    *ExtractionResult `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

package types

import (
	"fmt"
	"time"
)

// BatchStatus is the lifecycle state of the upload batch.
type BatchStatus string

const (
	BatchIdle    BatchStatus = "idle"
	BatchRunning BatchStatus = "running"
	// BatchCancelled is only ever used as an instruction; a cancelled batch is idle.
	BatchCancelled BatchStatus = "cancelled"
)

func (s BatchStatus) String() string { return string(s) }

func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchIdle, BatchRunning, BatchCancelled:
		return true
	}
	return false
}

// UnmarshalText rejects unknown states when a snapshot is decoded.
func (s *BatchStatus) UnmarshalText(text []byte) error {
	status := BatchStatus(text)
	if !status.IsValid() {
		return fmt.Errorf("unknown batch status %q", text)
	}
	*s = status
	return nil
}

// ProgressState maps entry id to a completion percentage in [0,100].
type ProgressState map[string]int

// BatchSnapshot is a point-in-time copy of the controller state.
type BatchSnapshot struct {
	Status   BatchStatus       `json:"status"`
	BatchID  string            `json:"batchId,omitempty"`
	Entries  []FileEntry       `json:"entries"`
	Progress ProgressState     `json:"progress,omitempty"`
	Failed   map[string]string `json:"failed,omitempty"`
}

// BatchResult is delivered to the result reporter once a batch completes.
type BatchResult struct {
	BatchID    string        `json:"batchId"`
	Files      []FileHandle  `json:"files"`
	Failed     []FailedEntry `json:"failed,omitempty"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
}

// TotalSize sums the sizes of the completed files.
func (r BatchResult) TotalSize() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Size
	}
	return total
}

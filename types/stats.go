package types

import "time"

// RecentUpload is one row of the recent uploads table.
type RecentUpload struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// UploadStats aggregates every reported batch since start-up.
type UploadStats struct {
	TotalFiles    int            `json:"totalFiles"`
	TotalSize     int64          `json:"totalSize"`
	TotalSizeStr  string         `json:"totalSizeStr"`
	Batches       int            `json:"batches"`
	RecentUploads []RecentUpload `json:"recentUploads"`
}

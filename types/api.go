package types

// AddFilesRequest is the body of POST /files. Paths are read from disk,
// Files are taken as-is.
type AddFilesRequest struct {
	Paths []string     `json:"paths,omitempty"`
	Files []FileHandle `json:"files,omitempty"`
}

// AddFilesResponse lists the entries created for the request.
type AddFilesResponse struct {
	Entries []FileEntry `json:"entries"`
}

// StartBatchResponse is returned by POST /start.
type StartBatchResponse struct {
	BatchID string `json:"batchId"`
}

// EntryView decorates a FileEntry for display.
type EntryView struct {
	FileEntry
	SizeStr  string `json:"sizeStr"`
	Kind     string `json:"kind"`
	Progress int    `json:"progress"`
	Failed   string `json:"failed,omitempty"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	Status  BatchStatus `json:"status"`
	BatchID string      `json:"batchId,omitempty"`
	Entries []EntryView `json:"entries"`
}

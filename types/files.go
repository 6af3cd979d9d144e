package types

// FileHandle is the original payload handed over by an intake collaborator.
// Only Name, Size and MimeType are inspected; Path is carried through untouched.
type FileHandle struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
	Path     string `json:"path,omitempty"` // local path, empty for in-memory handles
}

// FileEntry is one pending file in the selection set.
type FileEntry struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Size     int64      `json:"size"`
	MimeType string     `json:"mimeType"`
	File     FileHandle `json:"-"`
}

// FailedEntry records an entry whose transfer reported a failure.
type FailedEntry struct {
	Entry  FileEntry `json:"entry"`
	Reason string    `json:"reason"`
}

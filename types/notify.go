package types

const (
	NotifyTypeBatchStart     = "batch_start"
	NotifyTypeBatchProgress  = "batch_progress"
	NotifyTypeEntryFailed    = "entry_failed"
	NotifyTypeBatchEnd       = "batch_end"
	NotifyTypeBatchCancelled = "batch_cancelled"
	NotifyTypeEmptyBatch     = "empty_batch"
	NotifyTypeInfo           = "info"
	NotifyTypeSuccess        = "success"
)

// Notification represents a notification message structure
type Notification struct {
	Type    string         `json:"type,omitempty"`    // Notification type, e.g. "batch_start", "batch_end", etc.
	Title   string         `json:"title,omitempty"`   // Notification title
	Message string         `json:"message,omitempty"` // Notification message/content
	Data    map[string]any `json:"data,omitempty"`    // Additional data fields
}

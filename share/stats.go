package share

import (
	"fmt"
	"slices"
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/charmbracelet/log"

	"github.com/moyoez/dropvault-go/tool"
	"github.com/moyoez/dropvault-go/transfer"
	"github.com/moyoez/dropvault-go/types"
)

const (
	DefaultResultTTL   = 3600 * time.Second // completed batches stay queryable for one hour
	DefaultRecentLimit = 5
)

type StatsOptions struct {
	RecentLimit int
	ResultTTL   time.Duration
	Notifier    transfer.Notifier
	Logger      *log.Logger
}

// Stats is the result reporter behind the dashboard: running totals, the most
// recent uploads and a short-lived cache of completed batches.
type Stats struct {
	recentLimit int
	notifier    transfer.Notifier
	logger      *log.Logger
	results     *ttlworker.Cache[string, types.BatchResult]

	mu         sync.RWMutex
	totalFiles int
	totalSize  int64
	batches    int
	recent     []types.RecentUpload
	batchIDs   []string
}

var _ transfer.Reporter = (*Stats)(nil)

func NewStats(opts StatsOptions) *Stats {
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	if opts.ResultTTL <= 0 {
		opts.ResultTTL = DefaultResultTTL
	}
	if opts.Notifier == nil {
		opts.Notifier = transfer.NotifierFunc(func(*types.Notification) {})
	}
	if opts.Logger == nil {
		opts.Logger = tool.DefaultLogger
	}
	return &Stats{
		recentLimit: opts.RecentLimit,
		notifier:    opts.Notifier,
		logger:      opts.Logger,
		results:     ttlworker.NewCache[string, types.BatchResult](opts.ResultTTL),
	}
}

// Report records a completed batch. New uploads go in front of the recent
// list in batch order; the list keeps at most RecentLimit rows.
func (s *Stats) Report(result types.BatchResult) {
	uploadedAt := result.FinishedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now()
	}
	fresh := make([]types.RecentUpload, 0, len(result.Files))
	for _, f := range result.Files {
		fresh = append(fresh, types.RecentUpload{
			ID:         tool.GenerateRandomUUID(),
			Name:       f.Name,
			Size:       f.Size,
			Type:       f.MimeType,
			UploadedAt: uploadedAt,
		})
	}

	s.mu.Lock()
	s.totalFiles += len(result.Files)
	s.totalSize += result.TotalSize()
	s.batches++
	s.recent = append(fresh, s.recent...)
	if len(s.recent) > s.recentLimit {
		s.recent = s.recent[:s.recentLimit]
	}
	if result.BatchID != "" {
		s.batchIDs = append(s.batchIDs, result.BatchID)
	}
	s.mu.Unlock()

	if result.BatchID != "" {
		s.results.Set(result.BatchID, result)
	}
	s.logger.Infof("[Stats] Batch %s recorded: %d files, %s", result.BatchID, len(result.Files), tool.FormatBytes(result.TotalSize(), 2))

	if n := len(result.Files); n > 0 {
		s.notifier.Notify(&types.Notification{
			Type:    types.NotifyTypeSuccess,
			Title:   "Upload Successful",
			Message: SuccessMessage(n),
			Data: map[string]any{
				"batchId":    result.BatchID,
				"totalFiles": n,
				"totalSize":  result.TotalSize(),
			},
		})
	}
}

// SuccessMessage is the toast shown after a batch, e.g. "3 files uploaded successfully!".
func SuccessMessage(n int) string {
	if n == 1 {
		return "1 file uploaded successfully!"
	}
	return fmt.Sprintf("%d files uploaded successfully!", n)
}

func (s *Stats) Snapshot() types.UploadStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.UploadStats{
		TotalFiles:    s.totalFiles,
		TotalSize:     s.totalSize,
		TotalSizeStr:  tool.FormatBytes(s.totalSize, 2),
		Batches:       s.batches,
		RecentUploads: slices.Clone(s.recent),
	}
}

// Result returns a cached batch result. Results expire after the TTL.
func (s *Stats) Result(batchID string) (types.BatchResult, bool) {
	result := s.results.Get(batchID)
	return result, result.BatchID != ""
}

// ListResults returns the ids of batches whose results are still cached,
// oldest first.
func (s *Stats) ListResults() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	live := s.batchIDs[:0]
	for _, id := range s.batchIDs {
		if _, ok := s.Result(id); ok {
			live = append(live, id)
		}
	}
	s.batchIDs = live
	return slices.Clone(live)
}

package share

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/dropvault-go/transfer"
	"github.com/moyoez/dropvault-go/types"
)

func batch(id string, files ...types.FileHandle) types.BatchResult {
	return types.BatchResult{BatchID: id, Files: files, FinishedAt: time.Now()}
}

func TestStatsReportAggregates(t *testing.T) {
	var sent []types.Notification
	s := NewStats(StatsOptions{Notifier: transfer.NotifierFunc(func(n *types.Notification) {
		sent = append(sent, *n)
	})})

	s.Report(batch("b1",
		types.FileHandle{Name: "a.txt", Size: 1000, MimeType: "text/plain"},
		types.FileHandle{Name: "b.png", Size: 2_000_000, MimeType: "image/png"},
	))
	s.Report(batch("b2", types.FileHandle{Name: "c.zip", Size: 5_000_000_000, MimeType: "application/zip"}))

	snap := s.Snapshot()
	assert.Equal(t, 3, snap.TotalFiles)
	assert.Equal(t, int64(5_002_001_000), snap.TotalSize)
	assert.Equal(t, "4.66 GB", snap.TotalSizeStr)
	assert.Equal(t, 2, snap.Batches)
	require.Len(t, snap.RecentUploads, 3)
	assert.Equal(t, []string{"c.zip", "a.txt", "b.png"}, names(snap.RecentUploads))
	assert.NotEmpty(t, snap.RecentUploads[0].ID)
	assert.Equal(t, "application/zip", snap.RecentUploads[0].Type)

	require.Len(t, sent, 2)
	assert.Equal(t, types.NotifyTypeSuccess, sent[0].Type)
	assert.Equal(t, "2 files uploaded successfully!", sent[0].Message)
	assert.Equal(t, "1 file uploaded successfully!", sent[1].Message)
}

func TestStatsRecentLimit(t *testing.T) {
	s := NewStats(StatsOptions{})
	var files []types.FileHandle
	for _, n := range []string{"1", "2", "3", "4"} {
		files = append(files, types.FileHandle{Name: n, Size: 1})
	}
	s.Report(batch("old", files...))
	s.Report(batch("new",
		types.FileHandle{Name: "x", Size: 1},
		types.FileHandle{Name: "y", Size: 1},
	))

	snap := s.Snapshot()
	assert.Equal(t, []string{"x", "y", "1", "2", "3"}, names(snap.RecentUploads))
	assert.Equal(t, 6, snap.TotalFiles)
}

func TestStatsFailedOnlyBatchSendsNoSuccess(t *testing.T) {
	calls := 0
	s := NewStats(StatsOptions{Notifier: transfer.NotifierFunc(func(*types.Notification) { calls++ })})

	s.Report(types.BatchResult{
		BatchID: "b",
		Failed:  []types.FailedEntry{{Entry: types.FileEntry{ID: "e"}, Reason: "boom"}},
	})
	assert.Zero(t, calls)
	assert.Equal(t, 1, s.Snapshot().Batches)
	assert.Equal(t, "0 Bytes", s.Snapshot().TotalSizeStr)
}

func TestStatsResultCache(t *testing.T) {
	s := NewStats(StatsOptions{ResultTTL: time.Minute})
	s.Report(batch("cached", types.FileHandle{Name: "a", Size: 1}))

	got, ok := s.Result("cached")
	require.True(t, ok)
	assert.Equal(t, "cached", got.BatchID)
	require.Len(t, got.Files, 1)

	_, ok = s.Result("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"cached"}, s.ListResults())
}

func TestSuccessMessage(t *testing.T) {
	assert.Equal(t, "1 file uploaded successfully!", SuccessMessage(1))
	assert.Equal(t, "0 files uploaded successfully!", SuccessMessage(0))
	assert.Equal(t, "12 files uploaded successfully!", SuccessMessage(12))
}

func TestServerURLsIncludesLoopback(t *testing.T) {
	urls := ServerURLs(53318)
	require.NotEmpty(t, urls)
	assert.Equal(t, "http://127.0.0.1:53318/", urls[len(urls)-1])
}

func names(rows []types.RecentUpload) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

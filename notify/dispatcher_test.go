package notify

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/dropvault-go/types"
)

type recordingBroadcaster struct {
	mu   sync.Mutex
	sent []*types.Notification
}

func (r *recordingBroadcaster) Broadcast(n *types.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingBroadcaster) all() []*types.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*types.Notification(nil), r.sent...)
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	b := &recordingBroadcaster{}
	d := NewDispatcher(DispatcherOptions{Broadcasters: []Broadcaster{b}})

	entries := []types.FileEntry{{ID: "1", Name: "a.txt", Size: 1024}, {ID: "2", Name: "b.txt", Size: 1024}}
	d.BatchStarted("batch", entries)
	d.Progress("batch", "1", 50)
	d.EntryFailed("batch", "2", errors.New("broken pipe"))
	d.BatchFinished(types.BatchResult{BatchID: "batch", Files: []types.FileHandle{{Name: "a.txt", Size: 1024}}})
	d.Close()

	sent := b.all()
	require.Len(t, sent, 4)
	assert.Equal(t, types.NotifyTypeBatchStart, sent[0].Type)
	assert.Equal(t, "Uploading 2 files (2 KB)", sent[0].Message)
	assert.Equal(t, []string{"a.txt", "b.txt"}, sent[0].Data["files"])
	assert.Equal(t, types.NotifyTypeBatchProgress, sent[1].Type)
	assert.Equal(t, 50, sent[1].Data["progress"])
	assert.Equal(t, types.NotifyTypeEntryFailed, sent[2].Type)
	assert.Equal(t, "broken pipe", sent[2].Message)
	assert.Equal(t, types.NotifyTypeBatchEnd, sent[3].Type)
	assert.Equal(t, "1 file uploaded, 0 failed", sent[3].Message)
}

func TestDispatcherThrottlesProgressButKeepsTerminal(t *testing.T) {
	b := &recordingBroadcaster{}
	// one token, refilled far slower than the test runs
	d := NewDispatcher(DispatcherOptions{Broadcasters: []Broadcaster{b}, ProgressRate: 0.001})

	for p := 10; p < 100; p += 10 {
		d.Progress("batch", "1", p)
	}
	d.Progress("batch", "1", 100)
	d.Close()

	sent := b.all()
	require.Len(t, sent, 2)
	assert.Equal(t, 10, sent[0].Data["progress"])
	assert.Equal(t, 100, sent[1].Data["progress"])
}

func TestDispatcherTruncatesFileNames(t *testing.T) {
	b := &recordingBroadcaster{}
	d := NewDispatcher(DispatcherOptions{Broadcasters: []Broadcaster{b}})

	entries := make([]types.FileEntry, MaxNotifyFiles+5)
	for i := range entries {
		entries[i] = types.FileEntry{ID: string(rune('a' + i)), Name: "f"}
	}
	d.BatchStarted("batch", entries)
	d.Close()

	sent := b.all()
	require.Len(t, sent, 1)
	assert.Len(t, sent[0].Data["files"], MaxNotifyFiles)
	assert.Equal(t, MaxNotifyFiles+5, sent[0].Data["totalFiles"])
}

func TestDispatcherIgnoresAfterClose(t *testing.T) {
	b := &recordingBroadcaster{}
	d := NewDispatcher(DispatcherOptions{Broadcasters: []Broadcaster{b}})
	d.Close()
	d.Close()

	d.Notify(&types.Notification{Type: types.NotifyTypeInfo})
	d.Notify(nil)
	assert.Empty(t, b.all())
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	release := make(chan struct{})
	blocking := broadcasterFunc(func(*types.Notification) { <-release })
	b := &recordingBroadcaster{}
	d := NewDispatcher(DispatcherOptions{Broadcasters: []Broadcaster{blocking, b}, QueueSize: 1})

	for range 10 {
		d.Notify(&types.Notification{Type: types.NotifyTypeInfo})
	}
	close(release)
	d.Close()

	// at most one in flight plus one queued
	assert.LessOrEqual(t, len(b.all()), 2)
	assert.NotEmpty(t, b.all())
}

type broadcasterFunc func(*types.Notification)

func (f broadcasterFunc) Broadcast(n *types.Notification) { f(n) }

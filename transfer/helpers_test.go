package transfer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/moyoez/dropvault-go/types"
)

// manualTransferer parks every transfer until the test drives it.
type manualTransferer struct {
	mu      sync.Mutex
	reports map[string]func(int)
	done    map[string]chan error
	started chan string
}

func newManualTransferer() *manualTransferer {
	return &manualTransferer{
		reports: make(map[string]func(int)),
		done:    make(map[string]chan error),
		started: make(chan string, 64),
	}
}

func (m *manualTransferer) Transfer(ctx context.Context, entry types.FileEntry, report func(int)) error {
	ch := make(chan error, 1)
	m.mu.Lock()
	m.reports[entry.ID] = report
	m.done[entry.ID] = ch
	m.mu.Unlock()
	m.started <- entry.ID

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-ch:
		return err
	}
}

func (m *manualTransferer) tick(id string, percent int) {
	m.mu.Lock()
	report := m.reports[id]
	m.mu.Unlock()
	report(percent)
}

func (m *manualTransferer) end(id string, err error) {
	m.mu.Lock()
	ch := m.done[id]
	m.mu.Unlock()
	ch <- err
}

func (m *manualTransferer) waitStarted(t *testing.T, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for len(ids) < n {
		select {
		case id := <-m.started:
			ids = append(ids, id)
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of %d transfers started", len(ids), n)
		}
	}
	return ids
}

type recordingReporter struct {
	mu      sync.Mutex
	results []types.BatchResult
}

func (r *recordingReporter) Report(result types.BatchResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

func (r *recordingReporter) calls() []types.BatchResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.BatchResult(nil), r.results...)
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []types.Notification
}

func (n *recordingNotifier) Notify(notification *types.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, *notification)
}

func (n *recordingNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, s := range n.sent {
		out = append(out, s.Type)
	}
	return out
}

type recordingObserver struct {
	mu        sync.Mutex
	progress  map[string][]int
	failed    map[string]error
	started   int
	finished  int
	cancelled int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{progress: make(map[string][]int), failed: make(map[string]error)}
}

func (o *recordingObserver) BatchStarted(string, []types.FileEntry) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started++
}

func (o *recordingObserver) Progress(_, entryID string, percent int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.progress[entryID] = append(o.progress[entryID], percent)
}

func (o *recordingObserver) EntryFailed(_, entryID string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed[entryID] = err
}

func (o *recordingObserver) BatchFinished(types.BatchResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished++
}

func (o *recordingObserver) BatchCancelled(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancelled++
}

func (o *recordingObserver) ticks(id string) []int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]int(nil), o.progress[id]...)
}

func (o *recordingObserver) counts() (started, finished, cancelled int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.started, o.finished, o.cancelled
}

func handles(sizes ...int64) []types.FileHandle {
	out := make([]types.FileHandle, 0, len(sizes))
	for i, size := range sizes {
		out = append(out, types.FileHandle{
			Name:     string(rune('a'+i)) + ".bin",
			Size:     size,
			MimeType: "application/octet-stream",
		})
	}
	return out
}

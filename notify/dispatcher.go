// Package notify turns batch events into user-facing notifications and
// delivers them to websocket clients and an optional Unix socket listener.
package notify

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/moyoez/dropvault-go/tool"
	"github.com/moyoez/dropvault-go/transfer"
	"github.com/moyoez/dropvault-go/types"
)

// MaxNotifyFiles is the maximum number of file names included in a payload.
const MaxNotifyFiles = 20

// DefaultQueueSize bounds the notifications waiting for delivery.
const DefaultQueueSize = 256

// Broadcaster fans a notification out to connected clients.
type Broadcaster interface {
	Broadcast(notification *types.Notification)
}

type DispatcherOptions struct {
	Broadcasters []Broadcaster
	Socket       *SocketSender // nil disables socket delivery
	// ProgressRate caps batch_progress notifications per second. Zero means
	// unlimited. Terminal ticks are never dropped.
	ProgressRate float64
	QueueSize    int
	Logger       *log.Logger
}

// Dispatcher implements transfer.Notifier and transfer.Observer. Calls only
// enqueue; a single worker goroutine performs delivery, so the controller
// never waits on a slow client.
type Dispatcher struct {
	broadcasters []Broadcaster
	socket       *SocketSender
	limiter      *rate.Limiter
	logger       *log.Logger

	mu     sync.Mutex
	closed bool
	queue  chan *types.Notification
	done   chan struct{}
}

var (
	_ transfer.Notifier = (*Dispatcher)(nil)
	_ transfer.Observer = (*Dispatcher)(nil)
)

// NewDispatcher creates a dispatcher and starts its worker. Call Close to
// flush and stop it.
func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	limit := rate.Inf
	if opts.ProgressRate > 0 {
		limit = rate.Limit(opts.ProgressRate)
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Logger == nil {
		opts.Logger = tool.DefaultLogger
	}
	d := &Dispatcher{
		broadcasters: opts.Broadcasters,
		socket:       opts.Socket,
		limiter:      rate.NewLimiter(limit, 1),
		logger:       opts.Logger,
		queue:        make(chan *types.Notification, opts.QueueSize),
		done:         make(chan struct{}),
	}
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for n := range d.queue {
		d.deliver(n)
	}
}

func (d *Dispatcher) deliver(n *types.Notification) {
	for _, b := range d.broadcasters {
		b.Broadcast(n)
	}
	if d.socket != nil {
		if err := d.socket.Send(n); err != nil {
			d.logger.Warnf("[Notify] Socket delivery of %s failed: %v", n.Type, err)
		}
	}
}

// Notify queues a notification. It never blocks; when the queue is full the
// notification is dropped.
func (d *Dispatcher) Notify(notification *types.Notification) {
	if notification == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	select {
	case d.queue <- notification:
	default:
		d.logger.Warnf("[Notify] Queue full, dropped %s", notification.Type)
	}
}

// Close stops accepting notifications and waits until the queued ones are
// delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}

func (d *Dispatcher) BatchStarted(batchID string, entries []types.FileEntry) {
	names := make([]string, 0, min(len(entries), MaxNotifyFiles))
	var total int64
	for i, e := range entries {
		total += e.Size
		if i < MaxNotifyFiles {
			names = append(names, e.Name)
		}
	}
	d.Notify(&types.Notification{
		Type:    types.NotifyTypeBatchStart,
		Title:   "Upload Started",
		Message: fmt.Sprintf("Uploading %s (%s)", pluralFiles(len(entries)), tool.FormatBytes(total, 2)),
		Data: map[string]any{
			"batchId":    batchID,
			"files":      names,
			"totalFiles": len(entries),
			"totalSize":  total,
		},
	})
}

func (d *Dispatcher) Progress(batchID, entryID string, percent int) {
	if percent < transfer.Complete && !d.limiter.Allow() {
		return
	}
	d.Notify(&types.Notification{
		Type: types.NotifyTypeBatchProgress,
		Data: map[string]any{
			"batchId":  batchID,
			"entryId":  entryID,
			"progress": percent,
		},
	})
}

func (d *Dispatcher) EntryFailed(batchID, entryID string, err error) {
	d.Notify(&types.Notification{
		Type:    types.NotifyTypeEntryFailed,
		Title:   "Upload Failed",
		Message: err.Error(),
		Data: map[string]any{
			"batchId": batchID,
			"entryId": entryID,
		},
	})
}

func (d *Dispatcher) BatchFinished(result types.BatchResult) {
	d.Notify(&types.Notification{
		Type:    types.NotifyTypeBatchEnd,
		Title:   "Upload Completed",
		Message: fmt.Sprintf("%s uploaded, %d failed", pluralFiles(len(result.Files)), len(result.Failed)),
		Data: map[string]any{
			"batchId":     result.BatchID,
			"totalFiles":  len(result.Files),
			"failedFiles": len(result.Failed),
			"totalSize":   result.TotalSize(),
		},
	})
}

// BatchCancelled is a no-op: the controller sends the cancellation
// notification itself.
func (d *Dispatcher) BatchCancelled(string) {}

func pluralFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}

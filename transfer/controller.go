// Package transfer runs upload batches: it turns the selected files into
// staggered, cancellable transfer tasks and reports the batch once every
// task has finished.
package transfer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/moyoez/dropvault-go/tool"
	"github.com/moyoez/dropvault-go/types"
)

const (
	DefaultStagger = 300 * time.Millisecond
	DefaultSettle  = 500 * time.Millisecond

	// NoDelay turns off the stagger or the settle delay.
	NoDelay time.Duration = -1
)

// Options configures a Controller. A zero Stagger or Settle takes the
// default; a negative one disables the delay.
type Options struct {
	Transferer Transferer // defaults to a Simulator with DefaultTiming
	Reporter   Reporter
	Notifier   Notifier
	Observers  []Observer

	Stagger time.Duration // delay between the starts of consecutive entries
	Settle  time.Duration // grace period between the last 100 and reporting

	// KeepSelectionOnCancel keeps the selected files after Cancel so the
	// batch can be restarted without selecting them again.
	KeepSelectionOnCancel bool

	Logger *log.Logger
}

// Controller is the single authority over the batch lifecycle. All state is
// guarded by mu; transfer tasks only reach it through reportProgress and
// reportFailure.
type Controller struct {
	transferer   Transferer
	reporter     Reporter
	notifier     Notifier
	observers    []Observer
	stagger      time.Duration
	settle       time.Duration
	keepOnCancel bool
	logger       *log.Logger

	mu         sync.Mutex
	status     types.BatchStatus
	selection  selection
	progress   types.ProgressState
	failed     map[string]error
	batchID    string
	startedAt  time.Time
	generation uint64
	settling   bool
	cancel     context.CancelFunc
	settleTmr  *time.Timer
	closed     bool

	wg sync.WaitGroup
}

func NewController(opts Options) *Controller {
	c := &Controller{
		transferer:   opts.Transferer,
		reporter:     opts.Reporter,
		notifier:     opts.Notifier,
		observers:    opts.Observers,
		stagger:      delayOrDefault(opts.Stagger, DefaultStagger),
		settle:       delayOrDefault(opts.Settle, DefaultSettle),
		keepOnCancel: opts.KeepSelectionOnCancel,
		logger:       opts.Logger,
		status:       types.BatchIdle,
	}
	if c.transferer == nil {
		c.transferer = NewSimulator(DefaultTiming())
	}
	if c.reporter == nil {
		c.reporter = nopReporter{}
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	if c.logger == nil {
		c.logger = tool.DefaultLogger
	}
	return c
}

func delayOrDefault(d, def time.Duration) time.Duration {
	switch {
	case d == 0:
		return def
	case d < 0:
		return 0
	}
	return d
}

// AddFiles appends one new entry per file. Selecting the same file twice
// yields two independent entries.
func (c *Controller) AddFiles(files ...types.FileHandle) ([]types.FileEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == types.BatchRunning {
		return nil, fmt.Errorf("add files while running: %w", ErrInvalidTransition)
	}
	added := c.selection.add(files)
	c.logger.Debugf("[Selection] Added %d files, %d selected", len(added), c.selection.len())
	return added, nil
}

func (c *Controller) RemoveFile(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == types.BatchRunning {
		return fmt.Errorf("remove file while running: %w", ErrInvalidTransition)
	}
	if !c.selection.remove(id) {
		return fmt.Errorf("remove %s: %w", id, ErrUnknownEntry)
	}
	c.logger.Debugf("[Selection] Removed %s, %d selected", id, c.selection.len())
	return nil
}

// ClearAll empties the selection. Clearing an empty selection is a no-op.
func (c *Controller) ClearAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == types.BatchRunning {
		return fmt.Errorf("clear while running: %w", ErrInvalidTransition)
	}
	c.selection.clear()
	return nil
}

// Start launches one transfer task per selected entry, the i-th one delayed
// by i*Stagger, and returns the new batch id without waiting for them.
func (c *Controller) Start() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", fmt.Errorf("start after close: %w", ErrInvalidTransition)
	}
	if c.status == types.BatchRunning {
		c.logger.Debugf("[Batch] Start ignored, batch %s is running", c.batchID)
		return "", fmt.Errorf("start while running: %w", ErrInvalidTransition)
	}
	if c.selection.len() == 0 {
		c.logger.Warnf("[Batch] Start refused: no files selected")
		c.notifier.Notify(&types.Notification{
			Type:    types.NotifyTypeEmptyBatch,
			Title:   "Nothing To Upload",
			Message: "Please add at least one file to upload",
		})
		return "", ErrEmptyBatch
	}

	entries := c.selection.list()
	ctx, cancel := context.WithCancel(context.Background())

	c.generation++
	gen := c.generation
	c.status = types.BatchRunning
	c.batchID = tool.GenerateBatchID()
	c.startedAt = time.Now()
	c.progress = initialProgress(entries)
	c.failed = make(map[string]error)
	c.settling = false
	c.cancel = cancel

	c.logger.Infof("[Batch] Started %s with %d files", c.batchID, len(entries))
	for _, obs := range c.observers {
		obs.BatchStarted(c.batchID, entries)
	}

	for i, entry := range entries {
		c.wg.Add(1)
		go c.run(ctx, gen, time.Duration(i)*c.stagger, entry)
	}
	return c.batchID, nil
}

// run waits out the stagger delay and then transfers a single entry.
func (c *Controller) run(ctx context.Context, gen uint64, delay time.Duration, entry types.FileEntry) {
	defer c.wg.Done()

	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
	if ctx.Err() != nil {
		return
	}

	err := c.transferer.Transfer(ctx, entry, func(percent int) {
		c.reportProgress(gen, entry.ID, percent)
	})
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		c.reportFailure(gen, entry.ID, err)
		return
	}
	// a backend may return without a final report
	c.reportProgress(gen, entry.ID, Complete)
}

// reportProgress records a tick. Stale batches, unknown ids and values that
// do not move the entry forward are dropped.
func (c *Controller) reportProgress(gen uint64, id string, percent int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation || c.status != types.BatchRunning {
		return
	}
	current, ok := c.progress[id]
	if !ok {
		c.logger.Warnf("[Batch] Progress for unknown entry %s dropped", id)
		return
	}
	if _, failed := c.failed[id]; failed {
		return
	}
	percent = min(percent, Complete)
	if percent <= current {
		return
	}

	c.progress[id] = percent
	for _, obs := range c.observers {
		obs.Progress(c.batchID, id, percent)
	}
	c.maybeSettle(gen)
}

// reportFailure marks one entry as failed without touching the others.
func (c *Controller) reportFailure(gen uint64, id string, cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation || c.status != types.BatchRunning {
		return
	}
	if _, ok := c.progress[id]; !ok {
		return
	}
	if _, failed := c.failed[id]; failed {
		return
	}

	err := &TransferError{EntryID: id, Err: cause}
	c.failed[id] = err
	c.logger.Errorf("[Batch] %v", err)
	for _, obs := range c.observers {
		obs.EntryFailed(c.batchID, id, err)
	}
	c.maybeSettle(gen)
}

// maybeSettle arms the settle timer the first time every entry has finished.
func (c *Controller) maybeSettle(gen uint64) {
	if c.settling || !AllSettled(c.progress, c.failed) {
		return
	}
	c.settling = true
	c.logger.Debugf("[Batch] All entries of %s finished, settling for %s", c.batchID, c.settle)
	c.settleTmr = time.AfterFunc(c.settle, func() { c.finish(gen) })
}

// finish commits a completed batch. It re-checks the generation so a cancel
// that got in first suppresses the report.
func (c *Controller) finish(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || c.status != types.BatchRunning {
		c.mu.Unlock()
		return
	}

	entries := c.selection.list()
	result := types.BatchResult{
		BatchID:    c.batchID,
		Files:      make([]types.FileHandle, 0, len(entries)),
		StartedAt:  c.startedAt,
		FinishedAt: time.Now(),
	}
	for _, e := range entries {
		if err, failed := c.failed[e.ID]; failed {
			result.Failed = append(result.Failed, types.FailedEntry{Entry: e, Reason: err.Error()})
			continue
		}
		result.Files = append(result.Files, e.File)
	}

	c.resetLocked()
	c.selection.clear()
	c.logger.Infof("[Batch] Completed %s: %d files, %d failed", result.BatchID, len(result.Files), len(result.Failed))
	for _, obs := range c.observers {
		obs.BatchFinished(result)
	}
	c.mu.Unlock()

	c.reporter.Report(result)
}

// Cancel stops the running batch. Outstanding tasks and a pending settle
// timer are voided; the reporter is not called.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != types.BatchRunning {
		return fmt.Errorf("cancel while %s: %w", c.status, ErrInvalidTransition)
	}

	batchID := c.batchID
	c.resetLocked()
	if !c.keepOnCancel {
		c.selection.clear()
	}

	c.logger.Infof("[Batch] Cancelled %s", batchID)
	for _, obs := range c.observers {
		obs.BatchCancelled(batchID)
	}
	c.notifier.Notify(&types.Notification{
		Type:    types.NotifyTypeBatchCancelled,
		Title:   "Upload Cancelled",
		Message: "Upload canceled",
		Data:    map[string]any{"batchId": batchID},
	})
	return nil
}

// resetLocked returns to idle and invalidates everything tied to the current
// generation. The selection is left to the caller.
func (c *Controller) resetLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.settleTmr != nil {
		c.settleTmr.Stop()
		c.settleTmr = nil
	}
	c.generation++
	c.status = types.BatchIdle
	c.batchID = ""
	c.progress = nil
	c.failed = nil
	c.settling = false
}

func (c *Controller) Status() types.BatchStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Entries returns the selection in insertion order.
func (c *Controller) Entries() []types.FileEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.list()
}

func (c *Controller) Snapshot() types.BatchSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := types.BatchSnapshot{
		Status:   c.status,
		BatchID:  c.batchID,
		Entries:  c.selection.list(),
		Progress: cloneProgress(c.progress),
	}
	if len(c.failed) > 0 {
		snap.Failed = make(map[string]string, len(c.failed))
		for id, err := range c.failed {
			snap.Failed[id] = err.Error()
		}
	}
	return snap
}

// Close cancels a running batch without reporting it and waits for every
// task goroutine to return. The controller cannot start batches afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	if c.status == types.BatchRunning {
		batchID := c.batchID
		c.resetLocked()
		for _, obs := range c.observers {
			obs.BatchCancelled(batchID)
		}
	}
	c.mu.Unlock()
	c.wg.Wait()
}

package transfer

import "github.com/moyoez/dropvault-go/types"

// Reporter receives the result of every completed batch, exactly once per
// batch. It is never called for a cancelled batch.
type Reporter interface {
	Report(result types.BatchResult)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(result types.BatchResult)

func (f ReporterFunc) Report(result types.BatchResult) { f(result) }

// Notifier delivers advisory, user-facing notifications.
type Notifier interface {
	Notify(notification *types.Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(notification *types.Notification)

func (f NotifierFunc) Notify(notification *types.Notification) { f(notification) }

// Observer follows batch progress. Methods are called synchronously while the
// controller holds its lock, in the order events happen; they must not block
// and must not call back into the Controller.
type Observer interface {
	BatchStarted(batchID string, entries []types.FileEntry)
	Progress(batchID, entryID string, percent int)
	EntryFailed(batchID, entryID string, err error)
	BatchFinished(result types.BatchResult)
	BatchCancelled(batchID string)
}

type nopReporter struct{}

func (nopReporter) Report(types.BatchResult) {}

type nopNotifier struct{}

func (nopNotifier) Notify(*types.Notification) {}

// Package progress renders batch progress in the terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"

	"github.com/moyoez/dropvault-go/tool"
	"github.com/moyoez/dropvault-go/transfer"
	"github.com/moyoez/dropvault-go/types"
)

// UI draws one mpb bar per entry when attached to a terminal and falls back
// to plain lines otherwise. A UI renders a single batch; call Wait after the
// batch has finished or been cancelled.
type UI struct {
	progress   *mpb.Progress
	out        io.Writer
	isTerminal bool

	mu      sync.Mutex
	bars    map[string]*mpb.Bar
	names   map[string]string
	total   int
	printed map[string]bool
}

var _ transfer.Observer = (*UI)(nil)

// New creates a UI on f, usually os.Stderr.
func New(f *os.File) *UI {
	return NewWithWriter(f, term.IsTerminal(int(f.Fd())))
}

// NewWithWriter creates a UI writing to w. Bars are drawn only when
// isTerminal is set.
func NewWithWriter(w io.Writer, isTerminal bool) *UI {
	var p *mpb.Progress
	if isTerminal {
		p = mpb.New(
			mpb.WithOutput(w),
			mpb.WithRefreshRate(150*time.Millisecond),
			mpb.WithWidth(60),
		)
	} else {
		// Non-TTY: disable progress bars, just use text output
		p = mpb.New(mpb.WithOutput(io.Discard))
	}
	return &UI{
		progress:   p,
		out:        w,
		isTerminal: isTerminal,
		bars:       make(map[string]*mpb.Bar),
		names:      make(map[string]string),
		printed:    make(map[string]bool),
	}
}

func (u *UI) IsTerminal() bool {
	return u.isTerminal
}

// printf writes above the bars when they are active.
func (u *UI) printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if u.isTerminal {
		_, _ = u.progress.Write([]byte(msg))
		return
	}
	_, _ = io.WriteString(u.out, msg)
}

func (u *UI) BatchStarted(batchID string, entries []types.FileEntry) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.total = len(entries)
	for i, e := range entries {
		label := fmt.Sprintf("[%d/%d] %s (%s)", i+1, u.total, truncateName(e.Name, 32), tool.FormatBytes(e.Size, 1))
		u.names[e.ID] = e.Name
		if !u.isTerminal {
			u.printf("Uploading %s\n", label)
			continue
		}
		u.bars[e.ID] = u.progress.New(int64(transfer.Complete),
			mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
			mpb.PrependDecorators(decor.Name(label, decor.WCSyncSpaceR)),
			mpb.AppendDecorators(decor.Percentage(decor.WCSyncSpace)),
		)
	}
	u.printf("Batch %s started with %d files\n", batchID, u.total)
}

func (u *UI) Progress(_, entryID string, percent int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if bar, ok := u.bars[entryID]; ok {
		bar.SetCurrent(int64(percent))
	}
	if percent >= transfer.Complete && !u.isTerminal && !u.printed[entryID] {
		u.printed[entryID] = true
		u.printf("✓ %s\n", u.names[entryID])
	}
}

func (u *UI) EntryFailed(_, entryID string, err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if bar, ok := u.bars[entryID]; ok {
		bar.Abort(false)
	}
	u.printf("✗ %s: %v\n", u.names[entryID], err)
}

func (u *UI) BatchFinished(result types.BatchResult) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.printf("Batch %s completed: %d files (%s), %d failed in %s\n",
		result.BatchID,
		len(result.Files),
		tool.FormatBytes(result.TotalSize(), 2),
		len(result.Failed),
		result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
}

func (u *UI) BatchCancelled(batchID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for id, bar := range u.bars {
		bar.Abort(false)
		delete(u.bars, id)
	}
	u.printf("Upload canceled (batch %s)\n", batchID)
}

// Wait blocks until all bars are done and stops rendering.
func (u *UI) Wait() {
	if u.progress != nil {
		u.progress.Wait()
	}
}

// truncateName shortens long names in the middle, keeping the extension.
func truncateName(name string, maxLen int) string {
	r := []rune(name)
	if len(r) <= maxLen {
		return name
	}
	ext := filepath.Ext(name)
	keep := maxLen - len([]rune(ext)) - 1
	if keep < 1 {
		return string(r[:maxLen-1]) + "…"
	}
	return strings.TrimSpace(string(r[:keep])) + "…" + ext
}

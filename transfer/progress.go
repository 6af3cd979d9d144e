package transfer

import (
	"maps"

	"github.com/moyoez/dropvault-go/types"
)

// Complete is the terminal percentage of an entry.
const Complete = 100

// AllComplete reports whether a batch is fully complete: at least one entry
// and every entry at 100.
func AllComplete(state types.ProgressState) bool {
	if len(state) == 0 {
		return false
	}
	for _, p := range state {
		if p != Complete {
			return false
		}
	}
	return true
}

// AllSettled is AllComplete where failed entries count as finished.
func AllSettled(state types.ProgressState, failed map[string]error) bool {
	if len(state) == 0 {
		return false
	}
	for id, p := range state {
		if p == Complete {
			continue
		}
		if _, ok := failed[id]; !ok {
			return false
		}
	}
	return true
}

func initialProgress(entries []types.FileEntry) types.ProgressState {
	state := make(types.ProgressState, len(entries))
	for _, e := range entries {
		state[e.ID] = 0
	}
	return state
}

func cloneProgress(state types.ProgressState) types.ProgressState {
	if state == nil {
		return nil
	}
	return maps.Clone(state)
}

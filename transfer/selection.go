package transfer

import (
	"slices"

	"github.com/moyoez/dropvault-go/tool"
	"github.com/moyoez/dropvault-go/types"
)

// selection is the ordered set of pending entries. It is not safe for
// concurrent use; the Controller guards it.
type selection struct {
	entries []types.FileEntry
}

func newEntry(file types.FileHandle) types.FileEntry {
	return types.FileEntry{
		ID:       tool.GenerateEntryID(),
		Name:     file.Name,
		Size:     file.Size,
		MimeType: file.MimeType,
		File:     file,
	}
}

// add appends one fresh entry per handle and returns them.
func (s *selection) add(files []types.FileHandle) []types.FileEntry {
	added := make([]types.FileEntry, 0, len(files))
	for _, f := range files {
		added = append(added, newEntry(f))
	}
	s.entries = append(s.entries, added...)
	return added
}

func (s *selection) remove(id string) bool {
	i := slices.IndexFunc(s.entries, func(e types.FileEntry) bool { return e.ID == id })
	if i < 0 {
		return false
	}
	s.entries = slices.Delete(s.entries, i, i+1)
	return true
}

func (s *selection) clear() {
	s.entries = nil
}

func (s *selection) len() int {
	return len(s.entries)
}

// list returns a copy in insertion order.
func (s *selection) list() []types.FileEntry {
	return slices.Clone(s.entries)
}

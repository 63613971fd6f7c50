package domain

import (
	"slices"
	"time"
)

// UndoCapacity is the number of actions the ledger keeps. Older actions are
// evicted and can no longer be undone.
const UndoCapacity = 50

type UndoActionKind string

const (
	UndoPointAdded   UndoActionKind = "point_added"
	UndoPointRemoved UndoActionKind = "point_removed"
	UndoSetAdvanced  UndoActionKind = "set_advanced"
)

type UndoEntry struct {
	At              time.Time
	Kind            UndoActionKind
	PriorCurrentSet SetScore
	SetNumber       int
	// PriorCompletedSets is only populated for UndoSetAdvanced.
	PriorCompletedSets []SetScore
}

// UndoLedger is a bounded stack of undo entries, oldest first.
type UndoLedger struct {
	entries []UndoEntry
}

func NewUndoLedger(entries ...UndoEntry) UndoLedger {
	var l UndoLedger
	for _, entry := range entries {
		l = l.Push(entry)
	}
	return l
}

// Push returns a ledger with entry appended, evicting the oldest entry when
// the ledger is full. The receiver is left untouched.
func (l UndoLedger) Push(entry UndoEntry) UndoLedger {
	entry.PriorCompletedSets = slices.Clone(entry.PriorCompletedSets)

	start := 0
	if len(l.entries)+1 > UndoCapacity {
		start = len(l.entries) + 1 - UndoCapacity
	}

	entries := make([]UndoEntry, 0, len(l.entries)-start+1)
	entries = append(entries, l.entries[start:]...)
	entries = append(entries, entry)

	return UndoLedger{entries: entries}
}

// Pop returns the newest entry and the ledger without it.
func (l UndoLedger) Pop() (UndoEntry, UndoLedger, error) {
	if len(l.entries) == 0 {
		return UndoEntry{}, l, ErrNothingToUndo
	}

	last := len(l.entries) - 1
	if last == 0 {
		return l.entries[0], UndoLedger{}, nil
	}
	return l.entries[last], UndoLedger{entries: slices.Clone(l.entries[:last])}, nil
}

func (l UndoLedger) CanUndo() bool {
	return len(l.entries) > 0
}

func (l UndoLedger) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the recorded entries, oldest first.
func (l UndoLedger) Entries() []UndoEntry {
	out := make([]UndoEntry, len(l.entries))
	for i, entry := range l.entries {
		entry.PriorCompletedSets = slices.Clone(entry.PriorCompletedSets)
		out[i] = entry
	}
	return out
}

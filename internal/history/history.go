// Package history keeps the bounded, most-recent-first log of applied
// configurations.
package history

import (
	"fmt"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/studiowebux/mqttcmd/internal/document"
	"github.com/studiowebux/mqttcmd/internal/types"
)

// MaxEntries is the capacity of the log; older entries are discarded
const MaxEntries = 10

// Log is an ordered list of history entries, newest first
type Log []types.HistoryEntry

// Record prepends doc to the log.
// Documents without a brokers array are not recorded, and a document equal
// to the current head is not recorded twice.
func Record(log Log, doc types.Document, now time.Time) Log {
	if !doc.HasBrokers() {
		return log
	}
	if len(log) > 0 && document.Equal(log[0].Config, doc) {
		return log
	}

	entry := types.HistoryEntry{
		Name:   document.TimestampedName(doc, now),
		Config: doc.Clone(),
	}

	limit := len(log) + 1
	if limit > MaxEntries {
		limit = MaxEntries
	}
	next := make(Log, 0, limit)
	next = append(next, entry)
	for _, e := range log {
		if len(next) == MaxEntries {
			break
		}
		next = append(next, e)
	}
	return next
}

// Select returns the entry at index.
// Indexes come from a rendered list, so an out-of-range index is a bug.
func Select(log Log, index int) types.HistoryEntry {
	if index < 0 || index >= len(log) {
		panic(fmt.Sprintf("history: index %d out of range [0,%d)", index, len(log)))
	}
	e := log[index]
	e.Config = e.Config.Clone()
	return e
}

// Clear returns an empty log. Callers confirm with the user first.
func Clear(Log) Log {
	return Log{}
}

// Names returns entry names in log order
func (l Log) Names() []string {
	names := make([]string, len(l))
	for i, e := range l {
		names[i] = e.Name
	}
	return names
}

// Match is a search hit: the index into the searched log plus the matched
// byte offsets in the entry name
type Match struct {
	Index          int
	MatchedIndexes []int
}

// Search fuzzy-matches query against entry names, best match first.
// An empty query matches every entry in log order.
func Search(log Log, query string) []Match {
	if query == "" {
		matches := make([]Match, len(log))
		for i := range log {
			matches[i] = Match{Index: i}
		}
		return matches
	}

	results := fuzzy.Find(query, log.Names())
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{Index: r.Index, MatchedIndexes: r.MatchedIndexes}
	}
	return matches
}

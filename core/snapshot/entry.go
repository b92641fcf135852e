package snapshot

import (
	"sort"
	"time"
)

// Entry is one tracked artifact: its identity and its last modification time.
type Entry struct {
	// Identity is the unique name of the artifact, usually a root-qualified path.
	Identity string `json:"identity" msgpack:"identity"`
	// LastModified is the modification time observed when the entry was built.
	LastModified time.Time `json:"last_modified" msgpack:"last_modified"`
}

// NewEntry builds an entry with its timestamp normalised to UTC at microsecond
// precision, the finest precision all backends persist.
func NewEntry(identity string, lastModified time.Time) Entry {
	return Entry{
		Identity:     identity,
		LastModified: lastModified.UTC().Truncate(time.Microsecond),
	}
}

// Equal reports whether both entries share identity and modification time.
func (e Entry) Equal(other Entry) bool {
	return e.Identity == other.Identity && e.LastModified.Equal(other.LastModified)
}

// Index returns the entries keyed by identity. Later duplicates win.
func Index(entries []Entry) map[string]Entry {
	index := make(map[string]Entry, len(entries))
	for _, e := range entries {
		index[e.Identity] = e
	}
	return index
}

// Sorted returns a copy of entries ordered by identity.
func Sorted(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Identity < out[j].Identity
	})
	return out
}

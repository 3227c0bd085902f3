package segment

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/s2"
)

// Store is the key-value collaborator holding posting lists. A found=false
// result is distinct from a present-but-empty value.
type Store interface {
	Get(key []byte) (val []byte, found bool, err error)
}

// TimeRange bounds entry timestamps, inclusive on both ends. The zero value
// means unbounded: keep every entry. Callers wanting "only timestamp zero"
// cannot express it; that overload is inherited from the storage format.
type TimeRange struct {
	Start uint64
	End   uint64
}

// Between returns an inclusive range.
func Between(start, end uint64) TimeRange { return TimeRange{Start: start, End: end} }

// Contains reports whether ts passes the filter.
func (r TimeRange) Contains(ts uint64) bool {
	if r.Start == 0 && r.End == 0 {
		return true
	}
	return r.Start <= ts && ts <= r.End
}

// Query selects entries from one segment.
type Query struct {
	// Text is an optional fuzzy text query. Empty matches every entry via the
	// catch-all posting list.
	Text string
	// Range filters entries by timestamp.
	Range TimeRange
}

// EntryIterator is the pull protocol over a resolved result set.
type EntryIterator interface {
	// Entry returns the entry at the cursor, or nil once exhausted.
	Entry() *Entry
	// Next advances the cursor; false signals the terminal transition.
	Next() bool
}

// Iterator iterates the entries of one sealed segment that match a query.
// The full result set is materialized at construction; iteration itself
// never fails. Iterators are single-use and forward-only.
type Iterator struct {
	store     Store
	partition string
	id        uint64
	entries   []*Entry
	cursor    int
}

// NewIterator resolves a query against one segment and materializes the
// matching entries: resolve terms, fetch and decode each term's posting
// list, read the segment file fully into memory, then decode, deduplicate,
// and time-filter the addressed entries. Any failure aborts construction;
// partial results are never returned.
func NewIterator(store Store, partitionDir, partition string, id uint64, q Query) (*Iterator, error) {
	terms, err := resolveTerms(partitionDir, id, q.Text)
	if err != nil {
		return nil, err
	}

	var offsets []uint64
	for _, term := range terms {
		key := PostingKey(partition, id, term)
		val, found, err := store.Get(key)
		if err != nil {
			return nil, fmt.Errorf("posting list %s: %w", key, err)
		}
		if !found {
			// The term index and the posting-list store must stay consistent:
			// every indexed term has a posting list.
			return nil, &CorruptIndexError{Key: string(key)}
		}
		list, err := DecodePostingList(val)
		if err != nil {
			return nil, fmt.Errorf("posting list %s: %w", key, err)
		}
		offsets = append(offsets, list...)
	}

	// Random access is expensive; read the whole segment once.
	buf, err := ReadFile(filepath.Join(partitionDir, FileName(id)))
	if err != nil {
		return nil, err
	}

	entries, err := collectEntries(buf, offsets, q.Range)
	if err != nil {
		return nil, err
	}

	return &Iterator{
		store:     store,
		partition: partition,
		id:        id,
		entries:   entries,
	}, nil
}

// ReadFile reads a sealed segment file and decompresses it into the raw
// record buffer that posting-list offsets address.
func ReadFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	buf, err := s2.Decode(nil, raw)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", filepath.Base(path), err)
	}
	return buf, nil
}

// collectEntries decodes the entries addressed by offsets, deduplicating
// across posting lists and applying the time filter. An offset is marked
// seen even when its entry is filtered out, so a duplicate from another term
// never decodes twice. Each posting list is already sorted, but the merged
// sequence is not; re-sorting the whole thing is cheap next to the I/O.
func collectEntries(buf []byte, offsets []uint64, r TimeRange) ([]*Entry, error) {
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	seen := make(map[uint64]struct{}, len(offsets))
	entries := make([]*Entry, 0, len(offsets))
	for _, off := range offsets {
		if _, ok := seen[off]; ok {
			continue
		}
		seen[off] = struct{}{}

		if off > uint64(len(buf)) || uint64(len(buf))-off < 8 {
			return nil, &CorruptSegmentError{Offset: off, Reason: "length prefix past end of segment"}
		}
		length := binary.BigEndian.Uint64(buf[off : off+8])
		start := off + 8
		if length > uint64(len(buf))-start {
			return nil, &CorruptSegmentError{Offset: off, Reason: "entry length past end of segment"}
		}

		ent, err := DecodeEntry(buf[start : start+length])
		if err != nil {
			return nil, err
		}
		if r.Contains(ent.Ts) {
			entries = append(entries, ent)
		}
	}
	return entries, nil
}

// Entry returns the entry at the current cursor, or nil once the iterator is
// exhausted. It does not advance.
func (it *Iterator) Entry() *Entry {
	if it.cursor >= len(it.entries) {
		return nil
	}
	return it.entries[it.cursor]
}

// Next advances the cursor. Advancing from the last entry (or an empty
// result) clamps the cursor past the end and returns false; further calls
// stay exhausted without error.
func (it *Iterator) Next() bool {
	if it.cursor+1 >= len(it.entries) {
		it.cursor = len(it.entries)
		return false
	}
	it.cursor++
	return true
}

// Len returns the number of resolved entries.
func (it *Iterator) Len() int { return len(it.entries) }

// SegmentID returns the id of the segment this iterator reads.
func (it *Iterator) SegmentID() uint64 { return it.id }

// Partition returns the partition this iterator reads.
func (it *Iterator) Partition() string { return it.partition }

// Store returns the key-value handle the iterator was built with, for
// follow-up lookups against the same segment.
func (it *Iterator) Store() Store { return it.store }

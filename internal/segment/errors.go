package segment

import "fmt"

// CorruptIndexError reports a violated invariant between the term index and
// the posting-list store: a term resolved from the index has no posting list
// under its key. The query that hit it fails; the process keeps running.
type CorruptIndexError struct {
	Key string
}

func (e *CorruptIndexError) Error() string {
	return fmt.Sprintf("segment: no posting list for index key %q", e.Key)
}

// CorruptSegmentError reports an entry whose offset or length would read past
// the end of the segment buffer, or an entry too short to decode.
type CorruptSegmentError struct {
	Offset uint64
	Reason string
}

func (e *CorruptSegmentError) Error() string {
	return fmt.Sprintf("segment: corrupt entry at offset %d: %s", e.Offset, e.Reason)
}

package segment

import "fmt"

// Key and file naming for segments, term indexes, and posting lists.
//
// Posting lists live in the key-value store under
// segment_{partition}_{segment_id}_{term}; the per-partition registry of
// sealed segment ids lives under segments_{partition}. Segment and term
// index files live in the partition's segments directory.

const (
	// SegmentPrefix namespaces all posting-list keys.
	SegmentPrefix = "segment"

	// PostingListAll is the sentinel term whose posting list addresses every
	// entry in a segment. The tokenizer never emits underscores, so it cannot
	// collide with a real term.
	PostingListAll = "__all__"
)

// PostingKey builds the key of one term's posting list.
func PostingKey(partition string, id uint64, term string) []byte {
	return fmt.Appendf(nil, "%s_%s_%d_%s", SegmentPrefix, partition, id, term)
}

// RegistryKey builds the key of the partition's sealed-segment registry.
func RegistryKey(partition string) []byte {
	return fmt.Appendf(nil, "segments_%s", partition)
}

// FileName returns the segment file name for the given id.
func FileName(id uint64) string {
	return fmt.Sprintf("%d.segment", id)
}

// IndexFileName returns the term index (FST) file name for the given id.
func IndexFileName(id uint64) string {
	return fmt.Sprintf("segment_index_%d.fst", id)
}

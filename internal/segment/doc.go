// Package segment implements Pathivu's sealed segment files: the packed
// entry format, posting lists, the fuzzy term-index resolver, the segment
// builder, and the query iterator.
//
// # Overview
//
// A segment is an immutable file per (partition, id) holding length-prefixed
// entries:
//   - record:  [8B BE length][payload]
//   - payload: [8B BE timestamp][line bytes]
//
// The file carries no entry index of its own. Offsets come from posting
// lists stored in the key-value store, one per indexed term plus a catch-all
// sentinel, keyed segment_{partition}_{id}_{term}. A vellum FST beside the
// segment file holds every indexed term and answers fuzzy (edit distance 2)
// term lookups. On disk the record buffer is s2-compressed; queries read and
// decompress the whole file once, so offsets address the raw buffer.
//
// Querying a segment:
//
//	it, err := segment.NewIterator(db, dir, "default", id, segment.Query{
//	    Text:  "eror",
//	    Range: segment.Between(start, end),
//	})
//	if err != nil { /* handle */ }
//	for e := it.Entry(); e != nil; e = it.Entry() {
//	    use(e)
//	    if !it.Next() {
//	        break
//	    }
//	}
//
// Construction materializes the full result set up front; iteration never
// fails and never rewinds. All failure surfaces as either an I/O/format
// error, a CorruptIndexError (term with no posting list), or a
// CorruptSegmentError (offset or length past the buffer).
package segment

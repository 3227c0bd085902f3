package segment

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/blevesearch/vellum"
	"github.com/klauspost/compress/s2"

	pebblestore "github.com/manigandand/pathivu/internal/storage/pebble"
)

// Builder accumulates entries for one unsealed segment: the packed record
// buffer, one posting bitmap per indexed term, and the catch-all bitmap.
// Seal writes the segment file and term index and commits the posting lists
// plus the partition registry update as one batch. A sealed segment is
// immutable; builders are not safe for concurrent use.
type Builder struct {
	dir       string
	partition string
	id        uint64

	buf      []byte
	postings map[string]*roaring64.Bitmap
	all      *roaring64.Bitmap
	count    int
}

// NewBuilder starts an empty segment for dir/partition/id.
func NewBuilder(dir, partition string, id uint64) *Builder {
	return &Builder{
		dir:       dir,
		partition: partition,
		id:        id,
		postings:  make(map[string]*roaring64.Bitmap),
		all:       roaring64.New(),
	}
}

// Append encodes one entry at the next offset and indexes its terms.
// It returns the entry's byte offset within the segment.
func (b *Builder) Append(ts uint64, line []byte) uint64 {
	off := uint64(len(b.buf))
	payload := EncodeEntry(ts, line)

	var lenb [8]byte
	binary.BigEndian.PutUint64(lenb[:], uint64(len(payload)))
	b.buf = append(b.buf, lenb[:]...)
	b.buf = append(b.buf, payload...)

	b.all.Add(off)
	for _, term := range Tokenize(line) {
		rb, ok := b.postings[term]
		if !ok {
			rb = roaring64.New()
			b.postings[term] = rb
		}
		rb.Add(off)
	}
	b.count++
	return off
}

// Count returns the number of appended entries.
func (b *Builder) Count() int { return b.count }

// Size returns the packed buffer size in bytes.
func (b *Builder) Size() int { return len(b.buf) }

// ID returns the segment id.
func (b *Builder) ID() uint64 { return b.id }

// Seal writes the s2-compressed segment file and the vellum term index, then
// commits every posting list and the registry update in one batch. The
// builder must not be reused afterwards.
func (b *Builder) Seal(db *pebblestore.DB) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("segment %d: %w", b.id, err)
	}

	segPath := filepath.Join(b.dir, FileName(b.id))
	if err := os.WriteFile(segPath, s2.Encode(nil, b.buf), 0o644); err != nil {
		return fmt.Errorf("segment %d: write file: %w", b.id, err)
	}

	if err := b.writeIndex(); err != nil {
		return err
	}

	batch := db.NewBatch()
	defer batch.Close()

	put := func(term string, rb *roaring64.Bitmap) error {
		val, err := rb.MarshalBinary()
		if err != nil {
			return fmt.Errorf("segment %d: posting list %q: %w", b.id, term, err)
		}
		return batch.Set(PostingKey(b.partition, b.id, term), val, nil)
	}
	if err := put(PostingListAll, b.all); err != nil {
		return err
	}
	for term, rb := range b.postings {
		if err := put(term, rb); err != nil {
			return err
		}
	}

	// Register the sealed id in the partition's segment set.
	reg := roaring64.New()
	if cur, found, err := db.Get(RegistryKey(b.partition)); err != nil {
		return err
	} else if found {
		if err := reg.UnmarshalBinary(cur); err != nil {
			return fmt.Errorf("partition %s: registry: %w", b.partition, err)
		}
	}
	reg.Add(b.id)
	regVal, err := reg.MarshalBinary()
	if err != nil {
		return fmt.Errorf("partition %s: registry: %w", b.partition, err)
	}
	if err := batch.Set(RegistryKey(b.partition), regVal, nil); err != nil {
		return err
	}

	return db.CommitBatch(context.Background(), batch)
}

// writeIndex builds the FST over the indexed terms. Vellum requires inserts
// in lexicographic order.
func (b *Builder) writeIndex() error {
	terms := make([]string, 0, len(b.postings))
	for t := range b.postings {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	f, err := os.Create(filepath.Join(b.dir, IndexFileName(b.id)))
	if err != nil {
		return fmt.Errorf("segment %d: write term index: %w", b.id, err)
	}
	bw, err := vellum.New(f, nil)
	if err != nil {
		f.Close()
		return fmt.Errorf("segment %d: term index builder: %w", b.id, err)
	}
	for i, t := range terms {
		if err := bw.Insert([]byte(t), uint64(i)); err != nil {
			bw.Close()
			f.Close()
			return fmt.Errorf("segment %d: index term %q: %w", b.id, t, err)
		}
	}
	if err := bw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("segment %d: finish term index: %w", b.id, err)
	}
	return f.Close()
}

// Tokenize splits a line into index terms: maximal runs of letters and
// digits, case preserved (matching is case-sensitive).
func Tokenize(line []byte) []string {
	return strings.FieldsFunc(string(line), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

package segment

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Posting lists are serialized roaring64 bitmaps of byte offsets into one
// segment file. Bitmaps keep offsets unique and sorted by construction.

// DecodePostingList decodes a stored posting list into ascending offsets.
func DecodePostingList(b []byte) ([]uint64, error) {
	rb := roaring64.New()
	if err := rb.UnmarshalBinary(b); err != nil {
		return nil, fmt.Errorf("segment: decode posting list: %w", err)
	}
	return rb.ToArray(), nil
}

// EncodePostingList encodes offsets as a posting list.
func EncodePostingList(offsets []uint64) ([]byte, error) {
	rb := roaring64.New()
	rb.AddMany(offsets)
	out, err := rb.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("segment: encode posting list: %w", err)
	}
	return out, nil
}

package segment

import (
	"reflect"
	"testing"
)

func TestPostingListRoundTrip(t *testing.T) {
	offsets := []uint64{0, 42, 42, 7, 1 << 40}
	b, err := EncodePostingList(offsets)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodePostingList(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Bitmaps dedup and sort.
	want := []uint64{0, 7, 42, 1 << 40}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDecodePostingListGarbage(t *testing.T) {
	if _, err := DecodePostingList([]byte("not a bitmap")); err == nil {
		t.Fatalf("want decode error")
	}
}

package segment

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecodeEntry(t *testing.T) {
	ent, err := DecodeEntry(EncodeEntry(100, []byte("hello")))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ent.Ts != 100 || !bytes.Equal(ent.Line, []byte("hello")) {
		t.Fatalf("unexpected entry: ts=%d line=%q", ent.Ts, ent.Line)
	}
}

func TestDecodeEntryEmptyLine(t *testing.T) {
	ent, err := DecodeEntry(EncodeEntry(7, nil))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ent.Ts != 7 || len(ent.Line) != 0 {
		t.Fatalf("unexpected entry: ts=%d line=%q", ent.Ts, ent.Line)
	}
}

func TestDecodeEntryShortBuffer(t *testing.T) {
	_, err := DecodeEntry([]byte{1, 2, 3})
	var corrupt *CorruptSegmentError
	if !errors.As(err, &corrupt) {
		t.Fatalf("want CorruptSegmentError, got %v", err)
	}
}

func TestDecodeEntryCopiesLine(t *testing.T) {
	buf := EncodeEntry(1, []byte("abc"))
	ent, err := DecodeEntry(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	buf[8] = 'z'
	if string(ent.Line) != "abc" {
		t.Fatalf("line aliases caller buffer: %q", ent.Line)
	}
}

package segment

import "encoding/binary"

// Entry is one decoded log record. Entries are immutable after decode and are
// shared by pointer between an iterator's result list and any caller that
// retains them.
type Entry struct {
	Ts   uint64
	Line []byte
}

// Entry payload layout: [8B BE timestamp][line bytes]. The segment file
// frames each payload with an 8-byte big-endian length prefix.

// DecodeEntry decodes one entry payload. The caller must slice exactly the
// payload bytes; a buffer shorter than the timestamp header is corruption.
// The line is copied into owned storage.
func DecodeEntry(buf []byte) (*Entry, error) {
	if len(buf) < 8 {
		return nil, &CorruptSegmentError{Reason: "entry shorter than timestamp header"}
	}
	return &Entry{
		Ts:   binary.BigEndian.Uint64(buf[:8]),
		Line: append([]byte(nil), buf[8:]...),
	}, nil
}

// EncodeEntry packs a timestamp and line into an entry payload.
func EncodeEntry(ts uint64, line []byte) []byte {
	out := make([]byte, 8+len(line))
	binary.BigEndian.PutUint64(out[:8], ts)
	copy(out[8:], line)
	return out
}

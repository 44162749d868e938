package forest

import (
	"encoding/binary"
	"fmt"
)

// Packing helpers for the snapshot codec, in the append/read-cursor
// style of the teacher's own hand-rolled record packing: one function
// per primitive, writers appending to a growing []byte, readers
// returning the decoded value together with the unread rest of the
// slice.

func pint8(b []byte, v uint8) []byte {
	return append(b, v)
}

func gint8(b []byte) (uint8, []byte, error) {
	if len(b) < 1 {
		return 0, nil, fmt.Errorf("%w: truncated while reading int8", errCorruptSnapshot)
	}
	return b[0], b[1:], nil
}

func pint32(b []byte, v int32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	return append(b, buf[:]...)
}

func gint32(b []byte) (int32, []byte, error) {
	if len(b) < 4 {
		return 0, nil, fmt.Errorf("%w: truncated while reading int32", errCorruptSnapshot)
	}
	return int32(binary.BigEndian.Uint32(b)), b[4:], nil
}

func pint64(b []byte, v int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	return append(b, buf[:]...)
}

func gint64(b []byte) (int64, []byte, error) {
	if len(b) < 8 {
		return 0, nil, fmt.Errorf("%w: truncated while reading int64", errCorruptSnapshot)
	}
	return int64(binary.BigEndian.Uint64(b)), b[8:], nil
}

// pbytes writes a length-prefixed byte string: an int32 length followed
// by the bytes themselves.
func pbytes(b []byte, v []byte) []byte {
	b = pint32(b, int32(len(v)))
	return append(b, v...)
}

func gbytes(b []byte) ([]byte, []byte, error) {
	n, rest, err := gint32(b)
	if err != nil {
		return nil, nil, err
	}
	if n < 0 || int(n) > len(rest) {
		return nil, nil, fmt.Errorf("%w: invalid byte-string length %d", errCorruptSnapshot, n)
	}
	return rest[:n], rest[n:], nil
}

func pstr(b []byte, v string) []byte {
	return pbytes(b, []byte(v))
}

func gstr(b []byte) (string, []byte, error) {
	raw, rest, err := gbytes(b)
	if err != nil {
		return "", nil, err
	}
	return string(raw), rest, nil
}

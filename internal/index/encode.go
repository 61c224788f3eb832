package index

import (
	"encoding/binary"
)

// key = pos(8), big-endian so cursor order is document order
func makeEntryKey(pos int) []byte {
	if pos < 0 {
		pos = 0
	}
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(pos))
	return k
}

func entryPos(k []byte) int {
	if len(k) != 8 {
		return -1
	}
	return int(binary.BigEndian.Uint64(k))
}

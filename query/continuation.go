package query

import (
	"encoding/binary"
	"fmt"
)

// continuationKind distinguishes the internal shapes wrapped inside the
// opaque continuation key handed to callers.
type continuationKind byte

const (
	continuationSimple continuationKind = iota
	continuationPhase2
)

// WrapSimple builds the opaque continuation for a simple-query or
// single-shard driver-planned loop: the server's own continuation key
// passed straight through behind a one-byte kind tag, so a later
// UnwrapSimple can tell it apart from a phase-2 cursor bundle without
// guessing.
func WrapSimple(serverKey []byte) []byte {
	if serverKey == nil {
		return nil
	}
	out := make([]byte, 1+len(serverKey))
	out[0] = byte(continuationSimple)
	copy(out[1:], serverKey)
	return out
}

// UnwrapSimple reverses WrapSimple.
func UnwrapSimple(key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, nil
	}
	if continuationKind(key[0]) != continuationSimple {
		return nil, fmt.Errorf("nosqldb/query: continuation key is not a simple cursor")
	}
	return key[1:], nil
}

// WrapPhase2 packs the set of still-open partition cursors into one
// opaque blob: kind byte, partition count, then per-partition
// {partition_id int32, key_len int32, key bytes}.
func WrapPhase2(cursors []PartitionCursor) []byte {
	out := []byte{byte(continuationPhase2)}
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(cursors)))
	out = append(out, countBuf[:]...)
	for _, c := range cursors {
		var idBuf, lenBuf [4]byte
		binary.BigEndian.PutUint32(idBuf[:], uint32(c.PartitionID))
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(c.ContinuationKey)))
		out = append(out, idBuf[:]...)
		out = append(out, lenBuf[:]...)
		out = append(out, c.ContinuationKey...)
	}
	return out
}

// UnwrapPhase2 reverses WrapPhase2.
func UnwrapPhase2(key []byte) ([]PartitionCursor, error) {
	if len(key) < 5 {
		return nil, fmt.Errorf("nosqldb/query: continuation key too short for phase-2 cursor bundle")
	}
	if continuationKind(key[0]) != continuationPhase2 {
		return nil, fmt.Errorf("nosqldb/query: continuation key is not a phase-2 cursor bundle")
	}
	off := 1
	count := binary.BigEndian.Uint32(key[off: off+4])
	off += 4
	out := make([]PartitionCursor, 0, count)
	for i := uint32(0); i < count; i++ {
		if off+8 > len(key) {
			return nil, fmt.Errorf("nosqldb/query: truncated phase-2 cursor bundle")
		}
		partitionID := int32(binary.BigEndian.Uint32(key[off: off+4]))
		off += 4
		keyLen := int(binary.BigEndian.Uint32(key[off: off+4]))
		off += 4
		if off+keyLen > len(key) {
			return nil, fmt.Errorf("nosqldb/query: truncated phase-2 cursor key")
		}
		contKey := key[off: off+keyLen]
		off += keyLen
		out = append(out, PartitionCursor{PartitionID: partitionID, ContinuationKey: contKey})
	}
	return out, nil
}

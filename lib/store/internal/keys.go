package internal

import (
	"encoding/binary"
	"fmt"
)

// --------------------------------------------------------------------------
// Key Layout (shared by the durable backends)
// --------------------------------------------------------------------------

// TablePrefix returns the prefix shared by all keys of a table:
// uvarint(len(table)) ++ table.
func TablePrefix(table string) []byte {
	prefix := make([]byte, 0, binary.MaxVarintLen64+len(table))
	prefix = binary.AppendUvarint(prefix, uint64(len(table)))
	return append(prefix, table...)
}

// FullKey returns the stored key of (table, key).
func FullKey(table, key string) []byte {
	full := make([]byte, 0, binary.MaxVarintLen64+len(table)+len(key))
	full = binary.AppendUvarint(full, uint64(len(table)))
	full = append(full, table...)
	return append(full, key...)
}

// SplitKey is the inverse of FullKey.
func SplitKey(full []byte) (table, key string, err error) {
	length, n := binary.Uvarint(full)
	if n <= 0 {
		return "", "", fmt.Errorf("invalid table length prefix in key %x", full)
	}
	rest := full[n:]
	if uint64(len(rest)) < length {
		return "", "", fmt.Errorf("key %x is shorter than its table prefix", full)
	}
	return string(rest[:length]), string(rest[length:]), nil
}

// PrefixUpperBound returns the smallest key that is greater than every key
// starting with prefix, or nil if there is no such key (prefix is all 0xff).
func PrefixUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

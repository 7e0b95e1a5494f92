package weavetest

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/iov-one/lockbank"
)

var seqCondition uint64

// NewCondition returns a new, unique condition. Each call returns a different
// condition so that tests can create as many identities as they need.
func NewCondition() lockbank.Condition {
	id := make([]byte, 8)
	binary.BigEndian.PutUint64(id, atomic.AddUint64(&seqCondition, 1))
	return lockbank.NewCondition("weavetest", "seq", id)
}

// SequenceID returns an encoded sequence value, the same way the orm package
// encodes them.
func SequenceID(n uint64) []byte {
	id := make([]byte, 8)
	binary.BigEndian.PutUint64(id, n)
	return id
}

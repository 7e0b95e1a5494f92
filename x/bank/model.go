package bank

import (
	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/errors"
	"github.com/iov-one/lockbank/orm"
)

const (
	// BucketName is where the bank singleton is stored.
	BucketName = "bank"
	// OwnerLocksBucketName is where the lock IDs of each owner are stored.
	OwnerLocksBucketName = "ownlocks"
	// LockIndexBucketName is where the position of each lock in its owner
	// list is stored.
	LockIndexBucketName = "lockidx"
)

var bankKey = []byte("main")

// Bank collects early withdrawal penalties of the locks created through it.
type Bank struct {
	Metadata *lockbank.Metadata `json:"metadata"`
	// Owner deployed the bank and is the only one allowed to sweep it.
	Owner lockbank.Address `json:"owner"`
	// Address of the wallet collecting the penalties.
	Address lockbank.Address `json:"address"`
}

var _ orm.Model = (*Bank)(nil)

// Validate ensures the bank is valid.
func (b *Bank) Validate() error {
	if err := b.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := b.Owner.Validate(); err != nil {
		return errors.Field("Owner", err, "invalid owner")
	}
	if err := b.Address.Validate(); err != nil {
		return errors.Field("Address", err, "invalid address")
	}
	return nil
}

// Condition returns the condition of the bank wallet.
func Condition() lockbank.Condition {
	return lockbank.NewCondition("bank", "main", bankKey)
}

// OwnerLocks lists the IDs of all locks created by a single owner, in
// creation order.
type OwnerLocks struct {
	Metadata *lockbank.Metadata `json:"metadata"`
	Locks    orm.MultiRef       `json:"locks"`
}

var _ orm.Model = (*OwnerLocks)(nil)

// Validate ensures the list is valid.
func (o *OwnerLocks) Validate() error {
	if err := o.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := o.Locks.Validate(); err != nil {
		return errors.Field("Locks", err, "invalid lock list")
	}
	return nil
}

// LockIndex is the position of a lock in its owner list.
type LockIndex struct {
	Metadata *lockbank.Metadata `json:"metadata"`
	Position int64              `json:"position"`
}

var _ orm.Model = (*LockIndex)(nil)

// Validate ensures the index is valid.
func (i *LockIndex) Validate() error {
	if err := i.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if i.Position < 0 {
		return errors.Field("Position", errors.ErrInput, "negative position")
	}
	return nil
}

// lockIndexKey builds the key of a lock index entry. Lock IDs have a fixed
// length so the key is unambiguous.
func lockIndexKey(lockID []byte, owner lockbank.Address) []byte {
	key := make([]byte, 0, len(lockID)+len(owner))
	key = append(key, lockID...)
	return append(key, owner...)
}

// NewBucket returns a bucket for storing the bank singleton.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}

// NewOwnerLocksBucket returns a bucket for storing lock lists, keyed by the
// owner address.
func NewOwnerLocksBucket() orm.ModelBucket {
	return orm.NewModelBucket(OwnerLocksBucketName)
}

// NewLockIndexBucket returns a bucket for storing lock positions, keyed by
// the lock ID followed by the owner address.
func NewLockIndexBucket() orm.ModelBucket {
	return orm.NewModelBucket(LockIndexBucketName)
}

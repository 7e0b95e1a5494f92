package timelock

import (
	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/coin"
	"github.com/iov-one/lockbank/errors"
	"github.com/iov-one/lockbank/orm"
)

const (
	// BucketName is where the locks are stored.
	BucketName = "tlock"
)

// PenaltyRate is the part of the locked value that is taken when withdrawing
// before the unlock time.
var PenaltyRate = lockbank.Fraction{Numerator: 10, Denominator: 100}

// Lock is a time locked deposit.
type Lock struct {
	Metadata *lockbank.Metadata `json:"metadata"`
	// Owner deposited the value and is the only one allowed to withdraw it.
	Owner lockbank.Address `json:"owner"`
	// UnlockTime is the moment after which the value can be withdrawn
	// without a penalty.
	UnlockTime lockbank.UnixTime `json:"unlock_time"`
	Label      string            `json:"label"`
	// Bank receives the early withdrawal penalty. Empty for a
	// standalone lock.
	Bank lockbank.Address `json:"bank,omitempty"`
	// Amount is the value originally deposited.
	Amount coin.Coin `json:"amount"`
	// Balance is the value currently held. It is equal to the Amount until
	// the lock is withdrawn and zero afterwards.
	Balance coin.Coin `json:"balance"`
	// Address of the wallet holding the locked value.
	Address lockbank.Address `json:"address"`
}

var _ orm.Model = (*Lock)(nil)

// Validate ensures the lock is valid.
func (l *Lock) Validate() error {
	if err := l.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := l.Owner.Validate(); err != nil {
		return errors.Field("Owner", err, "invalid owner")
	}
	if l.UnlockTime <= 0 {
		return errors.Field("UnlockTime", errors.ErrInput, "unlock time is required")
	}
	if len(l.Bank) != 0 {
		if err := l.Bank.Validate(); err != nil {
			return errors.Field("Bank", err, "invalid bank")
		}
	}
	if l.Amount.IsZero() {
		return errors.Field("Amount", errors.ErrAmount, "amount must be positive")
	}
	if !l.Balance.IsZero() && !l.Balance.Equals(l.Amount) {
		return errors.Field("Balance", errors.ErrState, "balance must be the full amount or zero")
	}
	if err := l.Address.Validate(); err != nil {
		return errors.Field("Address", err, "invalid address")
	}
	return nil
}

// IsWithdrawn returns true once the lock value was paid out.
func (l *Lock) IsWithdrawn() bool {
	return l.Balance.IsZero()
}

// Condition calculates the condition of the wallet holding the value of a
// lock with given ID.
func Condition(id []byte) lockbank.Condition {
	return lockbank.NewCondition("timelock", "seq", id)
}

var lockSeq = orm.NewSequence(BucketName, "id")

// NewBucket returns a bucket for storing locks, keyed by the lock ID.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}

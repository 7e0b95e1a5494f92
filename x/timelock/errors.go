package timelock

import "github.com/iov-one/lockbank/errors"

// timelock takes 1300-1309
var (
	// ErrInvalidUnlockTime is returned when a lock is created with an
	// unlock time that is not after the current block time.
	ErrInvalidUnlockTime = errors.Register(1300, "unlock time should be in the future")

	// ErrNotOwner is returned when anyone but the lock owner attempts to
	// withdraw the funds.
	ErrNotOwner = errors.Register(1301, "not owner")

	// ErrZeroBalance is returned when withdrawing from an already emptied
	// lock.
	ErrZeroBalance = errors.Register(1302, "zero balance")
)

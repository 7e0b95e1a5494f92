package timelock

import (
	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/coin"
	"github.com/iov-one/lockbank/errors"
	"github.com/iov-one/lockbank/orm"
	"github.com/iov-one/lockbank/store"
	"github.com/iov-one/lockbank/x"
	"github.com/iov-one/lockbank/x/cash"
)

// Controller implements the time lock operations. Every operation is atomic,
// either all changes are applied or none.
type Controller struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	cash   cash.CoinMover
}

// NewController returns a controller that authenticates callers with given
// authenticator and moves the locked value using given mover.
func NewController(auth x.Authenticator, mover cash.CoinMover) Controller {
	return Controller{
		auth:   auth,
		bucket: NewBucket(),
		cash:   mover,
	}
}

// Create locks the amount taken from the caller wallet until the unlock time.
// Bank is the address receiving the early withdrawal penalty and may be
// empty. The ID of the new lock is returned.
func (c Controller) Create(
	ctx lockbank.Context,
	db lockbank.KVStore,
	unlockTime lockbank.UnixTime,
	label string,
	bank lockbank.Address,
	amount coin.Coin,
) ([]byte, error) {
	owner, err := x.Caller(ctx, c.auth)
	if err != nil {
		return nil, err
	}
	if !lockbank.InTheFuture(ctx, unlockTime) {
		return nil, errors.Wrapf(ErrInvalidUnlockTime, "unlock time %d, now %d",
			unlockTime, lockbank.AsUnixTime(lockbank.MustBlockTime(ctx)))
	}
	if amount.IsZero() {
		return nil, errors.Wrap(errors.ErrAmount, "cannot lock zero value")
	}
	if len(bank) != 0 {
		if err := bank.Validate(); err != nil {
			return nil, errors.Wrap(err, "bank")
		}
	} else {
		conf, err := LoadConfiguration(db)
		if err != nil {
			return nil, err
		}
		if conf.OrphanPenalty == OrphanReject {
			return nil, errors.Wrap(errors.ErrInput, "lock without a bank is not allowed")
		}
	}

	var id []byte
	err = store.Savepoint(db, func(db lockbank.KVStore) error {
		key, err := lockSeq.NextVal(db)
		if err != nil {
			return errors.Wrap(err, "cannot acquire key")
		}
		lock := &Lock{
			Metadata:   &lockbank.Metadata{Schema: 1},
			Owner:      owner,
			UnlockTime: unlockTime,
			Label:      label,
			Bank:       bank,
			Amount:     amount,
			Balance:    amount,
			Address:    Condition(key).Address(),
		}
		if _, err := c.bucket.Put(db, key, lock); err != nil {
			return errors.Wrap(err, "cannot store lock")
		}
		if err := c.cash.MoveCoins(db, owner, lock.Address, amount); err != nil {
			return errors.Wrap(err, "deposit")
		}
		id = key
		return nil
	})
	if err != nil {
		return nil, err
	}

	lockbank.GetLogger(ctx).Info("lock created",
		"id", orm.DecodeSequence(id),
		"owner", owner,
		"amount", amount,
		"unlock", unlockTime)
	return id, nil
}

// Lock returns the lock with given ID.
func (c Controller) Lock(db lockbank.ReadOnlyKVStore, id []byte) (*Lock, error) {
	var lock Lock
	if err := c.bucket.One(db, id, &lock); err != nil {
		return nil, errors.Wrapf(err, "lock %X", id)
	}
	return &lock, nil
}

// Withdraw pays out the whole lock balance to its owner. Only the owner can
// withdraw. A withdrawal before the unlock time is penalized and the penalty
// is sent to the bank of the lock.
//
// The lock balance is cleared before any value is moved, so that a transfer
// that calls back into Withdraw finds an empty lock.
func (c Controller) Withdraw(ctx lockbank.Context, db lockbank.KVStore, id []byte) (*Withdrawal, error) {
	var event *Withdrawal
	err := store.Savepoint(db, func(db lockbank.KVStore) error {
		lock, err := c.Lock(db, id)
		if err != nil {
			return err
		}
		caller, err := x.Caller(ctx, c.auth)
		if err != nil {
			return err
		}
		if !caller.Equals(lock.Owner) {
			return errors.Wrapf(ErrNotOwner, "caller %s", caller)
		}
		if lock.Balance.IsZero() {
			return errors.Wrapf(ErrZeroBalance, "lock %X", id)
		}

		now := lockbank.MustBlockTime(ctx)
		balance := lock.Balance
		penalty, payout := coin.Coin{}, balance
		if !lockbank.IsExpired(ctx, lock.UnlockTime) {
			penalty, payout, err = coin.Split(balance, PenaltyRate)
			if err != nil {
				return errors.Wrap(err, "penalty")
			}
		}

		penaltyDest := lock.Bank
		if len(penaltyDest) == 0 && !penalty.IsZero() {
			conf, err := LoadConfiguration(db)
			if err != nil {
				return err
			}
			if conf.OrphanPenalty == OrphanOwner {
				penalty, payout = coin.Coin{}, balance
			} else {
				penaltyDest = conf.BurnAddress
			}
		}

		lock.Balance = coin.Coin{}
		if _, err := c.bucket.Put(db, id, lock); err != nil {
			return errors.Wrap(err, "cannot store lock")
		}

		if !payout.IsZero() {
			if err := c.cash.MoveCoins(db, lock.Address, lock.Owner, payout); err != nil {
				return errors.Wrap(err, "payout")
			}
		}
		if !penalty.IsZero() {
			if err := c.cash.MoveCoins(db, lock.Address, penaltyDest, penalty); err != nil {
				return errors.Wrap(err, "penalty")
			}
		}

		event = &Withdrawal{
			LockID:    id,
			Owner:     lock.Owner,
			Amount:    payout,
			Penalty:   penalty,
			Timestamp: lockbank.AsUnixTime(now),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	lockbank.EmitEvent(ctx, event)
	lockbank.GetLogger(ctx).Info("lock withdrawn",
		"id", orm.DecodeSequence(id),
		"owner", event.Owner,
		"amount", event.Amount,
		"penalty", event.Penalty)
	return event, nil
}

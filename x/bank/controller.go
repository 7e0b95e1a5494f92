package bank

import (
	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/coin"
	"github.com/iov-one/lockbank/errors"
	"github.com/iov-one/lockbank/orm"
	"github.com/iov-one/lockbank/store"
	"github.com/iov-one/lockbank/x"
	"github.com/iov-one/lockbank/x/cash"
	"github.com/iov-one/lockbank/x/timelock"
)

// Controller implements the bank operations. All state of the bank is kept in
// the store passed to each operation.
type Controller struct {
	auth       x.Authenticator
	cash       cash.Controller
	locks      timelock.Controller
	banks      orm.ModelBucket
	ownerLocks orm.ModelBucket
	lockIndex  orm.ModelBucket
}

// NewController returns a bank controller. Locks created through the bank
// are managed by a timelock controller sharing the same authenticator and
// wallets.
func NewController(auth x.Authenticator, cashctrl cash.Controller) Controller {
	return Controller{
		auth:       auth,
		cash:       cashctrl,
		locks:      timelock.NewController(auth, cashctrl),
		banks:      NewBucket(),
		ownerLocks: NewOwnerLocksBucket(),
		lockIndex:  NewLockIndexBucket(),
	}
}

// Deploy creates the bank, owned by the caller. A bank can be deployed only
// once.
func (c Controller) Deploy(ctx lockbank.Context, db lockbank.KVStore) (*Bank, error) {
	owner, err := x.Caller(ctx, c.auth)
	if err != nil {
		return nil, err
	}
	switch err := c.banks.Has(db, bankKey); {
	case err == nil:
		return nil, errors.Wrap(errors.ErrDuplicate, "bank already deployed")
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	bank := &Bank{
		Metadata: &lockbank.Metadata{Schema: 1},
		Owner:    owner,
		Address:  Condition().Address(),
	}
	if _, err := c.banks.Put(db, bankKey, bank); err != nil {
		return nil, errors.Wrap(err, "cannot store bank")
	}
	lockbank.GetLogger(ctx).Info("bank deployed", "owner", owner, "address", bank.Address)
	return bank, nil
}

// Bank returns the deployed bank or ErrNotFound.
func (c Controller) Bank(db lockbank.ReadOnlyKVStore) (*Bank, error) {
	var b Bank
	if err := c.banks.One(db, bankKey, &b); err != nil {
		return nil, errors.Wrap(err, "bank not deployed")
	}
	return &b, nil
}

// Owner returns the address of the bank owner.
func (c Controller) Owner(db lockbank.ReadOnlyKVStore) (lockbank.Address, error) {
	b, err := c.Bank(db)
	if err != nil {
		return nil, err
	}
	return b.Owner, nil
}

// Balance returns the total value held by the bank.
func (c Controller) Balance(db lockbank.ReadOnlyKVStore) (coin.Coin, error) {
	b, err := c.Bank(db)
	if err != nil {
		return coin.Coin{}, err
	}
	return c.cash.Balance(db, b.Address)
}

// LockFunds creates a lock owned by the caller, with the bank as the penalty
// receiver, and registers it in the caller's lock list. The ID of the new
// lock is returned.
func (c Controller) LockFunds(
	ctx lockbank.Context,
	db lockbank.KVStore,
	unlockTime lockbank.UnixTime,
	label string,
	amount coin.Coin,
) ([]byte, error) {
	b, err := c.Bank(db)
	if err != nil {
		return nil, err
	}
	owner, err := x.Caller(ctx, c.auth)
	if err != nil {
		return nil, err
	}

	var id []byte
	err = store.Savepoint(db, func(db lockbank.KVStore) error {
		lockID, err := c.locks.Create(ctx, db, unlockTime, label, b.Address, amount)
		if err != nil {
			return err
		}

		list, err := c.loadOwnerLocks(db, owner)
		if err != nil {
			return err
		}
		pos, err := list.Locks.Append(lockID)
		if err != nil {
			return errors.Wrapf(err, "register lock %X", lockID)
		}
		if _, err := c.ownerLocks.Put(db, owner, list); err != nil {
			return errors.Wrap(err, "cannot store owner locks")
		}

		idx := &LockIndex{
			Metadata: &lockbank.Metadata{Schema: 1},
			Position: int64(pos),
		}
		if _, err := c.lockIndex.Put(db, lockIndexKey(lockID, owner), idx); err != nil {
			return errors.Wrap(err, "cannot store lock index")
		}
		id = lockID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return id, nil
}

// OwnerLocksLength returns the number of locks created by given owner through
// the bank.
func (c Controller) OwnerLocksLength(db lockbank.ReadOnlyKVStore, owner lockbank.Address) (int, error) {
	list, err := c.loadOwnerLocks(db, owner)
	if err != nil {
		return 0, err
	}
	return list.Locks.Len(), nil
}

// UserLocks returns the IDs of all locks created by given owner through the
// bank, in creation order.
func (c Controller) UserLocks(db lockbank.ReadOnlyKVStore, owner lockbank.Address) ([][]byte, error) {
	list, err := c.loadOwnerLocks(db, owner)
	if err != nil {
		return nil, err
	}
	return list.Locks.Refs, nil
}

// LockIndex returns the position of the lock in the owner's lock list. It
// returns ErrNotFound if the lock was not created by that owner through the
// bank.
func (c Controller) LockIndex(db lockbank.ReadOnlyKVStore, lockID []byte, owner lockbank.Address) (int, error) {
	var idx LockIndex
	if err := c.lockIndex.One(db, lockIndexKey(lockID, owner), &idx); err != nil {
		return 0, errors.Wrapf(err, "lock %X of %s", lockID, owner)
	}
	return int(idx.Position), nil
}

// LockDetails returns the lock registered for given owner. It returns
// ErrNotFound if the lock was not created by that owner through the bank.
func (c Controller) LockDetails(db lockbank.ReadOnlyKVStore, lockID []byte, owner lockbank.Address) (*timelock.Lock, error) {
	if err := c.lockIndex.Has(db, lockIndexKey(lockID, owner)); err != nil {
		return nil, errors.Wrapf(err, "lock %X of %s", lockID, owner)
	}
	return c.locks.Lock(db, lockID)
}

// WithdrawLock withdraws the lock on behalf of the caller. It behaves exactly
// like a direct timelock withdrawal.
func (c Controller) WithdrawLock(ctx lockbank.Context, db lockbank.KVStore, lockID []byte) (*timelock.Withdrawal, error) {
	return c.locks.Withdraw(ctx, db, lockID)
}

// WithdrawBank moves the whole bank balance to the bank owner. Only the owner
// can sweep the bank. Sweeping an empty bank succeeds and moves nothing.
func (c Controller) WithdrawBank(ctx lockbank.Context, db lockbank.KVStore) (*Sweep, error) {
	var event *Sweep
	err := store.Savepoint(db, func(db lockbank.KVStore) error {
		b, err := c.Bank(db)
		if err != nil {
			return err
		}
		caller, err := x.Caller(ctx, c.auth)
		if err != nil {
			return err
		}
		if !caller.Equals(b.Owner) {
			return errors.Wrapf(timelock.ErrNotOwner, "caller %s", caller)
		}

		amount, err := c.cash.Balance(db, b.Address)
		if err != nil {
			return err
		}
		if !amount.IsZero() {
			if err := c.cash.MoveCoins(db, b.Address, b.Owner, amount); err != nil {
				return errors.Wrap(err, "sweep")
			}
		}
		event = &Sweep{
			Owner:     b.Owner,
			Amount:    amount,
			Timestamp: lockbank.AsUnixTime(lockbank.MustBlockTime(ctx)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	lockbank.EmitEvent(ctx, event)
	lockbank.GetLogger(ctx).Info("bank swept", "owner", event.Owner, "amount", event.Amount)
	return event, nil
}

func (c Controller) loadOwnerLocks(db lockbank.ReadOnlyKVStore, owner lockbank.Address) (*OwnerLocks, error) {
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	var list OwnerLocks
	switch err := c.ownerLocks.One(db, owner, &list); {
	case err == nil:
		return &list, nil
	case errors.ErrNotFound.Is(err):
		return &OwnerLocks{Metadata: &lockbank.Metadata{Schema: 1}}, nil
	default:
		return nil, err
	}
}

package timelock

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/coin"
	"github.com/iov-one/lockbank/errors"
	"github.com/iov-one/lockbank/store"
	"github.com/iov-one/lockbank/weavetest"
	"github.com/iov-one/lockbank/x/cash"
	"github.com/iov-one/lockbank/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	oneGwei = 1000000000
	oneYear = 365 * 24 * time.Hour
)

var (
	auth = sigs.Authenticate{}
	now  = time.Date(2019, 4, 4, 11, 35, 40, 0, time.UTC)
)

func ctxAt(t time.Time, signer lockbank.Condition) lockbank.Context {
	ctx := lockbank.WithBlockTime(context.Background(), t)
	if signer != nil {
		ctx = sigs.WithSigners(ctx, signer)
	}
	return ctx
}

type fixture struct {
	db    lockbank.CacheableKVStore
	cash  cash.Controller
	ctrl  Controller
	owner lockbank.Condition
	bank  lockbank.Address
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:    store.MemStore(),
		cash:  cash.NewController(cash.NewBucket()),
		owner: weavetest.NewCondition(),
		bank:  lockbank.NewCondition("bank", "main", []byte("test")).Address(),
	}
	f.ctrl = NewController(auth, f.cash)
	require.NoError(t, f.cash.CoinMint(f.db, f.owner.Address(), coin.NewCoin(10*oneGwei)))
	return f
}

func (f *fixture) balance(t *testing.T, addr lockbank.Address) uint64 {
	t.Helper()
	c, err := f.cash.Balance(f.db, addr)
	require.NoError(t, err)
	return c.Amount
}

func (f *fixture) create(t *testing.T, unlock time.Time, amount uint64) []byte {
	t.Helper()
	id, err := f.ctrl.Create(ctxAt(now, f.owner), f.db, lockbank.AsUnixTime(unlock), "savings", f.bank, coin.NewCoin(amount))
	require.NoError(t, err)
	return id
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	unlock := now.Add(oneYear)

	id := f.create(t, unlock, oneGwei)

	lock, err := f.ctrl.Lock(f.db, id)
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(oneGwei), lock.Balance)
	assert.Equal(t, coin.NewCoin(oneGwei), lock.Amount)
	assert.Equal(t, lockbank.AsUnixTime(unlock), lock.UnlockTime)
	assert.Equal(t, f.owner.Address(), lock.Owner)
	assert.Equal(t, "savings", lock.Label)
	assert.Equal(t, f.bank, lock.Bank)
	assert.Equal(t, Condition(id).Address(), lock.Address)
	assert.False(t, lock.IsWithdrawn())

	// value moved from the owner to the lock wallet
	assert.Equal(t, uint64(oneGwei), f.balance(t, lock.Address))
	assert.Equal(t, uint64(9*oneGwei), f.balance(t, f.owner.Address()))

	// IDs are unique and increasing
	id2 := f.create(t, unlock, 1)
	lock2, err := f.ctrl.Lock(f.db, id2)
	require.NoError(t, err)
	assert.NotEqual(t, lock.Address, lock2.Address)
	assert.Equal(t, 1, bytes.Compare(id2, id))
}

func TestCreateFreeFormLabel(t *testing.T) {
	labels := map[string]string{
		"empty":         "",
		"long":          strings.Repeat("savings ", 1024),
		"invalid utf-8": "\xff\xfe label",
	}

	for testName, label := range labels {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			id, err := f.ctrl.Create(ctxAt(now, f.owner), f.db, lockbank.AsUnixTime(now.Add(time.Hour)), label, f.bank, coin.NewCoin(1))
			require.NoError(t, err)

			lock, err := f.ctrl.Lock(f.db, id)
			require.NoError(t, err)
			assert.Equal(t, label, lock.Label)
		})
	}
}

func TestCreateFailures(t *testing.T) {
	cases := map[string]struct {
		unlock  time.Time
		label   string
		bank    lockbank.Address
		amount  uint64
		signer  bool
		wantErr *errors.Error
	}{
		"unlock time equal to now": {
			unlock:  now,
			amount:  oneGwei,
			signer:  true,
			wantErr: ErrInvalidUnlockTime,
		},
		"unlock time in the past": {
			unlock:  now.Add(-time.Second),
			amount:  oneGwei,
			signer:  true,
			wantErr: ErrInvalidUnlockTime,
		},
		"unlock time far in the past": {
			unlock:  time.Unix(1, 0),
			amount:  oneGwei,
			signer:  true,
			wantErr: ErrInvalidUnlockTime,
		},
		"zero amount": {
			unlock:  now.Add(time.Hour),
			amount:  0,
			signer:  true,
			wantErr: errors.ErrAmount,
		},
		"insufficient funds": {
			unlock:  now.Add(time.Hour),
			amount:  10*oneGwei + 1,
			signer:  true,
			wantErr: errors.ErrAmount,
		},
		"invalid bank address": {
			unlock:  now.Add(time.Hour),
			bank:    lockbank.Address("bank"),
			amount:  1,
			signer:  true,
			wantErr: errors.ErrInput,
		},
		"no signer": {
			unlock:  now.Add(time.Hour),
			amount:  1,
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			var signer lockbank.Condition
			if tc.signer {
				signer = f.owner
			}
			_, err := f.ctrl.Create(ctxAt(now, signer), f.db, lockbank.AsUnixTime(tc.unlock), tc.label, tc.bank, coin.NewCoin(tc.amount))
			assert.True(t, tc.wantErr.Is(err), "got %+v", err)

			// nothing was stored
			assert.Equal(t, uint64(10*oneGwei), f.balance(t, f.owner.Address()))
			_, err = f.ctrl.Lock(f.db, weavetest.SequenceID(1))
			assert.True(t, errors.ErrNotFound.Is(err))
		})
	}
}

func TestCreateInvalidUnlockTimeMessage(t *testing.T) {
	f := newFixture(t)
	_, err := f.ctrl.Create(ctxAt(now, f.owner), f.db, lockbank.AsUnixTime(now), "", nil, coin.NewCoin(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unlock time should be in the future")
}

func TestWithdraw(t *testing.T) {
	cases := map[string]struct {
		deposit     uint64
		at          time.Time
		wantPayout  uint64
		wantPenalty uint64
	}{
		"immediately after creation": {
			deposit:     oneGwei,
			at:          now,
			wantPayout:  900000000,
			wantPenalty: 100000000,
		},
		"one second before unlock": {
			deposit:     oneGwei,
			at:          now.Add(oneYear - time.Second),
			wantPayout:  900000000,
			wantPenalty: 100000000,
		},
		"exactly at unlock": {
			deposit:    oneGwei,
			at:         now.Add(oneYear),
			wantPayout: oneGwei,
		},
		"long after unlock": {
			deposit:    oneGwei,
			at:         now.Add(2 * oneYear),
			wantPayout: oneGwei,
		},
		"penalty rounds down": {
			deposit:     19,
			at:          now,
			wantPayout:  18,
			wantPenalty: 1,
		},
		"value too small for a penalty": {
			deposit:    9,
			at:         now,
			wantPayout: 9,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			id := f.create(t, now.Add(oneYear), tc.deposit)

			em := lockbank.NewEventManager()
			ctx := lockbank.WithEventManager(ctxAt(tc.at, f.owner), em)
			event, err := f.ctrl.Withdraw(ctx, f.db, id)
			require.NoError(t, err)

			want := &Withdrawal{
				LockID:    id,
				Owner:     f.owner.Address(),
				Amount:    coin.NewCoin(tc.wantPayout),
				Penalty:   coin.NewCoin(tc.wantPenalty),
				Timestamp: lockbank.AsUnixTime(tc.at),
			}
			assert.Equal(t, want, event)
			assert.Equal(t, []lockbank.Event{want}, em.Events())
			assert.Equal(t, tc.wantPenalty != 0, event.Early())

			lock, err := f.ctrl.Lock(f.db, id)
			require.NoError(t, err)
			assert.True(t, lock.IsWithdrawn())
			assert.Equal(t, coin.NewCoin(tc.deposit), lock.Amount)

			assert.Equal(t, uint64(0), f.balance(t, lock.Address))
			assert.Equal(t, 10*oneGwei-tc.deposit+tc.wantPayout, f.balance(t, f.owner.Address()))
			assert.Equal(t, tc.wantPenalty, f.balance(t, f.bank))
		})
	}
}

func TestWithdrawTwice(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, now.Add(oneYear), oneGwei)

	_, err := f.ctrl.Withdraw(ctxAt(now, f.owner), f.db, id)
	require.NoError(t, err)
	ownerBalance := f.balance(t, f.owner.Address())
	bankBalance := f.balance(t, f.bank)

	for i := 0; i < 3; i++ {
		em := lockbank.NewEventManager()
		ctx := lockbank.WithEventManager(ctxAt(now.Add(2*oneYear), f.owner), em)
		_, err := f.ctrl.Withdraw(ctx, f.db, id)
		assert.True(t, ErrZeroBalance.Is(err), "got %+v", err)
		assert.Empty(t, em.Events())
	}

	assert.Equal(t, ownerBalance, f.balance(t, f.owner.Address()))
	assert.Equal(t, bankBalance, f.balance(t, f.bank))
}

func TestWithdrawNotOwner(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, now.Add(oneYear), oneGwei)
	stranger := weavetest.NewCondition()

	// the owner check applies before and after the unlock time
	for _, at := range []time.Time{now, now.Add(2 * oneYear)} {
		_, err := f.ctrl.Withdraw(ctxAt(at, stranger), f.db, id)
		assert.True(t, ErrNotOwner.Is(err), "got %+v", err)
		assert.Contains(t, err.Error(), stranger.Address().String())
	}

	lock, err := f.ctrl.Lock(f.db, id)
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(oneGwei), lock.Balance)
	assert.Equal(t, uint64(oneGwei), f.balance(t, lock.Address))
}

func TestWithdrawNotOwnerOfEmptyLock(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, now.Add(oneYear), oneGwei)
	_, err := f.ctrl.Withdraw(ctxAt(now, f.owner), f.db, id)
	require.NoError(t, err)

	// ownership is checked before the balance
	_, err = f.ctrl.Withdraw(ctxAt(now, weavetest.NewCondition()), f.db, id)
	assert.True(t, ErrNotOwner.Is(err), "got %+v", err)
}

func TestWithdrawMissingLock(t *testing.T) {
	f := newFixture(t)
	_, err := f.ctrl.Withdraw(ctxAt(now, f.owner), f.db, weavetest.SequenceID(42))
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)
}

// reentrantMover calls back into Withdraw while moving the first payment.
type reentrantMover struct {
	cash.CoinMover
	ctrl     *Controller
	ctx      lockbank.Context
	id       []byte
	calls    int
	innerErr error
}

func (m *reentrantMover) MoveCoins(db lockbank.KVStore, src, dest lockbank.Address, amount coin.Coin) error {
	m.calls++
	if m.calls == 1 {
		_, m.innerErr = m.ctrl.Withdraw(m.ctx, db, m.id)
	}
	return m.CoinMover.MoveCoins(db, src, dest, amount)
}

func TestWithdrawReentrancy(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, now.Add(oneYear), oneGwei)

	mover := &reentrantMover{CoinMover: f.cash, id: id}
	ctrl := NewController(auth, mover)
	mover.ctrl = &ctrl
	mover.ctx = ctxAt(now, f.owner)

	em := lockbank.NewEventManager()
	ctx := lockbank.WithEventManager(mover.ctx, em)
	event, err := ctrl.Withdraw(ctx, f.db, id)
	require.NoError(t, err)

	assert.True(t, ErrZeroBalance.Is(mover.innerErr), "got %+v", mover.innerErr)
	assert.Equal(t, coin.NewCoin(900000000), event.Amount)
	assert.Len(t, em.Events(), 1)

	// settled exactly once
	assert.Equal(t, uint64(9*oneGwei+900000000), f.balance(t, f.owner.Address()))
	assert.Equal(t, uint64(100000000), f.balance(t, f.bank))
}

// failingMover refuses to send any value to the blocked address.
type failingMover struct {
	cash.CoinMover
	blocked lockbank.Address
}

func (m failingMover) MoveCoins(db lockbank.KVStore, src, dest lockbank.Address, amount coin.Coin) error {
	if dest.Equals(m.blocked) {
		return errors.Wrap(errors.ErrAmount, "blocked")
	}
	return m.CoinMover.MoveCoins(db, src, dest, amount)
}

func TestWithdrawFailingPenaltyTransfer(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, now.Add(oneYear), oneGwei)

	ctrl := NewController(auth, failingMover{CoinMover: f.cash, blocked: f.bank})
	em := lockbank.NewEventManager()
	ctx := lockbank.WithEventManager(ctxAt(now, f.owner), em)
	_, err := ctrl.Withdraw(ctx, f.db, id)
	assert.True(t, errors.ErrAmount.Is(err), "got %+v", err)
	assert.Empty(t, em.Events())

	// everything rolled back, including the payout that succeeded
	lock, err := f.ctrl.Lock(f.db, id)
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(oneGwei), lock.Balance)
	assert.Equal(t, uint64(oneGwei), f.balance(t, lock.Address))
	assert.Equal(t, uint64(9*oneGwei), f.balance(t, f.owner.Address()))
	assert.Equal(t, uint64(0), f.balance(t, f.bank))

	// the lock can still be withdrawn
	_, err = f.ctrl.Withdraw(ctxAt(now, f.owner), f.db, id)
	require.NoError(t, err)
}

func TestOrphanPenalty(t *testing.T) {
	burn := weavetest.NewCondition().Address()

	cases := map[string]struct {
		conf        *Configuration
		wantPayout  uint64
		wantBurned  uint64
		wantZeroAdd uint64
	}{
		"default burns to the zero address": {
			conf:        nil,
			wantPayout:  900000000,
			wantZeroAdd: 100000000,
		},
		"burn to a configured address": {
			conf: &Configuration{
				Metadata:      &lockbank.Metadata{Schema: 1},
				OrphanPenalty: OrphanBurn,
				BurnAddress:   burn,
			},
			wantPayout: 900000000,
			wantBurned: 100000000,
		},
		"owner policy waives the penalty": {
			conf: &Configuration{
				Metadata:      &lockbank.Metadata{Schema: 1},
				OrphanPenalty: OrphanOwner,
				BurnAddress:   burn,
			},
			wantPayout: oneGwei,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			if tc.conf != nil {
				require.NoError(t, SaveConfiguration(f.db, tc.conf))
			}
			id, err := f.ctrl.Create(ctxAt(now, f.owner), f.db, lockbank.AsUnixTime(now.Add(oneYear)), "", nil, coin.NewCoin(oneGwei))
			require.NoError(t, err)

			event, err := f.ctrl.Withdraw(ctxAt(now, f.owner), f.db, id)
			require.NoError(t, err)
			assert.Equal(t, coin.NewCoin(tc.wantPayout), event.Amount)
			assert.Equal(t, coin.NewCoin(oneGwei-tc.wantPayout), event.Penalty)

			assert.Equal(t, 9*oneGwei+tc.wantPayout, f.balance(t, f.owner.Address()))
			assert.Equal(t, tc.wantBurned, f.balance(t, burn))
			assert.Equal(t, tc.wantZeroAdd, f.balance(t, make(lockbank.Address, lockbank.AddressLength)))
		})
	}
}

func TestOrphanPenaltyReject(t *testing.T) {
	f := newFixture(t)
	conf := DefaultConfiguration()
	conf.OrphanPenalty = OrphanReject
	require.NoError(t, SaveConfiguration(f.db, &conf))

	_, err := f.ctrl.Create(ctxAt(now, f.owner), f.db, lockbank.AsUnixTime(now.Add(oneYear)), "", nil, coin.NewCoin(1))
	assert.True(t, errors.ErrInput.Is(err), "got %+v", err)

	// locks with a bank are still allowed
	f.create(t, now.Add(oneYear), 1)
}

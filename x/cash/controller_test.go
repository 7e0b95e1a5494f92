package cash

import (
	"math"
	"testing"

	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/coin"
	"github.com/iov-one/lockbank/errors"
	"github.com/iov-one/lockbank/store"
	"github.com/iov-one/lockbank/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertBalance(t *testing.T, ctrl Controller, db lockbank.ReadOnlyKVStore, addr lockbank.Address, want uint64) {
	t.Helper()
	got, err := ctrl.Balance(db, addr)
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(want), got, "balance of %s", addr)
}

func TestCoinMint(t *testing.T) {
	kv := store.MemStore()
	addr := weavetest.NewCondition().Address()
	addr2 := weavetest.NewCondition().Address()

	ctrl := NewController(NewBucket())

	assertBalance(t, ctrl, kv, addr, 0)
	assertBalance(t, ctrl, kv, addr2, 0)

	require.NoError(t, ctrl.CoinMint(kv, addr, coin.NewCoin(500)))
	assertBalance(t, ctrl, kv, addr, 500)
	assertBalance(t, ctrl, kv, addr2, 0)

	require.NoError(t, ctrl.CoinMint(kv, addr, coin.NewCoin(100)))
	assertBalance(t, ctrl, kv, addr, 600)

	// overflow is rejected
	err := ctrl.CoinMint(kv, addr, coin.NewCoin(math.MaxUint64))
	assert.True(t, errors.ErrOverflow.Is(err))
	assertBalance(t, ctrl, kv, addr, 600)

	// invalid address is rejected
	err = ctrl.CoinMint(kv, lockbank.Address("short"), coin.NewCoin(1))
	assert.True(t, errors.ErrInput.Is(err))
}

func TestMoveCoins(t *testing.T) {
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()
	carol := weavetest.NewCondition().Address()

	cases := map[string]struct {
		src, dest   lockbank.Address
		amount      uint64
		wantErr     *errors.Error
		wantBalance map[string]uint64
	}{
		"move some": {
			src:         alice,
			dest:        bob,
			amount:      300,
			wantBalance: map[string]uint64{alice.String(): 700, bob.String(): 300},
		},
		"move all": {
			src:         alice,
			dest:        bob,
			amount:      1000,
			wantBalance: map[string]uint64{alice.String(): 0, bob.String(): 1000},
		},
		"insufficient funds": {
			src:         alice,
			dest:        bob,
			amount:      1001,
			wantErr:     errors.ErrAmount,
			wantBalance: map[string]uint64{alice.String(): 1000, bob.String(): 0},
		},
		"empty sender": {
			src:         carol,
			dest:        bob,
			amount:      1,
			wantErr:     errors.ErrAmount,
			wantBalance: map[string]uint64{carol.String(): 0, bob.String(): 0},
		},
		"zero amount": {
			src:         alice,
			dest:        bob,
			amount:      0,
			wantErr:     errors.ErrAmount,
			wantBalance: map[string]uint64{alice.String(): 1000, bob.String(): 0},
		},
		"to self": {
			src:         alice,
			dest:        alice,
			amount:      400,
			wantBalance: map[string]uint64{alice.String(): 1000},
		},
		"invalid destination": {
			src:         alice,
			dest:        lockbank.Address("short"),
			amount:      1,
			wantErr:     errors.ErrInput,
			wantBalance: map[string]uint64{alice.String(): 1000},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			kv := store.MemStore()
			ctrl := NewController(NewBucket())
			require.NoError(t, ctrl.CoinMint(kv, alice, coin.NewCoin(1000)))

			err := ctrl.MoveCoins(kv, tc.src, tc.dest, coin.NewCoin(tc.amount))
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
			} else {
				require.NoError(t, err)
			}

			for _, addr := range []lockbank.Address{alice, bob, carol} {
				want, ok := tc.wantBalance[addr.String()]
				if !ok {
					continue
				}
				assertBalance(t, ctrl, kv, addr, want)
			}
		})
	}
}

func TestMoveCoinsRecipientOverflow(t *testing.T) {
	kv := store.MemStore()
	ctrl := NewController(NewBucket())
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()

	require.NoError(t, ctrl.CoinMint(kv, alice, coin.NewCoin(10)))
	require.NoError(t, ctrl.CoinMint(kv, bob, coin.NewCoin(math.MaxUint64)))

	err := ctrl.MoveCoins(kv, alice, bob, coin.NewCoin(1))
	assert.True(t, errors.ErrOverflow.Is(err))
	assertBalance(t, ctrl, kv, alice, 10)
}

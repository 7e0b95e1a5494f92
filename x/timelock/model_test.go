package timelock

import (
	"testing"

	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/coin"
	"github.com/iov-one/lockbank/errors"
	"github.com/iov-one/lockbank/weavetest"
	"github.com/iov-one/lockbank/weavetest/assert"
)

func TestLockValidate(t *testing.T) {
	owner := weavetest.NewCondition().Address()
	bank := weavetest.NewCondition().Address()
	addr := Condition(weavetest.SequenceID(1)).Address()

	valid := func() *Lock {
		return &Lock{
			Metadata:   &lockbank.Metadata{Schema: 1},
			Owner:      owner,
			UnlockTime: 1554370540,
			Label:      "savings",
			Bank:       bank,
			Amount:     coin.NewCoin(100),
			Balance:    coin.NewCoin(100),
			Address:    addr,
		}
	}

	cases := map[string]struct {
		mutate  func(*Lock)
		field   string
		wantErr *errors.Error
	}{
		"valid": {
			mutate: func(*Lock) {},
		},
		"withdrawn": {
			mutate: func(l *Lock) { l.Balance = coin.Coin{} },
		},
		"standalone": {
			mutate: func(l *Lock) { l.Bank = nil },
		},
		"missing metadata": {
			mutate:  func(l *Lock) { l.Metadata = nil },
			wantErr: errors.ErrEmpty,
		},
		"invalid owner": {
			mutate:  func(l *Lock) { l.Owner = lockbank.Address("x") },
			field:   "Owner",
			wantErr: errors.ErrInput,
		},
		"missing unlock time": {
			mutate:  func(l *Lock) { l.UnlockTime = 0 },
			field:   "UnlockTime",
			wantErr: errors.ErrInput,
		},
		"invalid bank": {
			mutate:  func(l *Lock) { l.Bank = lockbank.Address("x") },
			field:   "Bank",
			wantErr: errors.ErrInput,
		},
		"zero amount": {
			mutate:  func(l *Lock) { l.Amount = coin.Coin{}; l.Balance = coin.Coin{} },
			field:   "Amount",
			wantErr: errors.ErrAmount,
		},
		"partial balance": {
			mutate:  func(l *Lock) { l.Balance = coin.NewCoin(50) },
			field:   "Balance",
			wantErr: errors.ErrState,
		},
		"missing address": {
			mutate:  func(l *Lock) { l.Address = nil },
			field:   "Address",
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			l := valid()
			tc.mutate(l)
			err := l.Validate()
			assert.IsErr(t, tc.wantErr, err)
			if tc.field != "" {
				assert.FieldError(t, err, tc.field, tc.wantErr)
			}
		})
	}
}

func TestConfigurationValidate(t *testing.T) {
	conf := DefaultConfiguration()
	assert.Nil(t, conf.Validate())

	conf.OrphanPenalty = "donate"
	assert.FieldError(t, conf.Validate(), "OrphanPenalty", errors.ErrInput)

	conf = DefaultConfiguration()
	conf.BurnAddress = nil
	assert.FieldError(t, conf.Validate(), "BurnAddress", errors.ErrInput)
}

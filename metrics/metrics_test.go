package metrics

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/coin"
	"github.com/iov-one/lockbank/errors"
	"github.com/iov-one/lockbank/x/bank"
	"github.com/iov-one/lockbank/x/timelock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	reg := NewRegistry()
	c := New()
	c.MustRegister(reg)

	c.ObserveOperation("lock", nil)
	c.ObserveEvents([]lockbank.Event{&timelock.Withdrawal{}})
	c.ObserveEvents([]lockbank.Event{&bank.Sweep{}})

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 4)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	reg := NewRegistry()
	New().MustRegister(reg)
	assert.Panics(t, func() { New().MustRegister(reg) })
}

func TestObserveOperation(t *testing.T) {
	c := New()
	c.ObserveOperation("lock", nil)
	c.ObserveOperation("lock", nil)
	c.ObserveOperation("lock", errors.ErrAmount)
	c.ObserveOperation("withdraw", errors.ErrNotFound)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Operations.WithLabelValues("lock", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Operations.WithLabelValues("lock", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Operations.WithLabelValues("withdraw", "error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.Operations.WithLabelValues("withdraw", "ok")))
}

func TestObserveEvents(t *testing.T) {
	c := New()
	c.ObserveEvents([]lockbank.Event{
		&timelock.Withdrawal{Amount: coin.NewCoin(900), Penalty: coin.NewCoin(100)},
		&timelock.Withdrawal{Amount: coin.NewCoin(50)},
		&timelock.Withdrawal{Amount: coin.NewCoin(9), Penalty: coin.NewCoin(1)},
		&bank.Sweep{Amount: coin.NewCoin(101)},
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Withdrawals.WithLabelValues("early")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Withdrawals.WithLabelValues("ontime")))
	assert.Equal(t, 101.0, testutil.ToFloat64(c.Penalties))
	assert.Equal(t, 101.0, testutil.ToFloat64(c.Swept))
}

func TestWriteTextfile(t *testing.T) {
	dir, err := ioutil.TempDir("", "metrics-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	reg := NewRegistry()
	c := New()
	c.MustRegister(reg)
	c.ObserveOperation("withdraw", nil)
	c.ObserveEvents([]lockbank.Event{
		&timelock.Withdrawal{Amount: coin.NewCoin(900), Penalty: coin.NewCoin(100)},
	})

	path := filepath.Join(dir, "lockbank.prom")
	require.NoError(t, WriteTextfile(path, reg))

	raw, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, `lockbank_operations_total{op="withdraw",result="ok"} 1`)
	assert.Contains(t, out, `lockbank_withdrawals_total{kind="early"} 1`)
	assert.Contains(t, out, "lockbank_penalty_collected_total 100")

	// no temporary files are left behind
	files, err := ioutil.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	err = WriteTextfile(filepath.Join(dir, "missing", "lockbank.prom"), reg)
	assert.True(t, errors.ErrInput.Is(err))
}

package timelock

import (
	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/coin"
)

// Withdrawal is emitted when the value of a lock is paid out.
type Withdrawal struct {
	LockID []byte           `json:"lock_id"`
	Owner  lockbank.Address `json:"owner"`
	// Amount is the value paid to the owner.
	Amount coin.Coin `json:"amount"`
	// Penalty is the value taken for an early withdrawal.
	Penalty   coin.Coin         `json:"penalty"`
	Timestamp lockbank.UnixTime `json:"timestamp"`
}

var _ lockbank.Event = (*Withdrawal)(nil)

// EventType implements lockbank.Event.
func (Withdrawal) EventType() string {
	return "timelock/withdrawal"
}

// Early returns true if the withdrawal was penalized.
func (w Withdrawal) Early() bool {
	return !w.Penalty.IsZero()
}

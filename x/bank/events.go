package bank

import (
	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/coin"
)

// Sweep is emitted when the bank owner withdraws the collected penalties.
type Sweep struct {
	Owner     lockbank.Address  `json:"owner"`
	Amount    coin.Coin         `json:"amount"`
	Timestamp lockbank.UnixTime `json:"timestamp"`
}

var _ lockbank.Event = (*Sweep)(nil)

// EventType implements lockbank.Event.
func (Sweep) EventType() string {
	return "bank/sweep"
}

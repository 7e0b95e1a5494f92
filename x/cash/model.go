package cash

import (
	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/coin"
	"github.com/iov-one/lockbank/errors"
	"github.com/iov-one/lockbank/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the coins owned by a single address.
type Wallet struct {
	Metadata *lockbank.Metadata `json:"metadata"`
	Coins    coin.Coin          `json:"coins"`
}

var _ orm.Model = (*Wallet)(nil)

// Validate requires a metadata. Any coin value is valid.
func (w *Wallet) Validate() error {
	if err := w.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return nil
}

// NewBucket returns a bucket for storing wallets, keyed by the owner address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}

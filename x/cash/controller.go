package cash

import (
	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/coin"
	"github.com/iov-one/lockbank/errors"
	"github.com/iov-one/lockbank/orm"
)

// CoinMover is an interface for moving coins between accounts.
type CoinMover interface {
	// MoveCoins removes funds from the source account and adds them to the
	// destination account. This operation is atomic.
	MoveCoins(db lockbank.KVStore, src, dest lockbank.Address, amount coin.Coin) error
}

// CoinMinter is an interface to create new coins.
type CoinMinter interface {
	CoinMint(db lockbank.KVStore, dest lockbank.Address, amount coin.Coin) error
}

// Balancer is an interface to query the amount of coins held by an address.
type Balancer interface {
	Balance(db lockbank.ReadOnlyKVStore, addr lockbank.Address) (coin.Coin, error)
}

// Controller is the functionality needed by other extensions to work with
// wallets.
type Controller interface {
	CoinMover
	CoinMinter
	Balancer
}

// BaseController is a simple implementation of Controller.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a basic controller implementation.
func NewController(bucket orm.ModelBucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount of coins stored under given address. An address
// that never received any coins holds a zero amount.
func (c BaseController) Balance(db lockbank.ReadOnlyKVStore, addr lockbank.Address) (coin.Coin, error) {
	w, err := c.load(db, addr)
	if err != nil {
		return coin.Coin{}, err
	}
	return w.Coins, nil
}

// MoveCoins moves the given amount from src to dest. If src doesn't have
// sufficient coins, it fails.
func (c BaseController) MoveCoins(db lockbank.KVStore, src, dest lockbank.Address, amount coin.Coin) error {
	if amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	sender, err := c.load(db, src)
	if err != nil {
		return err
	}
	left, err := sender.Coins.Subtract(amount)
	if err != nil {
		return errors.Wrapf(err, "insufficient funds in %s", src)
	}
	if src.Equals(dest) {
		return nil
	}

	recipient, err := c.load(db, dest)
	if err != nil {
		return err
	}
	total, err := recipient.Coins.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "recipient %s", dest)
	}

	sender.Coins = left
	recipient.Coins = total
	if _, err := c.bucket.Put(db, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	if _, err := c.bucket.Put(db, dest, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

// CoinMint attempts to add the given amount of coins to the destination
// address. Fails if it overflows the wallet.
func (c BaseController) CoinMint(db lockbank.KVStore, dest lockbank.Address, amount coin.Coin) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	w, err := c.load(db, dest)
	if err != nil {
		return err
	}
	total, err := w.Coins.Add(amount)
	if err != nil {
		return err
	}
	w.Coins = total
	if _, err := c.bucket.Put(db, dest, w); err != nil {
		return errors.Wrap(err, "save wallet")
	}
	return nil
}

// load returns the wallet stored under given address or an empty one.
func (c BaseController) load(db lockbank.ReadOnlyKVStore, addr lockbank.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{Metadata: &lockbank.Metadata{Schema: 1}}, nil
	default:
		return nil, errors.Wrapf(err, "wallet %s", addr)
	}
}

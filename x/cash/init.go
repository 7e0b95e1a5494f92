package cash

import (
	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/coin"
	"github.com/iov-one/lockbank/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use lockbank.Address, so address in hex, not base64
type GenesisAccount struct {
	Address lockbank.Address `json:"address"`
	Coins   coin.Coin        `json:"coins"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ lockbank.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts lockbank.Options, kv lockbank.KVStore) error {
	accts := []GenesisAccount{}
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	ctrl := NewController(NewBucket())
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := ctrl.CoinMint(kv, acct.Address, acct.Coins); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}

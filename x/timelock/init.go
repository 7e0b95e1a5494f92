package timelock

import (
	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/errors"
	"github.com/iov-one/lockbank/gconf"
)

// Initializer fulfils the Initializer interface to load the timelock
// configuration from the genesis file.
type Initializer struct{}

var _ lockbank.Initializer = Initializer{}

// FromGenesis stores the configuration declared under conf.timelock. Genesis
// without a timelock configuration is valid and the default configuration is
// used.
func (Initializer) FromGenesis(opts lockbank.Options, db lockbank.KVStore) error {
	conf := DefaultConfiguration()
	err := gconf.InitConfig(db, opts, configPkg, &conf)
	if errors.ErrNotFound.Is(err) {
		return nil
	}
	return err
}

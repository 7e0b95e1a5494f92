package timelock

import (
	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/errors"
	"github.com/iov-one/lockbank/gconf"
)

const configPkg = "timelock"

// Orphan penalty policies decide what happens to the early withdrawal penalty
// of a lock that is not attached to any bank.
const (
	// OrphanBurn sends the penalty to the burn address.
	OrphanBurn = "burn"
	// OrphanOwner waives the penalty, the owner receives the full balance.
	OrphanOwner = "owner"
	// OrphanReject forbids creating locks without a bank.
	OrphanReject = "reject"
)

// Configuration of the timelock extension.
type Configuration struct {
	Metadata      *lockbank.Metadata `json:"metadata"`
	OrphanPenalty string             `json:"orphan_penalty"`
	BurnAddress   lockbank.Address   `json:"burn_address"`
}

// DefaultConfiguration is used when no configuration was provided.
func DefaultConfiguration() Configuration {
	return Configuration{
		Metadata:      &lockbank.Metadata{Schema: 1},
		OrphanPenalty: OrphanBurn,
		BurnAddress:   make(lockbank.Address, lockbank.AddressLength),
	}
}

// Validate ensures the configuration is valid.
func (c *Configuration) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	switch c.OrphanPenalty {
	case OrphanBurn, OrphanOwner, OrphanReject:
	default:
		return errors.Field("OrphanPenalty", errors.ErrInput, "unknown policy %q", c.OrphanPenalty)
	}
	if err := c.BurnAddress.Validate(); err != nil {
		return errors.Field("BurnAddress", err, "invalid burn address")
	}
	return nil
}

// SaveConfiguration validates and stores the configuration.
func SaveConfiguration(db gconf.Store, c *Configuration) error {
	return gconf.Save(db, configPkg, c)
}

// LoadConfiguration returns the stored configuration or the default one if
// none was saved.
func LoadConfiguration(db gconf.ReadStore) (Configuration, error) {
	var c Configuration
	switch err := gconf.Load(db, configPkg, &c); {
	case err == nil:
		return c, nil
	case errors.ErrNotFound.Is(err):
		return DefaultConfiguration(), nil
	default:
		return c, errors.Wrap(err, "timelock configuration")
	}
}

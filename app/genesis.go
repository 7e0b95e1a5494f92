package app

import (
	"encoding/json"
	"io/ioutil"
	"regexp"

	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/errors"
)

// Genesis file format.
type Genesis struct {
	ChainID  string           `json:"chain_id"`
	AppState lockbank.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct.
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "unmarshaling genesis file: %s", err)
	}
	return gen, nil
}

// ChainInitializers lets you initialize many extensions with one function.
func ChainInitializers(inits ...lockbank.Initializer) lockbank.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []lockbank.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts lockbank.Options, kv lockbank.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}

//------- storing chainID ---------

const chainIDKey = "_i:chain_id"

var isValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_.-]{4,128}$`).MatchString

// loadChainID returns the chain id stored if any
func loadChainID(kv interface{ Get([]byte) ([]byte, error) }) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv lockbank.KVStore, chainID string) error {
	if !isValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	k := []byte(chainIDKey)
	switch ok, err := kv.Has(k); {
	case err != nil:
		return errors.Wrap(errors.ErrDatabase, err.Error())
	case ok:
		return errors.Wrap(errors.ErrState, "chain id already set")
	}
	return kv.Set(k, []byte(chainID))
}

package lockbank

import (
	"encoding/json"

	"github.com/iov-one/lockbank/errors"
	amino "github.com/tendermint/go-amino"
)

// Codec is used to serialize all models kept in the store.
var Codec = amino.NewCodec()

// MarshalBinary serializes a model using the shared codec.
func MarshalBinary(o interface{}) ([]byte, error) {
	raw, err := Codec.MarshalBinaryBare(o)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return raw, nil
}

// UnmarshalBinary deserializes a model using the shared codec. Destination
// must be a pointer.
func UnmarshalBinary(raw []byte, dest interface{}) error {
	if err := Codec.UnmarshalBinaryBare(raw, dest); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// Metadata is embedded in every stored model.
type Metadata struct {
	Schema uint32 `json:"schema"`
}

// Validate requires a schema version to be declared.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrEmpty, "metadata")
	}
	if m.Schema == 0 {
		return errors.Wrap(errors.ErrModel, "schema version is required")
	}
	return nil
}

// Options are the genesis options. Each extension can look up its key and
// parse the json as desired.
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "option %q: %s", key, err)
	}
	return nil
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

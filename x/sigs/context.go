package sigs

import (
	"context"

	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// WithSigners returns a context authenticated by given conditions. The first
// condition is the main signer and acts as the caller of an operation.
func WithSigners(ctx lockbank.Context, signers ...lockbank.Condition) lockbank.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate reads the signers attached to the context with WithSigners.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context.
// May be empty
func (a Authenticate) GetConditions(ctx lockbank.Context) []lockbank.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]lockbank.Condition)
	return val
}

// HasAddress returns true if any of the signers has given address.
func (a Authenticate) HasAddress(ctx lockbank.Context, addr lockbank.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// NamedCondition returns the condition used to authenticate a signer known
// only by name, as used by the command line client.
func NamedCondition(name string) lockbank.Condition {
	return lockbank.NewCondition("sigs", "name", []byte(name))
}

package x

import (
	"github.com/iov-one/lockbank"
	"github.com/iov-one/lockbank/errors"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// controllers, so we can plug in another authentication system.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled
	GetConditions(lockbank.Context) []lockbank.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(lockbank.Context, lockbank.Address) bool
}

// MainSigner returns the first permission if any, otherwise nil
func MainSigner(ctx lockbank.Context, auth Authenticator) lockbank.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// Caller returns the address of the main signer. An operation without any
// signer is not authorized.
func Caller(ctx lockbank.Context, auth Authenticator) (lockbank.Address, error) {
	signer := MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return signer.Address(), nil
}

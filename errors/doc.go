/*
Package errors implements the error handling used across lockbank.

Every error returned by an extension should wrap one of the root errors
registered with Register. Root errors carry a unique code, so callers (the CLI,
metrics, tests) can categorize a failure without string matching:

	if timelock.ErrZeroBalance.Is(err) {
		// nothing left to withdraw
	}

Extensions declare their own root errors in a package level var block using
Register. Never register an error at runtime.

Errors created with Wrap, Wrapf, Field or Error.New carry a stacktrace taken at
the innermost wrap. Use fmt "%+v" to print it.
*/
package errors

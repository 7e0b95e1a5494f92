/*
Package sigs attaches signers to a context and authenticates operations
using them.

There is no signature verification. Whoever builds the context is trusted
to only attach conditions that authorized the operation.
*/
package sigs

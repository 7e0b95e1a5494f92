/*
Package lockbank defines the common types shared by all lockbank
extensions: identities (Address, Condition), time (UnixTime), the penalty
Fraction, the storage interfaces and the helpers used to carry block
information through a context.Context.

Extensions live under x/. x/timelock implements a single time-locked deposit
and x/bank implements the registry that creates locks on behalf of their
owners and collects early-withdrawal penalties.
*/
package lockbank

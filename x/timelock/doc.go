/*
Package timelock implements a time locked escrow.

A lock holds the value deposited by its owner until the unlock time. The owner
can withdraw at any moment, but withdrawing before the unlock time costs a
fixed penalty of 10% of the locked value. The penalty is sent to the bank that
the lock was created with. A lock that is not attached to any bank handles the
penalty according to the package configuration.

Each lock holds its value in a dedicated wallet, with an address derived from
the lock ID.
*/
package timelock

/*
Package bank implements a registry of time locks that collects the early
withdrawal penalties.

The bank is deployed once and owned by the deploying identity. Anyone can lock
funds through the bank. Each lock created this way sends its early withdrawal
penalty to the bank wallet. The bank tracks which locks belong to which owner
and the position of each lock in its owner's list. Only the bank owner can
sweep the collected penalties.
*/
package bank

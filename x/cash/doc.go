/*
Package cash defines a simple implementation of holding and sending coins
between wallets.

There is no logic in the coins, except that the balance of any wallet may not
go below zero. Thus, this implementation is referred to as cash. Simple and
safe.
*/
package cash

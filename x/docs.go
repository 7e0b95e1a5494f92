/*
Package x contains some standard extensions

Extensions implement common functionality, like wallets or time locked
escrows, and can be composed together into a complete application. Shared
helpers, like the Authenticator abstraction, live in this package.
*/
package x

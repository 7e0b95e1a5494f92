/*
Package app executes lock and bank operations against a persistent store.

Operations are serialized. Each one runs with its own block time, logger and
event collector, and is committed as a new store version only when it
succeeds.
*/
package app

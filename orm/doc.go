/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of model.
* Models are serialized with the shared amino codec.
* Keys may be provided by the caller or allocated from a Sequence.
*/
package orm

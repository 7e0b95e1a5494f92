/*

Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension owns a single configuration object stored under the "_c:<pkg>"
key. Configuration is loaded from the genesis file and can be read by any
operation.

*/
package gconf

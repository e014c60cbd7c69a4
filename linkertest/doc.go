/*
Package linkertest provides fixtures and an in-memory chain for testing the
linker packages without a running node.
*/
package linkertest

/*
Package client submits transactions to the chain and waits until they are
included in a block.

Each submission holds a status subscription. The subscription is released on
every return path, including errors and timeouts.
*/
package client

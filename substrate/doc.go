/*
Package substrate implements the linker chain capabilities on top of a
Substrate node RPC endpoint.

Call indexes are resolved from the runtime metadata fetched when the
connection is established. Storage is read from a single block so that all
entries of one listing are consistent. Transactions are signed with an
immortal era and the next account nonce known to the node.
*/
package substrate

/*
Package app runs a single registration pass.

Every co-signer runs the same pass: load the account pairs, build one
register-link call per pair and wrap them into a batch. What happens next
depends on the role of the node, selected once when the run is created. A
proposer opens the multisig operation and records the account pairs it
proposed. An approver approves the matching pending operation at most once.

Any failure aborts the pass before anything is persisted. The pass is meant
to be invoked periodically by an external scheduler.
*/
package app

/*

Package linker defines the data model and the chain collaborator interfaces
used to register links between Filecoin delegated accounts and Bifrost
accounts.

A registration run builds one register-link call per account pair, batches
them into a single atomic call and wraps the batch into a multisig operation.
One co-signer proposes the multisig operation, the others approve it until the
threshold is reached and the chain executes the batch.

Look into the x/ packages for the call builders and the multisig
coordination, and into the client package for transaction submission.

*/

package linker

/*
> Multisignature (multi-signature) is a digital signature scheme which allows a group of users to sign a single document.
https://en.wikipedia.org/wiki/Multisignature

This multisig package coordinates calls dispatched by a multisig account of
the Substrate Multisig pallet. The account is controlled by a fixed signer
set and a threshold.

A `Coordinator` either proposes a call, which opens a pending operation on
chain, or approves the pending operation whose content hash matches the
locally built call. Once the number of approvals reaches the threshold, the
chain dispatches the call and deletes the pending operation.

Pending operations are read from the `Multisig.Multisigs` storage map, keyed
by the multisig account and the content hash of the call.
*/
package multisig

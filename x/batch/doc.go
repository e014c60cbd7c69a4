/*
Package batch implements batch calls.

> A batch call holds a list of calls that are dispatched
> one after another within a single transaction.
> The batch fails if any of the calls fail to be dispatched,
> and none of its effects are kept in that case.

The content hash of a batch depends on the exact order of its calls. All
signers approving the same batch must build it from the same ordered list of
calls, otherwise they propose and approve different operations.
*/
package batch

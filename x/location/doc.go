/*
Package location maps secondary ledger addresses into the chain neutral
location format expected by register-link calls.

Filecoin delegated addresses (f410f... on mainnet, t410f... on testnets)
carry an Ethereum style 20 byte address. The location of such an account is

	{parents: 100, interior: X1(AccountKey20{network: null, key})}

where a parents value of 100 marks an account that lives on an unrelated
chain rather than on an ancestor of the current one.
*/
package location

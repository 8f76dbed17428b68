package explorer

import "context"

// TxInput is the previous output spent by a transaction input: the
// address the spent value belonged to and its amount in satoshis.
type TxInput struct {
	Address string
	Value   uint64
}

// TxOutput is a transaction output: the destination address and its
// amount in satoshis.
type TxOutput struct {
	Address string
	Value   uint64
}

// Transaction represents a confirmed or pending transaction as returned
// by the ledger source for one address.
type Transaction interface {
	// Hash returns the transaction id in hex format.
	Hash() string
	// Inputs returns the spent previous outputs. Coinbase inputs,
	// which spend nothing, are not included.
	Inputs() []TxInput
	// Outputs returns the transaction outputs.
	Outputs() []TxOutput
	// Confirmed returns whether the tx has been included in a block.
	Confirmed() bool
	// BlockTime returns the confirmation time as epoch seconds, or 0
	// while the tx is unconfirmed.
	BlockTime() int64
}

// Service is the representation of an explorer that allows to fetch
// the transaction history of addresses from the blockchain.
//
// A failed query MUST surface as a non-nil error, never as an empty
// transaction list: callers scanning for unused addresses rely on the
// distinction.
type Service interface {
	// GetTransactionsForAddress returns the list of all txs relative
	// to the given address.
	GetTransactionsForAddress(
		ctx context.Context, address string,
	) ([]Transaction, error)
	// GetBlockHeight returns the number of blocks of the blockchain.
	GetBlockHeight(ctx context.Context) (int, error)
}

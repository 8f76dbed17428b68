package esplora

import (
	"encoding/json"
	"fmt"

	"github.com/tdex-network/xpubscan/pkg/explorer"
)

// tx is the implementation of the explorer's Transaction interface on
// top of the JSON format served by Esplora/Electrs.
type tx struct {
	TxID   string     `json:"txid"`
	Status txStatus   `json:"status"`
	Vin    []txInput  `json:"vin"`
	Vout   []txOutput `json:"vout"`
}

type txStatus struct {
	Confirmed   bool   `json:"confirmed"`
	BlockHeight int    `json:"block_height"`
	BlockHash   string `json:"block_hash"`
	BlockTime   int64  `json:"block_time"`
}

type txInput struct {
	TxID     string    `json:"txid"`
	Vout     uint32    `json:"vout"`
	Prevout  *txOutput `json:"prevout"`
	Coinbase bool      `json:"is_coinbase"`
}

type txOutput struct {
	ScriptpubkeyAddress string `json:"scriptpubkey_address"`
	Value               uint64 `json:"value"`
}

// NewTxFromJSON is the factory for a Transaction given its JSON format.
func NewTxFromJSON(txJSON string) (explorer.Transaction, error) {
	t := &tx{}
	if err := json.Unmarshal([]byte(txJSON), t); err != nil {
		return nil, fmt.Errorf("invalid tx JSON")
	}
	return t, nil
}

func (t *tx) Hash() string {
	return t.TxID
}

func (t *tx) Inputs() []explorer.TxInput {
	ins := make([]explorer.TxInput, 0, len(t.Vin))
	for _, in := range t.Vin {
		if in.Coinbase || in.Prevout == nil {
			continue
		}
		ins = append(ins, explorer.TxInput{
			Address: in.Prevout.ScriptpubkeyAddress,
			Value:   in.Prevout.Value,
		})
	}
	return ins
}

func (t *tx) Outputs() []explorer.TxOutput {
	outs := make([]explorer.TxOutput, 0, len(t.Vout))
	for _, out := range t.Vout {
		outs = append(outs, explorer.TxOutput{
			Address: out.ScriptpubkeyAddress,
			Value:   out.Value,
		})
	}
	return outs
}

func (t *tx) Confirmed() bool {
	return t.Status.Confirmed
}

func (t *tx) BlockTime() int64 {
	if !t.Status.Confirmed {
		return 0
	}
	return t.Status.BlockTime
}

func parseTransactions(resp string) ([]explorer.Transaction, error) {
	parsed := make([]*tx, 0)
	if err := json.Unmarshal([]byte(resp), &parsed); err != nil {
		return nil, fmt.Errorf("invalid tx list JSON")
	}

	txs := make([]explorer.Transaction, 0, len(parsed))
	for _, t := range parsed {
		txs = append(txs, t)
	}
	return txs, nil
}

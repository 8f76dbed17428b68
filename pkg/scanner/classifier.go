package scanner

import "github.com/tdex-network/xpubscan/pkg/explorer"

// ClassifyTransaction turns one raw transaction into its directional
// events relative to the given address. Multiple outputs paying the
// address collapse into a single receive event, multiple inputs
// spending from it into a single send event, so a tx yields at most
// one event per direction. A change-returning spend yields both.
func ClassifyTransaction(
	address string, tx explorer.Transaction,
) []TransactionEvent {
	var received, sent uint64
	for _, out := range tx.Outputs() {
		if out.Address == address {
			received += out.Value
		}
	}
	for _, in := range tx.Inputs() {
		if in.Address == address {
			sent += in.Value
		}
	}

	events := make([]TransactionEvent, 0, 2)
	if received > 0 {
		events = append(events, TransactionEvent{
			Address:   address,
			TxID:      tx.Hash(),
			Type:      EventReceive,
			Amount:    received,
			Timestamp: tx.BlockTime(),
			Confirmed: tx.Confirmed(),
		})
	}
	if sent > 0 {
		events = append(events, TransactionEvent{
			Address:   address,
			TxID:      tx.Hash(),
			Type:      EventSend,
			Amount:    sent,
			Timestamp: tx.BlockTime(),
			Confirmed: tx.Confirmed(),
		})
	}
	return events
}

package scanner

import "sort"

// EventType is the direction of a transaction event relative to the
// scanned address.
type EventType int

const (
	// EventReceive is value paid to the scanned address.
	EventReceive EventType = iota
	// EventSend is value spent from the scanned address.
	EventSend
)

func (t EventType) String() string {
	switch t {
	case EventReceive:
		return "receive"
	case EventSend:
		return "send"
	default:
		return "unknown"
	}
}

// TransactionEvent is the reconciled, per-(address, tx) unit of the scan
// output: the aggregate amount a transaction moved to or from one
// address, in satoshis. Timestamp is meaningful only while Confirmed is
// true; unconfirmed events carry no timestamp yet.
type TransactionEvent struct {
	Address   string
	TxID      string
	Type      EventType
	Amount    uint64
	Timestamp int64
	Confirmed bool
}

// sortEvents orders events by confirmation time ascending, with all
// unconfirmed events after all confirmed ones. The sort is stable so
// that ties and unconfirmed runs keep their fetch order.
func sortEvents(events []TransactionEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Confirmed || !b.Confirmed {
			return a.Confirmed && !b.Confirmed
		}
		return a.Timestamp < b.Timestamp
	})
}

package mathutil

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

// BTCPrecision is the number of decimal digits of a satoshi amount
// expressed in BTC.
var BTCPrecision = int32(8)

var satsPerBTC = decimal.NewFromInt(100_000_000)

// ErrNegativeAmount ...
var ErrNegativeAmount = errors.New("amount in BTC must not be negative")

// SatsToBTCString formats an amount in satoshis as a fixed 8-decimal
// BTC string.
func SatsToBTCString(sats uint64) string {
	amount := decimal.NewFromBigInt(new(big.Int).SetUint64(sats), 0)
	return amount.Div(satsPerBTC).StringFixed(BTCPrecision)
}

// BTCStringToSats parses a decimal BTC amount and returns its value in
// satoshis, truncating anything below 1 satoshi.
func BTCStringToSats(btc string) (uint64, error) {
	amount, err := decimal.NewFromString(btc)
	if err != nil {
		return 0, err
	}
	if amount.IsNegative() {
		return 0, ErrNegativeAmount
	}
	return amount.Mul(satsPerBTC).Truncate(0).BigInt().Uint64(), nil
}

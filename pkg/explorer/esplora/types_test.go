package esplora

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdex-network/xpubscan/pkg/explorer"
)

const confirmedTxJSON = `{
	"txid": "5e6d2cdbda5a46bbc41c85ba1a15b399a9b07a3f24a0ab3873a8e3057a48c0c8",
	"version": 2,
	"locktime": 0,
	"vin": [
		{
			"txid": "e3779cc48bb89e0dbd93cfcc96df05cb374910e32f5e04c2a2b2498f848a260e",
			"vout": 1,
			"prevout": {
				"scriptpubkey_address": "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu",
				"value": 150000
			},
			"is_coinbase": false
		}
	],
	"vout": [
		{
			"scriptpubkey_address": "bc1qnjg0jd8228aq7egyzacy8cys3knf9xvrerkf9g",
			"value": 100000
		},
		{
			"scriptpubkey_address": "bc1q8c6fshw2dlwun7ekn9qwf37cu2rn755upcp6el",
			"value": 49500
		}
	],
	"status": {
		"confirmed": true,
		"block_height": 700000,
		"block_hash": "0000000000000000000590fc0f3eba193a278534220b2b37e9849e1a770ca959",
		"block_time": 1631100000
	}
}`

const unconfirmedTxJSON = `{
	"txid": "b7f2ab2f3a1e5d0ce9c83fa6a1a1b365bffccc9ddca5a80974cb2d4e45e962b6",
	"vin": [
		{
			"is_coinbase": true
		}
	],
	"vout": [
		{
			"scriptpubkey_address": "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu",
			"value": 625000000
		}
	],
	"status": {
		"confirmed": false
	}
}`

func TestNewTxFromJSON(t *testing.T) {
	parsed, err := NewTxFromJSON(confirmedTxJSON)
	require.NoError(t, err)

	assert.Equal(
		t,
		"5e6d2cdbda5a46bbc41c85ba1a15b399a9b07a3f24a0ab3873a8e3057a48c0c8",
		parsed.Hash(),
	)
	assert.True(t, parsed.Confirmed())
	assert.Equal(t, int64(1631100000), parsed.BlockTime())

	require.Len(t, parsed.Inputs(), 1)
	assert.Equal(t, explorer.TxInput{
		Address: "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu",
		Value:   150000,
	}, parsed.Inputs()[0])

	require.Len(t, parsed.Outputs(), 2)
	assert.Equal(t, uint64(100000), parsed.Outputs()[0].Value)
	assert.Equal(t, uint64(49500), parsed.Outputs()[1].Value)
}

func TestNewTxFromJSONUnconfirmed(t *testing.T) {
	parsed, err := NewTxFromJSON(unconfirmedTxJSON)
	require.NoError(t, err)

	assert.False(t, parsed.Confirmed())
	assert.Zero(t, parsed.BlockTime())
	// coinbase inputs spend nothing
	assert.Empty(t, parsed.Inputs())
	require.Len(t, parsed.Outputs(), 1)
}

func TestFailingNewTxFromJSON(t *testing.T) {
	parsed, err := NewTxFromJSON("not a json payload")
	assert.Nil(t, parsed)
	assert.Error(t, err)
}

func TestParseTransactions(t *testing.T) {
	txs, err := parseTransactions("[" + confirmedTxJSON + "," + unconfirmedTxJSON + "]")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.True(t, txs[0].Confirmed())
	assert.False(t, txs[1].Confirmed())
}

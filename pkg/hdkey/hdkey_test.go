package hdkey

import (
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// BIP84 account xpub of the reference mnemonic
// "abandon abandon ... about" at m/84'/0'/0'.
const testExtendedKey = "zpub6rFR7y4Q2AijBEqTUquhVz398htDFrtymD9xYYfG1m4wAcvPhXNfE3EfH1r1ADqtfSdVCToUG868RvUUkgDKf31mGDtKsAYz2oz2AGutZYs"

func newTestAccountKey(t *testing.T) *AccountKey {
	t.Helper()
	key, err := NewAccountKey(NewAccountKeyOpts{
		ExtendedPublicKey: testExtendedKey,
		Network:           &chaincfg.MainNetParams,
	})
	require.NoError(t, err)
	require.NotNil(t, key)
	return key
}

func TestDeriveAddress(t *testing.T) {
	key := newTestAccountKey(t)

	tests := []struct {
		branch  Branch
		index   uint32
		address string
	}{
		{External, 0, "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu"},
		{External, 1, "bc1qnjg0jd8228aq7egyzacy8cys3knf9xvrerkf9g"},
		{Internal, 0, "bc1q8c6fshw2dlwun7ekn9qwf37cu2rn755upcp6el"},
	}
	for _, tt := range tests {
		addr, err := key.DeriveAddress(tt.branch, tt.index)
		require.NoError(t, err)
		assert.Equal(t, tt.address, addr)
	}
}

func TestDeriveAddressIsDeterministic(t *testing.T) {
	key := newTestAccountKey(t)
	other := newTestAccountKey(t)

	seen := map[string]struct{}{}
	for index := uint32(0); index < 10; index++ {
		addr, err := key.DeriveAddress(External, index)
		require.NoError(t, err)

		same, err := other.DeriveAddress(External, index)
		require.NoError(t, err)
		assert.Equal(t, addr, same)

		// no two indices map to the same address
		_, ok := seen[addr]
		assert.False(t, ok)
		seen[addr] = struct{}{}
	}
}

func TestDeriveAddressNetworkEncoding(t *testing.T) {
	key, err := NewAccountKey(NewAccountKeyOpts{
		ExtendedPublicKey: testExtendedKey,
		Network:           &chaincfg.RegressionNetParams,
	})
	require.NoError(t, err)

	addr, err := key.DeriveAddress(External, 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(addr, "bcrt1"))
}

func TestFailingNewAccountKey(t *testing.T) {
	tests := []struct {
		name string
		opts NewAccountKeyOpts
		err  error
	}{
		{
			name: "null key",
			opts: NewAccountKeyOpts{Network: &chaincfg.MainNetParams},
			err:  ErrNullExtendedKey,
		},
		{
			name: "null network",
			opts: NewAccountKeyOpts{ExtendedPublicKey: testExtendedKey},
			err:  ErrNullNetwork,
		},
		{
			name: "not base58",
			opts: NewAccountKeyOpts{
				ExtendedPublicKey: "this is not an extended key",
				Network:           &chaincfg.MainNetParams,
			},
			err: ErrInvalidExtendedKey,
		},
		{
			name: "bad checksum",
			opts: NewAccountKeyOpts{
				ExtendedPublicKey: testExtendedKey[:len(testExtendedKey)-4] + "aaaa",
				Network:           &chaincfg.MainNetParams,
			},
			err: ErrInvalidExtendedKey,
		},
		{
			name: "private key",
			opts: NewAccountKeyOpts{
				// BIP32 test vector 1 master private key
				ExtendedPublicKey: "xprv9s21ZrQH143K3QTDL4LXw2F7HEK3wJUD2nW2nRk4stbPy6cq3jPPqjiChkVvvNKmPGJxWUtg6LnF5kejMRNNU3TGtRBeJgk33yuGBxrMPHi",
				Network:           &chaincfg.MainNetParams,
			},
			err: ErrPrivateExtendedKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := NewAccountKey(tt.opts)
			assert.Nil(t, key)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestFailingDeriveAddress(t *testing.T) {
	key := newTestAccountKey(t)

	t.Run("invalid branch", func(t *testing.T) {
		addr, err := key.DeriveAddress(Branch(2), 0)
		assert.Empty(t, addr)
		assert.ErrorIs(t, err, ErrInvalidBranch)
	})

	t.Run("out of range index", func(t *testing.T) {
		addr, err := key.DeriveAddress(External, MaxDerivationIndex+1)
		assert.Empty(t, addr)
		assert.ErrorIs(t, err, ErrOutOfRangeDerivationIndex)
	})
}

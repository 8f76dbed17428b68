package hdkey

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

var (
	// ErrNullExtendedKey ...
	ErrNullExtendedKey = errors.New("extended public key must not be null")
	// ErrNullNetwork ...
	ErrNullNetwork = errors.New("network params must not be null")
	// ErrInvalidExtendedKey ...
	ErrInvalidExtendedKey = errors.New("extended public key is invalid")
	// ErrPrivateExtendedKey ...
	ErrPrivateExtendedKey = errors.New(
		"extended key must be public (neutered), not private",
	)
	// ErrInvalidBranch ...
	ErrInvalidBranch = errors.New(
		"branch must be either external (0) or internal (1)",
	)
	// ErrOutOfRangeDerivationIndex ...
	ErrOutOfRangeDerivationIndex = errors.New(
		"derivation index must be lower than 2^31",
	)
)

// MaxDerivationIndex is the highest index that can be derived without
// hardening, ie. the last index reachable from a public key only.
const MaxDerivationIndex = hdkeychain.HardenedKeyStart - 1

// Branch selects the first-level address subtree of an account.
type Branch uint32

const (
	// External is the branch of receiving addresses.
	External Branch = 0
	// Internal is the branch of change addresses.
	Internal Branch = 1
)

func (b Branch) String() string {
	switch b {
	case External:
		return "external"
	case Internal:
		return "internal"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(b))
	}
}

func (b Branch) validate() error {
	if b != External && b != Internal {
		return ErrInvalidBranch
	}
	return nil
}

// AccountKey is the public derivation root of a wallet account. It is
// immutable once constructed and safe for concurrent use.
type AccountKey struct {
	key         *hdkeychain.ExtendedKey
	net         *chaincfg.Params
	branchRoots map[Branch]*hdkeychain.ExtendedKey
}

// NewAccountKeyOpts is the struct given to the NewAccountKey factory.
type NewAccountKeyOpts struct {
	ExtendedPublicKey string
	Network           *chaincfg.Params
}

func (o NewAccountKeyOpts) validate() error {
	if len(o.ExtendedPublicKey) <= 0 {
		return ErrNullExtendedKey
	}
	if o.Network == nil {
		return ErrNullNetwork
	}
	return nil
}

// NewAccountKey parses a base58 extended public key and pre-derives the
// external and internal branch roots, so that later address derivation
// only ever walks one non-hardened child step.
func NewAccountKey(opts NewAccountKeyOpts) (*AccountKey, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	key, err := hdkeychain.NewKeyFromString(opts.ExtendedPublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExtendedKey, err)
	}
	if key.IsPrivate() {
		return nil, ErrPrivateExtendedKey
	}

	branchRoots := make(map[Branch]*hdkeychain.ExtendedKey)
	for _, branch := range []Branch{External, Internal} {
		root, err := key.Derive(uint32(branch))
		if err != nil {
			return nil, fmt.Errorf("deriving %s branch: %w", branch, err)
		}
		branchRoots[branch] = root
	}

	return &AccountKey{
		key:         key,
		net:         opts.Network,
		branchRoots: branchRoots,
	}, nil
}

// DeriveAddress returns the P2WPKH address encoding of the child public
// key at branch/index. It is a pure function of its inputs: the same
// (branch, index) pair always maps to the same address.
func (a *AccountKey) DeriveAddress(branch Branch, index uint32) (string, error) {
	if err := branch.validate(); err != nil {
		return "", err
	}
	if index > MaxDerivationIndex {
		return "", ErrOutOfRangeDerivationIndex
	}

	child, err := a.branchRoots[branch].Derive(index)
	if err != nil {
		return "", fmt.Errorf("deriving index %d: %w", index, err)
	}
	pubKey, err := child.ECPubKey()
	if err != nil {
		return "", err
	}

	addr, err := btcutil.NewAddressWitnessPubKeyHash(
		btcutil.Hash160(pubKey.SerializeCompressed()), a.net,
	)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

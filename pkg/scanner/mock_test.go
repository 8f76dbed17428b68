package scanner_test

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/tdex-network/xpubscan/pkg/explorer"
	"github.com/tdex-network/xpubscan/pkg/hdkey"
)

// Explorer
type mockExplorer struct {
	mock.Mock
}

func (m *mockExplorer) GetTransactionsForAddress(
	ctx context.Context, addr string,
) ([]explorer.Transaction, error) {
	args := m.Called(ctx, addr)

	var res []explorer.Transaction
	if a := args.Get(0); a != nil {
		res = a.([]explorer.Transaction)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) GetBlockHeight(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// AddressProvider
type stubProvider struct{}

func (stubProvider) DeriveAddress(
	branch hdkey.Branch, index uint32,
) (string, error) {
	return fmt.Sprintf("%s-%d", branch, index), nil
}

// failingProvider fails for every index from failFrom on.
type failingProvider struct {
	failFrom uint32
	err      error
}

func (p failingProvider) DeriveAddress(
	branch hdkey.Branch, index uint32,
) (string, error) {
	if index >= p.failFrom {
		return "", p.err
	}
	return fmt.Sprintf("%s-%d", branch, index), nil
}

// Transaction
type testTx struct {
	hash      string
	ins       []explorer.TxInput
	outs      []explorer.TxOutput
	confirmed bool
	blockTime int64
}

func (t testTx) Hash() string                 { return t.hash }
func (t testTx) Inputs() []explorer.TxInput   { return t.ins }
func (t testTx) Outputs() []explorer.TxOutput { return t.outs }
func (t testTx) Confirmed() bool              { return t.confirmed }
func (t testTx) BlockTime() int64 {
	if !t.confirmed {
		return 0
	}
	return t.blockTime
}

package eth

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/questx-lab/mintstudio/internal/domain/blockchain"
	"github.com/questx-lab/mintstudio/mocks"
	"github.com/questx-lab/mintstudio/pkg/errorx"
	"github.com/questx-lab/mintstudio/pkg/testutil"
	"github.com/questx-lab/mintstudio/pkg/xredis"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEthBoundary_SimulateCall(t *testing.T) {
	ctx := testutil.MockContext()
	signer := newTestSigner(t)
	from, _ := signer.ConnectedAccount()
	contract := common.HexToAddress(testutil.ContractAddress)

	client := &mocks.EthClient{}
	client.On("CallContract", mock.Anything, mock.MatchedBy(func(msg ethereum.CallMsg) bool {
		return msg.From == from && *msg.To == contract && len(msg.Data) > 4
	}), (*big.Int)(nil)).Return([]byte{}, nil).Once()
	client.On("CallContract", mock.Anything, mock.Anything, (*big.Int)(nil)).
		Return(nil, errors.New("execution reverted: paused")).Once()

	b, err := NewEthBoundary(ctx, client, signer, xredis.NewMemoryClient())
	require.NoError(t, err)

	call := blockchain.Call{Function: blockchain.FunctionMint, Args: []any{"ipfs://meta"}}
	require.NoError(t, b.SimulateCall(ctx, call))
	require.EqualError(t, b.SimulateCall(ctx, call), "execution reverted: paused")

	err = b.SimulateCall(ctx, blockchain.Call{Function: blockchain.FunctionBatchMint, Args: []any{"ipfs://meta"}})
	require.Equal(t, errorx.BadRequest, errorx.CodeOf(err))

	signer.connected = false
	err = b.SimulateCall(ctx, call)
	require.Equal(t, errorx.NotConnected, errorx.CodeOf(err))
}

func TestEthBoundary_SubmitCall(t *testing.T) {
	ctx := testutil.MockContext()
	signer := newTestSigner(t)
	from, _ := signer.ConnectedAccount()
	tx := newSignedTx(t, signer, 4, []byte{0x01})

	client := &mocks.EthClient{}
	client.On("ChainID").Return(testChainID)
	client.On("GetSignedContractTx",
		mock.Anything,
		common.HexToAddress(testutil.ContractAddress),
		mock.Anything,
		mock.MatchedBy(func(opts *bind.TransactOpts) bool { return opts.From == from }),
		"batchMint",
		[]any{"ipfs://meta", big.NewInt(2)},
	).Return(tx, nil)
	client.On("BalanceAt", mock.Anything, from, (*big.Int)(nil)).Return(tx.Cost(), nil)
	client.On("SendTransaction", mock.Anything, tx).Return(nil)

	b, err := NewEthBoundary(ctx, client, signer, xredis.NewMemoryClient())
	require.NoError(t, err)

	hash, err := b.SubmitCall(ctx, blockchain.Call{
		Function: blockchain.FunctionBatchMint,
		Args:     []any{"ipfs://meta", big.NewInt(2)},
	})
	require.NoError(t, err)
	require.Equal(t, tx.Hash(), hash)
	client.AssertExpectations(t)
}

func TestEthBoundary_SubmitCallRejected(t *testing.T) {
	ctx := testutil.MockContext()
	signer := newTestSigner(t)

	client := &mocks.EthClient{}
	client.On("ChainID").Return(testChainID)
	client.On("GetSignedContractTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "mint", mock.Anything).
		Return(nil, wrapError(errors.New("insufficient funds for gas * price + value")))

	b, err := NewEthBoundary(ctx, client, signer, xredis.NewMemoryClient())
	require.NoError(t, err)

	_, err = b.SubmitCall(ctx, blockchain.Call{Function: blockchain.FunctionMint, Args: []any{"ipfs://meta"}})
	require.ErrorContains(t, err, "insufficient funds")
	client.AssertNotCalled(t, "SendTransaction", mock.Anything, mock.Anything)
}

package eth

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/questx-lab/mintstudio/internal/domain/blockchain"
	"github.com/questx-lab/mintstudio/pkg/errorx"
	"github.com/questx-lab/mintstudio/pkg/xcontext"
	"github.com/questx-lab/mintstudio/pkg/xredis"
)

// Signer is the connected wallet.
type Signer interface {
	ConnectedAccount() (common.Address, bool)
	SignTx(tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error)
}

// EthBoundary performs studio calls against one contract on one chain.
type EthBoundary struct {
	client     EthClient
	contract   *Contract
	signer     Signer
	dispatcher *EthDispatcher
	watcher    *EthWatcher
}

func NewEthBoundary(
	ctx context.Context,
	client EthClient,
	signer Signer,
	redisClient xredis.Client,
) (*EthBoundary, error) {
	cfg := xcontext.Configs(ctx)
	contract, err := NewContract(cfg.Contract)
	if err != nil {
		return nil, err
	}

	return &EthBoundary{
		client:     client,
		contract:   contract,
		signer:     signer,
		dispatcher: NewEthDispatcher(cfg.Chain.Name, client),
		watcher:    NewEthWatcher(cfg.Chain, client, redisClient),
	}, nil
}

func (b *EthBoundary) Start(ctx context.Context) {
	b.client.Start(ctx)
	b.watcher.Start(ctx)
}

// SimulateCall runs the call against the latest state without sending it.
func (b *EthBoundary) SimulateCall(ctx context.Context, call blockchain.Call) error {
	from, err := b.account()
	if err != nil {
		return err
	}

	data, err := b.contract.Pack(call)
	if err != nil {
		return errorx.New(errorx.BadRequest, "Cannot encode %s: %v", call.Function, err)
	}

	to := b.contract.Address()
	_, err = b.client.CallContract(ctx, ethereum.CallMsg{From: from, To: &to, Data: data}, nil)
	return err
}

// SubmitCall signs the call with the connected wallet and sends it.
func (b *EthBoundary) SubmitCall(ctx context.Context, call blockchain.Call) (common.Hash, error) {
	from, err := b.account()
	if err != nil {
		return common.Hash{}, err
	}

	method, err := b.contract.Method(call.Function)
	if err != nil {
		return common.Hash{}, errorx.New(errorx.BadRequest, "%v", err)
	}

	chainID := b.client.ChainID()
	opts := &bind.TransactOpts{
		From: from,
		Signer: func(_ common.Address, tx *ethtypes.Transaction) (*ethtypes.Transaction, error) {
			return b.signer.SignTx(tx, chainID)
		},
		Value: common.Big0,
	}

	tx, err := b.client.GetSignedContractTx(ctx, b.contract.Address(), b.contract.ABI(), opts, method, call.Args...)
	if err != nil {
		return common.Hash{}, err
	}

	if err := b.dispatcher.Dispatch(ctx, from, tx); err != nil {
		return common.Hash{}, err
	}

	return tx.Hash(), nil
}

func (b *EthBoundary) AwaitConfirmation(ctx context.Context, txHash common.Hash) (*blockchain.Confirmation, error) {
	return b.watcher.Await(ctx, txHash)
}

func (b *EthBoundary) account() (common.Address, error) {
	from, ok := b.signer.ConnectedAccount()
	if !ok {
		return common.Address{}, errorx.New(errorx.NotConnected, "Connect your wallet first")
	}

	return from, nil
}

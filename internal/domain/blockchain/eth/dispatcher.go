package eth

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	internalcommon "github.com/questx-lab/mintstudio/internal/common"
	"github.com/questx-lab/mintstudio/pkg/errorx"
	"github.com/questx-lab/mintstudio/pkg/xcontext"
)

type EthDispatcher struct {
	chain  string
	client EthClient
}

func NewEthDispatcher(chain string, client EthClient) *EthDispatcher {
	return &EthDispatcher{chain: chain, client: client}
}

// Dispatch sends a signed transaction after checking that from can pay for
// it. A transaction the node already knows counts as sent.
func (d *EthDispatcher) Dispatch(ctx context.Context, from common.Address, tx *ethtypes.Transaction) error {
	counter := internalcommon.PromCounters[internalcommon.DispatchFailureTotal]

	// Check the balance to see if we have enough native token.
	balance, err := d.client.BalanceAt(ctx, from, nil)
	if err != nil {
		counter.WithLabelValues("balance").Inc()
		xcontext.Logger(ctx).Errorf("Cannot get balance for account %s: %v", from.Hex(), err)
		return err
	}

	if cost := tx.Cost(); cost.Cmp(balance) > 0 {
		counter.WithLabelValues("insufficient_funds").Inc()
		return &ChainError{
			Short: "insufficient funds for gas * price + value",
			Err: errorx.New(errorx.NotEnoughBalance,
				"insufficient funds for gas * price + value: address %s have %s want %s, chain = %s",
				from.Hex(), balance, cost, d.chain),
		}
	}

	err = d.client.SendTransaction(ctx, tx)
	if err == nil {
		xcontext.Logger(ctx).Infof("Tx is dispatched successfully for chain %s from %s txHash = %s",
			d.chain, from.Hex(), tx.Hash().Hex())
		return nil
	}

	if strings.Contains(err.Error(), "already known") {
		// Another node may have relayed the same transaction. Ethereum does not
		// return error codes in its JSON RPC, so we rely on string matching.
		xcontext.Logger(ctx).Infof("Tx %s is already known on chain %s", tx.Hash().Hex(), d.chain)
		return nil
	}

	counter.WithLabelValues("submit").Inc()
	xcontext.Logger(ctx).Errorf("Failed to dispatch tx: %v", err)
	return err
}

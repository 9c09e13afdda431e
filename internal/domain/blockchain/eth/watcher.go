package eth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/mintstudio/config"
	"github.com/questx-lab/mintstudio/internal/common"
	"github.com/questx-lab/mintstudio/internal/domain/blockchain"
	"github.com/questx-lab/mintstudio/pkg/xcontext"
	"github.com/questx-lab/mintstudio/pkg/xredis"
)

// trackResult is what a waiter of a tracked transaction receives.
type trackResult struct {
	confirmation *blockchain.Confirmation
	err          error
}

type waiter struct {
	ch    chan trackResult
	since time.Time
}

// EthWatcher follows new blocks and reports receipts of tracked
// transactions. Tracked hashes are also written to the redis client, which
// several watchers of the same chain may share. A watcher only claims the
// hashes it has a waiter for.
type EthWatcher struct {
	chain       string
	client      EthClient
	redisClient xredis.Client

	waiters *xsync.MapOf[string, waiter]

	// Block fetcher
	blockCh      chan *ethtypes.Block
	blockFetcher *defaultBlockFetcher

	// Receipt fetcher
	receiptFetcher    receiptFetcher
	receiptResponseCh chan *txReceiptResponse

	now func() time.Time
}

func NewEthWatcher(chain config.ChainConfig, client EthClient, redisClient xredis.Client) *EthWatcher {
	blockCh := make(chan *ethtypes.Block)
	receiptResponseCh := make(chan *txReceiptResponse)

	return &EthWatcher{
		chain:             chain.Name,
		client:            client,
		redisClient:       redisClient,
		waiters:           xsync.NewMapOf[waiter](),
		blockCh:           blockCh,
		blockFetcher:      newBlockFetcher(chain, blockCh, client),
		receiptFetcher:    newReceiptFetcher(receiptResponseCh, client, chain.Name),
		receiptResponseCh: receiptResponseCh,
		now:               time.Now,
	}
}

func (w *EthWatcher) Start(ctx context.Context) {
	xcontext.Logger(ctx).Infof("Starting watcher of chain %s", w.chain)

	go w.blockFetcher.start(ctx)
	go w.receiptFetcher.start(ctx)

	go w.waitForBlock(ctx)
	go w.waitForReceipt(ctx)
}

// TrackTx starts following txHash. The returned channel receives exactly one
// result.
func (w *EthWatcher) TrackTx(ctx context.Context, txHash ethcommon.Hash) <-chan trackResult {
	ch := make(chan trackResult, 1)
	since := w.now()

	// The waiter must exist before the hash is visible to the block scanner.
	w.waiters.Store(txHash.Hex(), waiter{ch: ch, since: since})
	common.PromGauges[common.TrackedTxGauge].WithLabelValues(w.chain).Inc()

	xcontext.Logger(ctx).Infof("Tracking tx: %s", txHash.Hex())
	key := common.RedisKeyTrackedTx(w.chain, txHash.Hex())
	if err := w.redisClient.Set(ctx, key, strconv.FormatInt(since.UnixMilli(), 10)); err != nil {
		xcontext.Logger(ctx).Errorf("Unable to track tx %s: %v", txHash.Hex(), err)
		w.resolve(ctx, txHash, trackResult{err: err})
	}

	return ch
}

// Untrack stops waiting for txHash. A receipt found later is ignored.
func (w *EthWatcher) Untrack(ctx context.Context, txHash ethcommon.Hash) {
	if _, ok := w.waiters.LoadAndDelete(txHash.Hex()); !ok {
		return
	}

	if err := w.redisClient.Del(ctx, common.RedisKeyTrackedTx(w.chain, txHash.Hex())); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot delete tracked tx hash %s: %v", txHash.Hex(), err)
	}
	common.PromGauges[common.TrackedTxGauge].WithLabelValues(w.chain).Dec()
}

// Await blocks until txHash has a receipt or ctx is done.
func (w *EthWatcher) Await(ctx context.Context, txHash ethcommon.Hash) (*blockchain.Confirmation, error) {
	ch := w.TrackTx(ctx, txHash)

	select {
	case result := <-ch:
		return result.confirmation, result.err
	case <-ctx.Done():
		w.Untrack(ctx, txHash)
		return nil, ctx.Err()
	}
}

// waitForBlock waits for new blocks from the block fetcher. It then filters interested txs and
// passes that to receipt fetcher to fetch receipt.
func (w *EthWatcher) waitForBlock(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case block := <-w.blockCh:
			txs := w.processBlock(ctx, block)
			xcontext.Logger(ctx).Debugf("%s block %d has %d txs, %d tracked",
				w.chain, block.NumberU64(), len(block.Transactions()), len(txs))

			if len(txs) > 0 {
				w.receiptFetcher.fetchReceipts(ctx, block.Number().Int64(), txs)
			}
		}
	}
}

// waitForReceipt waits for receipts returned by the fetcher.
func (w *EthWatcher) waitForReceipt(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case response := <-w.receiptResponseCh:
			w.extractTxs(ctx, response)
		}
	}
}

func (w *EthWatcher) processBlock(ctx context.Context, block *ethtypes.Block) []*ethtypes.Transaction {
	ret := make([]*ethtypes.Transaction, 0)

	for _, tx := range block.Transactions() {
		// Hashes tracked by another watcher sharing the store are left for it.
		if _, ok := w.waiters.Load(tx.Hash().Hex()); !ok {
			continue
		}

		key := common.RedisKeyTrackedTx(w.chain, tx.Hash().Hex())
		if err := w.redisClient.Del(ctx, key); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot delete tracked tx hash %s: %v", tx.Hash().Hex(), err)
		}

		ret = append(ret, tx)
	}

	return ret
}

// extractTxs takes response from the receipt fetcher and reports each
// transaction to its waiter.
func (w *EthWatcher) extractTxs(ctx context.Context, response *txReceiptResponse) {
	for i, tx := range response.txs {
		receipt := response.receipts[i]
		confirmation := &blockchain.Confirmation{
			TxHash:      tx.Hash(),
			BlockNumber: uint64(response.blockNumber),
		}

		if receipt.Status == ethtypes.ReceiptStatusFailed {
			confirmation.Reverted = true
			confirmation.RevertReason = w.revertReason(ctx, tx, receipt)
		}

		w.resolve(ctx, tx.Hash(), trackResult{confirmation: confirmation})
	}

	for tx, err := range response.failed {
		if err == nil {
			err = ethereum.NotFound
		}

		w.resolve(ctx, tx.Hash(), trackResult{
			err: &ChainError{Short: "Cannot get transaction receipt", Err: fmt.Errorf("receipt of %s: %w", tx.Hash().Hex(), err)},
		})
	}
}

// revertReason replays the reverted call at its block. Nodes only return the
// reason of a revert for calls, not in receipts.
func (w *EthWatcher) revertReason(ctx context.Context, tx *ethtypes.Transaction, receipt *ethtypes.Receipt) string {
	from, err := ethtypes.Sender(ethtypes.LatestSignerForChainID(w.client.ChainID()), tx)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot recover sender of %s: %v", tx.Hash().Hex(), err)
		return ""
	}

	msg := ethereum.CallMsg{
		From:     from,
		To:       tx.To(),
		Gas:      tx.Gas(),
		GasPrice: tx.GasPrice(),
		Value:    tx.Value(),
		Data:     tx.Data(),
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, RpcTimeOut)
	defer cancel()

	_, err = w.client.CallContract(timeoutCtx, msg, receipt.BlockNumber)
	if err == nil {
		return ""
	}

	return shortMessage(err)
}

func (w *EthWatcher) resolve(ctx context.Context, txHash ethcommon.Hash, result trackResult) {
	wt, ok := w.waiters.LoadAndDelete(txHash.Hex())
	if !ok {
		xcontext.Logger(ctx).Debugf("No waiter for tx %s", txHash.Hex())
		return
	}

	status := "unknown"
	if result.err == nil {
		status = "confirmed"
		if result.confirmation.Reverted {
			status = "reverted"
		}
	}

	xcontext.Logger(ctx).Infof("Tx %s is %s on chain %s", txHash.Hex(), status, w.chain)
	common.PromGauges[common.TrackedTxGauge].WithLabelValues(w.chain).Dec()
	common.PromHistograms[common.ConfirmationSeconds].
		WithLabelValues(w.chain, status).
		Observe(w.now().Sub(wt.since).Seconds())

	wt.ch <- result
}

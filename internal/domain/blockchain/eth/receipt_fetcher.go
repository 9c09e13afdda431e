package eth

import (
	"context"
	"time"

	etypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/questx-lab/mintstudio/pkg/xcontext"
)

const (
	MaxReceiptRetry = 5
)

// txReceiptRequest is a data structure for this watcher to send request to the receipt fetcher.
type txReceiptRequest struct {
	blockNumber int64
	txs         []*etypes.Transaction
}

// txReceiptResponse is a data structure for the receipt fetcher to return its result.
// Transactions whose receipt could not be fetched are listed in failed.
type txReceiptResponse struct {
	blockNumber int64
	txs         []*etypes.Transaction
	receipts    []*etypes.Receipt
	failed      map[*etypes.Transaction]error
}

type receiptFetcher interface {
	start(ctx context.Context)
	fetchReceipts(ctx context.Context, block int64, txs []*etypes.Transaction)
}

type defaultReceiptFetcher struct {
	chain      string
	requestCh  chan *txReceiptRequest
	responseCh chan *txReceiptResponse
	retryTime  time.Duration

	client EthClient
}

func newReceiptFetcher(responseCh chan *txReceiptResponse, client EthClient, chain string) *defaultReceiptFetcher {
	return &defaultReceiptFetcher{
		chain:      chain,
		requestCh:  make(chan *txReceiptRequest, 20),
		responseCh: responseCh,
		client:     client,
		retryTime:  time.Second * 5,
	}
}

func (rf *defaultReceiptFetcher) start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case request := <-rf.requestCh:
			response := rf.getResponse(ctx, request)

			select {
			case rf.responseCh <- response:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (rf *defaultReceiptFetcher) getResponse(ctx context.Context, request *txReceiptRequest) *txReceiptResponse {
	retry := 0
	response := &txReceiptResponse{
		blockNumber: request.blockNumber,
		txs:         make([]*etypes.Transaction, 0),
		receipts:    make([]*etypes.Receipt, 0),
		failed:      make(map[*etypes.Transaction]error),
	}

	txQueue := request.txs
	for len(txQueue) > 0 {
		tx := txQueue[0]

		timeoutCtx, cancel := context.WithTimeout(ctx, RpcTimeOut)
		receipt, err := rf.client.TransactionReceipt(timeoutCtx, tx.Hash())
		cancel()

		if err == nil && receipt != nil {
			retry = 0
			txQueue = txQueue[1:]
			response.txs = append(response.txs, tx)
			response.receipts = append(response.receipts, receipt)
			continue
		}

		xcontext.Logger(ctx).Warnf("Cannot get receipt for tx hash %s: %v", tx.Hash().Hex(), err)
		if retry == MaxReceiptRetry || ctx.Err() != nil {
			xcontext.Logger(ctx).Errorf("Give up receipt for tx with hash %s on chain %s",
				tx.Hash().Hex(), rf.chain)
			response.failed[tx] = err
			retry = 0
			txQueue = txQueue[1:]
			continue
		}

		retry++
		sleep(ctx, rf.retryTime)
	}

	return response
}

func (rf *defaultReceiptFetcher) fetchReceipts(ctx context.Context, block int64, txs []*etypes.Transaction) {
	select {
	case rf.requestCh <- &txReceiptRequest{blockNumber: block, txs: txs}:
	case <-ctx.Done():
	}
}

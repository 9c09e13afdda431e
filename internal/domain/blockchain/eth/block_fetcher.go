package eth

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	etypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/math"
	"github.com/questx-lab/mintstudio/config"
	"github.com/questx-lab/mintstudio/pkg/xcontext"
)

const (
	MinWaitTime = 500 // 500ms
)

type defaultBlockFetcher struct {
	chain                string
	blockHeight          int64
	adjustTime           int
	blockTime            int
	thresholdUpdateBlock int
	client               EthClient
	blockCh              chan *etypes.Block
}

func newBlockFetcher(chain config.ChainConfig, blockCh chan *etypes.Block, client EthClient) *defaultBlockFetcher {
	return &defaultBlockFetcher{
		chain:                chain.Name,
		blockCh:              blockCh,
		client:               client,
		blockTime:            chain.BlockTime,
		adjustTime:           chain.AdjustTime,
		thresholdUpdateBlock: chain.ThresholdUpdateBlock,
	}
}

func (bf *defaultBlockFetcher) start(ctx context.Context) {
	if !bf.setBlockHeight(ctx) {
		return
	}

	bf.scanBlocks(ctx)
}

func (bf *defaultBlockFetcher) setBlockHeight(ctx context.Context) bool {
	for {
		number, err := bf.getBlockNumber(ctx)
		if err == nil {
			bf.blockHeight = math.MaxInt64(int64(number)-int64(bf.thresholdUpdateBlock), 0)
			break
		}

		xcontext.Logger(ctx).Errorf(
			"Cannot get latest block number for chain %s. Sleeping for a few seconds", bf.chain)
		if !sleep(ctx, 5*time.Second) {
			return false
		}
	}

	xcontext.Logger(ctx).Infof("Watching from block %d for chain %s", bf.blockHeight, bf.chain)
	return true
}

func (bf *defaultBlockFetcher) scanBlocks(ctx context.Context) {
	for {
		if bf.blockTime < 0 {
			bf.blockTime = 0
		}

		block, err := bf.tryGetBlock(ctx)
		if err != nil || block == nil {
			var exceeded *BlockHeightExceededError
			if !errors.As(err, &exceeded) && !errors.Is(err, ethereum.NotFound) {
				xcontext.Logger(ctx).Errorf("Cannot get block at height %d for chain %s, err = %v",
					bf.blockHeight, bf.chain, err)
			}

			bf.blockTime = bf.blockTime + bf.adjustTime
			if !sleep(ctx, time.Duration(bf.blockTime)*time.Millisecond) {
				return
			}
			continue
		}

		select {
		case bf.blockCh <- block:
		case <-ctx.Done():
			return
		}
		bf.blockHeight++

		if bf.blockTime-bf.adjustTime/4 > MinWaitTime {
			bf.blockTime = bf.blockTime - bf.adjustTime/4
		}
		if !sleep(ctx, time.Duration(bf.blockTime)*time.Millisecond) {
			return
		}
	}
}

func (bf *defaultBlockFetcher) getBlock(ctx context.Context, height int64) (*etypes.Block, error) {
	var cancel func()
	ctx, cancel = context.WithTimeout(ctx, RpcTimeOut)
	defer cancel()

	return bf.client.BlockByNumber(ctx, big.NewInt(height))
}

// Get block with retry when block is not mined yet.
func (bf *defaultBlockFetcher) tryGetBlock(ctx context.Context) (*etypes.Block, error) {
	number, err := bf.getBlockNumber(ctx)
	if err != nil {
		return nil, err
	}

	if int64(number)-int64(bf.thresholdUpdateBlock) < bf.blockHeight {
		return nil, NewBlockHeightExceededError(number)
	}

	block, err := bf.getBlock(ctx, bf.blockHeight)
	switch {
	case err == nil:
		xcontext.Logger(ctx).Debugf("%s Height = %d", bf.chain, block.Number())
		if bf.blockHeight > 0 && int64(number)-bf.blockHeight > 5 {
			// Catching up, go as fast as allowed.
			bf.blockTime = MinWaitTime
		}
		return block, nil

	case errors.Is(err, ethereum.NotFound):
		// Sleep a few seconds and to get the block again.
		if !sleep(ctx, time.Duration(math.MinInt(bf.blockTime/4, 3000))*time.Millisecond) {
			return nil, ctx.Err()
		}
		block, err = bf.getBlock(ctx, bf.blockHeight)

		// Extend the wait time a little bit more
		bf.blockTime = bf.blockTime + bf.adjustTime
	}

	return block, err
}

func (bf *defaultBlockFetcher) getBlockNumber(ctx context.Context) (uint64, error) {
	var cancel func()
	ctx, cancel = context.WithTimeout(ctx, RpcTimeOut)
	defer cancel()

	return bf.client.BlockNumber(ctx)
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

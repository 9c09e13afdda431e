package mocks

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/questx-lab/mintstudio/internal/domain/blockchain"
	"github.com/stretchr/testify/mock"
)

type Boundary struct {
	mock.Mock
}

func (b *Boundary) SimulateCall(arg1 context.Context, arg2 blockchain.Call) error {
	args := b.Called(arg1, arg2)

	return args.Error(0)
}

func (b *Boundary) SubmitCall(arg1 context.Context, arg2 blockchain.Call) (common.Hash, error) {
	args := b.Called(arg1, arg2)

	if args.Get(0) == nil {
		return common.Hash{}, args.Error(1)
	}
	return args.Get(0).(common.Hash), args.Error(1)
}

func (b *Boundary) AwaitConfirmation(arg1 context.Context, arg2 common.Hash) (*blockchain.Confirmation, error) {
	args := b.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blockchain.Confirmation), args.Error(1)
}

type Session struct {
	Account   common.Address
	Connected bool
}

func (s *Session) ConnectedAccount() (common.Address, bool) {
	return s.Account, s.Connected
}

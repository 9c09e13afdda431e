package testutil

import (
	"context"

	"github.com/questx-lab/mintstudio/config"
	"github.com/questx-lab/mintstudio/pkg/logger"
	"github.com/questx-lab/mintstudio/pkg/xcontext"
)

const (
	OwnerAddress    = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	OtherAddress    = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	ContractAddress = "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB"
)

func MockContext() context.Context {
	cfg := config.Configs{
		Env: "test",
		Chain: config.ChainConfig{
			Name:         "apollo",
			ChainID:      62606,
			NativeSymbol: "APOLLO",
		},
		Contract: config.ContractConfigs{
			Address:          ContractAddress,
			Owner:            OwnerAddress,
			SetBaseURIMethod: "setBaseURI",
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	return ctx
}

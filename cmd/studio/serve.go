package main

import (
	"net/http"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/questx-lab/mintstudio/pkg/prometheus"
	"github.com/questx-lab/mintstudio/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startServe(*cli.Context) error {
	s.loadStudio()
	cfg := xcontext.Configs(s.ctx)

	go func() {
		httpSrv := prometheus.NewServer(cfg.PrometheusServer)
		xcontext.Logger(s.ctx).Infof("Starting prometheus on port: %s", cfg.PrometheusServer.Port)
		if err := httpSrv.ListenAndServe(); err != nil {
			panic(err)
		}
		xcontext.Logger(s.ctx).Infof("Server prometheus stop")
	}()

	rpcHandler := rpc.NewServer()
	defer rpcHandler.Stop()
	err := rpcHandler.RegisterName(cfg.RPCServer.RPCName, s.service)
	if err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot register studio service: %v", err)
		return err
	}

	xcontext.Logger(s.ctx).Infof("Started rpc server of studio on %s", cfg.RPCServer.Address())
	httpSrv := &http.Server{
		Handler: rpcHandler,
		Addr:    cfg.RPCServer.Address(),
	}

	if err := httpSrv.ListenAndServe(); err != nil {
		xcontext.Logger(s.ctx).Errorf("An error occurs when running rpc server: %v", err)
		return err
	}

	return nil
}

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/questx-lab/mintstudio/internal/client"
	"github.com/questx-lab/mintstudio/internal/domain/lifecycle"
	"github.com/questx-lab/mintstudio/internal/domain/studio"
	"github.com/questx-lab/mintstudio/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

const pollInterval = 500 * time.Millisecond

func (s *srv) mint(c *cli.Context) error {
	uri := c.Args().First()
	return s.submit(c, lifecycle.SingleMint,
		func(ctx context.Context) error { return s.studio.Mint(ctx, uri) },
		func(ctx context.Context, caller client.StudioCaller) error { return caller.Mint(ctx, uri) },
	)
}

func (s *srv) batchMint(c *cli.Context) error {
	uri, quantity := c.Args().First(), c.Int(quantityFlag.Name)
	return s.submit(c, lifecycle.BatchMint,
		func(ctx context.Context) error { return s.studio.BatchMint(ctx, uri, quantity) },
		func(ctx context.Context, caller client.StudioCaller) error { return caller.BatchMint(ctx, uri, quantity) },
	)
}

func (s *srv) setBaseURI(c *cli.Context) error {
	uri := c.Args().First()
	return s.submit(c, lifecycle.SetBaseURI,
		func(ctx context.Context) error { return s.studio.SetBaseURI(ctx, uri) },
		func(ctx context.Context, caller client.StudioCaller) error { return caller.SetBaseURI(ctx, uri) },
	)
}

func (s *srv) toggleTheme(c *cli.Context) error {
	if c.Bool(remoteFlag.Name) {
		caller, err := s.dialStudio()
		if err != nil {
			return err
		}
		defer caller.Close()

		theme, err := caller.ToggleTheme(c.Context)
		if err != nil {
			return err
		}

		fmt.Printf("Theme: %s\n", theme)
		return nil
	}

	s.loadSession()
	if err := s.theme.Toggle(); err != nil {
		return err
	}

	if s.theme.IsDark() {
		fmt.Println("Theme: dark")
	} else {
		fmt.Println("Theme: light")
	}
	return nil
}

// submit sends one intent and follows its form until the lifecycle ends.
func (s *srv) submit(
	c *cli.Context,
	kind lifecycle.OperationKind,
	local func(context.Context) error,
	remote func(context.Context, client.StudioCaller) error,
) error {
	if c.Bool(remoteFlag.Name) {
		caller, err := s.dialStudio()
		if err != nil {
			return err
		}
		defer caller.Close()

		if err := remote(c.Context, caller); err != nil {
			return err
		}

		return s.follow(c.Context, kind, func(ctx context.Context) (studio.FormState, error) {
			return caller.State(ctx, string(kind))
		})
	}

	s.loadStudio()
	if err := local(s.ctx); err != nil {
		return err
	}

	return s.follow(c.Context, kind, func(context.Context) (studio.FormState, error) {
		return s.studio.State(kind)
	})
}

func (s *srv) follow(
	ctx context.Context,
	kind lifecycle.OperationKind,
	state func(context.Context) (studio.FormState, error),
) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		current, err := state(ctx)
		if err != nil {
			return err
		}

		if current.Busy {
			continue
		}

		if current.Phase != lifecycle.PhaseSucceeded.String() {
			return cli.Exit(fmt.Sprintf("%s %s", kind, current.Phase), 1)
		}

		if current.TxHash != "" && s.configs.Chain.ExplorerURL != "" {
			fmt.Printf("%s/tx/%s\n", strings.TrimSuffix(s.configs.Chain.ExplorerURL, "/"), current.TxHash)
		}
		return nil
	}
}

func (s *srv) dialStudio() (client.StudioCaller, error) {
	endpoint := s.configs.RPCServer.Endpoint
	if endpoint == "" {
		endpoint = "http://" + s.configs.RPCServer.Address()
	}

	rpcClient, err := rpc.DialContext(s.ctx, endpoint)
	if err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot dial studio server %s: %v", endpoint, err)
		return nil, err
	}

	return client.NewStudioCaller(rpcClient), nil
}

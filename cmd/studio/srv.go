package main

import (
	"context"
	"os"

	"github.com/questx-lab/mintstudio/config"
	"github.com/questx-lab/mintstudio/internal/domain/blockchain/eth"
	"github.com/questx-lab/mintstudio/internal/domain/notification"
	"github.com/questx-lab/mintstudio/internal/domain/studio"
	"github.com/questx-lab/mintstudio/internal/session"
	"github.com/questx-lab/mintstudio/pkg/kafka"
	"github.com/questx-lab/mintstudio/pkg/logger"
	"github.com/questx-lab/mintstudio/pkg/xcontext"
	"github.com/questx-lab/mintstudio/pkg/xredis"
	"github.com/urfave/cli/v2"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs *config.Configs

	redisClient xredis.Client
	wallet      *session.Wallet
	theme       *session.Theme

	board    *notification.Board
	notifier notification.Notifier

	ethClient eth.EthClient
	boundary  *eth.EthBoundary

	studio  *studio.Studio
	service *studio.Service
}

func init() {
	server.ctx = context.Background()
}

func (s *srv) loadLogger() {
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(s.configs.LogLevel)))
}

func (s *srv) loadRedisClient() {
	if s.configs.Redis.Addr == "" {
		xcontext.Logger(s.ctx).Infof("No redis address, tracked transactions are kept in memory")
		s.redisClient = xredis.NewMemoryClient()
		return
	}

	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadSession() {
	var err error
	s.wallet, err = session.NewWalletFromConfigs(s.configs.Wallet)
	if err != nil {
		panic(err)
	}

	s.theme, err = session.LoadTheme(s.configs.Theme.Path)
	if err != nil {
		panic(err)
	}
}

// loadNotifier prints toasts on the console, keeps them on the board for RPC
// callers and publishes them to kafka when a broker is configured.
func (s *srv) loadNotifier() {
	s.board = notification.NewBoard()
	others := []notification.Notifier{s.board}

	if s.configs.Kafka.Addr != "" {
		publisher, err := kafka.NewPublisher(s.configs.Kafka.NotificationClient, []string{s.configs.Kafka.Addr})
		if err != nil {
			panic(err)
		}

		others = append(others, notification.NewPublisher(s.ctx, publisher, s.configs.Kafka.NotificationTopic))
	}

	s.notifier = notification.NewFanout(notification.NewConsole(os.Stdout, s.theme), others...)
}

func (s *srv) loadBoundary() {
	s.ethClient = eth.NewEthClients(s.configs.Chain)

	var err error
	s.boundary, err = eth.NewEthBoundary(s.ctx, s.ethClient, s.wallet, s.redisClient)
	if err != nil {
		panic(err)
	}

	s.boundary.Start(s.ctx)
}

func (s *srv) loadStudio() {
	s.loadRedisClient()
	s.loadSession()
	s.loadNotifier()
	s.loadBoundary()

	s.studio = studio.New(s.ctx, s.boundary, s.wallet, s.notifier)
	s.service = studio.NewService(s.studio, s.board, s.theme)
}

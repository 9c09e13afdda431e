package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/questx-lab/mintstudio/config"
	"github.com/questx-lab/mintstudio/pkg/xcontext"
)

const (
	apolloChainID     = 62606
	apolloRPC         = "https://mainnet-rpc.apolloscan.io"
	apolloExplorerURL = "https://apolloscan.io"
)

func (s *srv) loadConfig() {
	s.configs = &config.Configs{
		Env:      getEnv("ENV", "local"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Chain: config.ChainConfig{
			Name:                       getEnv("CHAIN_NAME", "apollo"),
			ChainID:                    parseInt64(getEnv("CHAIN_ID", strconv.Itoa(apolloChainID))),
			Rpcs:                       parseList(getEnv("CHAIN_RPCS", apolloRPC)),
			NativeSymbol:               getEnv("CHAIN_NATIVE_SYMBOL", "APOLLO"),
			ExplorerURL:                getEnv("CHAIN_EXPLORER_URL", apolloExplorerURL),
			UseExternalRPC:             parseBool(getEnv("CHAIN_USE_EXTERNAL_RPC", "false")),
			RefreshConnectionFrequency: parseDuration(getEnv("CHAIN_REFRESH_CONNECTION_FREQUENCY", "5m")),
			BlockTime:                  parseInt(getEnv("CHAIN_BLOCK_TIME", "3000")),
			AdjustTime:                 parseInt(getEnv("CHAIN_ADJUST_TIME", "500")),
			ThresholdUpdateBlock:       parseInt(getEnv("CHAIN_THRESHOLD_UPDATE_BLOCK", "1")),
		},
		Contract: config.ContractConfigs{
			Address:          os.Getenv("CONTRACT_ADDRESS"),
			Owner:            os.Getenv("CONTRACT_OWNER"),
			SetBaseURIMethod: getEnv("CONTRACT_SET_BASE_URI_METHOD", "setBaseURI"),
		},
		Wallet: config.WalletConfigs{
			PrivateKey: os.Getenv("WALLET_PRIVATE_KEY"),
			Secret:     os.Getenv("WALLET_SECRET"),
			Nonce:      os.Getenv("WALLET_NONCE"),
		},
		RPCServer: config.RPCServerConfigs{
			ServerConfigs: config.ServerConfigs{
				Host: getEnv("RPC_SERVER_HOST", "localhost"),
				Port: getEnv("RPC_SERVER_PORT", "8081"),
			},
			RPCName:  getEnv("RPC_SERVER_NAME", "studio"),
			Endpoint: os.Getenv("RPC_SERVER_ENDPOINT"),
		},
		PrometheusServer: config.ServerConfigs{
			Host: getEnv("PROMETHEUS_HOST", "localhost"),
			Port: getEnv("PROMETHEUS_PORT", "9090"),
		},
		Redis: config.RedisConfigs{
			Addr: os.Getenv("REDIS_ADDRESS"),
		},
		Kafka: config.KafkaConfigs{
			Addr:               os.Getenv("KAFKA_ADDRESS"),
			NotificationTopic:  getEnv("KAFKA_NOTIFICATION_TOPIC", "studio_notification"),
			NotificationClient: getEnv("KAFKA_NOTIFICATION_CLIENT", "mintstudio"),
		},
		Theme: config.ThemeConfigs{
			Path: getEnv("THEME_PATH", defaultThemePath()),
		},
	}

	s.ctx = xcontext.WithConfigs(s.ctx, *s.configs)
}

func defaultThemePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "mintstudio", "theme.toml")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return fallback
}

func parseList(s string) []string {
	result := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}

	return result
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		panic(err)
	}

	return b
}

func parseInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		panic(err)
	}

	return i
}

func parseInt64(s string) int64 {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		panic(err)
	}

	return i
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(err)
	}

	return d
}

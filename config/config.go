package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env      string
	LogLevel string

	Chain            ChainConfig
	Contract         ContractConfigs
	Wallet           WalletConfigs
	RPCServer        RPCServerConfigs
	PrometheusServer ServerConfigs
	Redis            RedisConfigs
	Kafka            KafkaConfigs
	Theme            ThemeConfigs
}

type ServerConfigs struct {
	Host string
	Port string
}

func (c ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// RPCServerConfigs is where the studio JSON-RPC service listens. Endpoint is
// used by remote commands instead of Host and Port.
type RPCServerConfigs struct {
	ServerConfigs
	RPCName  string
	Endpoint string
}

type ChainConfig struct {
	Name    string   `toml:"name" json:"name"`
	ChainID int64    `toml:"chain_id" json:"chain_id"`
	Rpcs    []string `toml:"rpcs" json:"rpcs"`

	// Symbol of the native currency used to pay gas.
	NativeSymbol string `toml:"native_symbol" json:"native_symbol"`
	ExplorerURL  string `toml:"explorer_url" json:"explorer_url"`

	UseExternalRPC             bool
	RefreshConnectionFrequency time.Duration

	// Block fetcher tuning, in milliseconds.
	BlockTime            int
	AdjustTime           int
	ThresholdUpdateBlock int
}

type ContractConfigs struct {
	Address string

	// Owner is optional. Admin features are disabled when it is empty.
	Owner string

	// Name of the owner-only function updating the base URI.
	SetBaseURIMethod string
}

func (c ContractConfigs) AdminEnabled() bool {
	return c.Owner != ""
}

type WalletConfigs struct {
	// PrivateKey is a hex encoded key. When empty, a key is derived from
	// Secret and Nonce.
	PrivateKey string
	Secret     string
	Nonce      string
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr               string
	NotificationTopic  string
	NotificationClient string
}

type ThemeConfigs struct {
	// Path of the TOML file keeping the persisted theme preference.
	Path string
}

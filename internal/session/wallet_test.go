package session

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/questx-lab/mintstudio/config"
	"github.com/questx-lab/mintstudio/pkg/errorx"
	"github.com/questx-lab/mintstudio/pkg/ethutil"
	"github.com/stretchr/testify/require"
)

func TestWallet_ConnectDisconnect(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	w := NewWallet()
	_, ok := w.ConnectedAccount()
	require.False(t, ok)

	require.NoError(t, w.Connect(hexutil.Encode(ethcrypto.FromECDSA(key))))
	account, ok := w.ConnectedAccount()
	require.True(t, ok)
	require.Equal(t, ethcrypto.PubkeyToAddress(key.PublicKey), account)

	w.Disconnect()
	_, ok = w.ConnectedAccount()
	require.False(t, ok)

	err = w.Connect("zz")
	require.Equal(t, errorx.BadRequest, errorx.CodeOf(err))
}

func TestWallet_SignTx(t *testing.T) {
	w, err := NewWalletFromConfigs(config.WalletConfigs{Secret: "secret", Nonce: "1"})
	require.NoError(t, err)

	expected, err := ethutil.GeneratePublicKey([]byte("secret"), []byte("1"))
	require.NoError(t, err)
	account, ok := w.ConnectedAccount()
	require.True(t, ok)
	require.Equal(t, expected, account)

	chainID := big.NewInt(62606)
	tx := ethtypes.NewTransaction(0, common.Address{}, common.Big0, 21_000, common.Big1, nil)
	signed, err := w.SignTx(tx, chainID)
	require.NoError(t, err)

	sender, err := ethtypes.Sender(ethtypes.LatestSignerForChainID(chainID), signed)
	require.NoError(t, err)
	require.Equal(t, account, sender)

	w.Disconnect()
	_, err = w.SignTx(tx, chainID)
	require.Equal(t, errorx.NotConnected, errorx.CodeOf(err))
}

func TestNewWalletFromConfigs(t *testing.T) {
	w, err := NewWalletFromConfigs(config.WalletConfigs{})
	require.NoError(t, err)
	_, ok := w.ConnectedAccount()
	require.False(t, ok)

	_, err = NewWalletFromConfigs(config.WalletConfigs{PrivateKey: "0x1234"})
	require.Error(t, err)
}

func TestNewWalletFromConfigs_sameAccountEveryRun(t *testing.T) {
	cfg := config.WalletConfigs{Secret: "secret", Nonce: "1"}

	first, err := NewWalletFromConfigs(cfg)
	require.NoError(t, err)
	expected, _ := first.ConnectedAccount()

	for i := 0; i < 10; i++ {
		w, err := NewWalletFromConfigs(cfg)
		require.NoError(t, err)
		account, ok := w.ConnectedAccount()
		require.True(t, ok)
		require.Equal(t, expected, account)
	}
}

package session

import (
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/questx-lab/mintstudio/config"
	"github.com/questx-lab/mintstudio/pkg/errorx"
	"github.com/questx-lab/mintstudio/pkg/ethutil"
)

// Wallet is the connected account of this process. It is safe for
// concurrent use.
type Wallet struct {
	mutex sync.RWMutex
	key   *ecdsa.PrivateKey
}

func NewWallet() *Wallet {
	return &Wallet{}
}

// NewWalletFromConfigs connects the key given in cfg, if any. A hex
// PrivateKey takes precedence over a Secret/Nonce pair.
func NewWalletFromConfigs(cfg config.WalletConfigs) (*Wallet, error) {
	w := NewWallet()

	switch {
	case cfg.PrivateKey != "":
		if err := w.Connect(cfg.PrivateKey); err != nil {
			return nil, err
		}

	case cfg.Secret != "":
		key, err := ethutil.GeneratePrivateKey([]byte(cfg.Secret), []byte(cfg.Nonce))
		if err != nil {
			return nil, err
		}
		w.connect(key)
	}

	return w, nil
}

// Connect replaces the current account with the one of hexKey.
func (w *Wallet) Connect(hexKey string) error {
	key, err := ethutil.ParsePrivateKey(hexKey)
	if err != nil {
		return errorx.New(errorx.BadRequest, "Invalid private key")
	}

	w.connect(key)
	return nil
}

func (w *Wallet) connect(key *ecdsa.PrivateKey) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.key = key
}

func (w *Wallet) Disconnect() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.key = nil
}

func (w *Wallet) ConnectedAccount() (common.Address, bool) {
	w.mutex.RLock()
	defer w.mutex.RUnlock()

	if w.key == nil {
		return common.Address{}, false
	}

	return ethcrypto.PubkeyToAddress(w.key.PublicKey), true
}

// SignTx signs tx for chainID with the connected key.
func (w *Wallet) SignTx(tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error) {
	w.mutex.RLock()
	key := w.key
	w.mutex.RUnlock()

	if key == nil {
		return nil, errorx.New(errorx.NotConnected, "Connect your wallet first")
	}

	return ethtypes.SignTx(tx, ethtypes.LatestSignerForChainID(chainID), key)
}

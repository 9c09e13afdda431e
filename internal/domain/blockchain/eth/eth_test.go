package eth

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/questx-lab/mintstudio/pkg/testutil"
	"github.com/stretchr/testify/require"
)

var testChainID = big.NewInt(62606)

type testSigner struct {
	key       *ecdsa.PrivateKey
	connected bool
}

func newTestSigner(t *testing.T) *testSigner {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return &testSigner{key: key, connected: true}
}

func (s *testSigner) ConnectedAccount() (common.Address, bool) {
	return crypto.PubkeyToAddress(s.key.PublicKey), s.connected
}

func (s *testSigner) SignTx(tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error) {
	return ethtypes.SignTx(tx, ethtypes.LatestSignerForChainID(chainID), s.key)
}

func newSignedTx(t *testing.T, signer *testSigner, nonce uint64, data []byte) *ethtypes.Transaction {
	tx := ethtypes.NewTransaction(
		nonce, common.HexToAddress(testutil.ContractAddress), common.Big0, 100_000, big.NewInt(1_000_000_000), data)

	signed, err := signer.SignTx(tx, testChainID)
	require.NoError(t, err)
	return signed
}

package core_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/core"
	"github.com/matthieu/execore/core/types"
	"github.com/matthieu/execore/crypto"
	"github.com/matthieu/execore/params"
)

func signedLegacyTx(t *testing.T, config *params.ChainConfig, blockNumber *big.Int, nonce uint64, gas uint64, gasPrice *big.Int) *types.Transaction {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	to := common.BytesToAddress([]byte{0xaa})
	tx := types.NewTx(&types.LegacyTx{
		AccountNonce: nonce,
		Price:        gasPrice,
		GasLimit:     gas,
		Recipient:    &to,
		Amount:       big.NewInt(0),
		Payload:      nil,
		V:            new(big.Int), R: new(big.Int), S: new(big.Int),
	})

	signer := types.MakeSigner(config, blockNumber)
	signed, err := types.SignTx(tx, signer, key)
	require.NoError(t, err)
	return signed
}

func TestPreValidateTransactionAcceptsWellFormedLegacyTx(t *testing.T) {
	config := params.AllProtocolChanges
	blockNumber := big.NewInt(1)
	tx := signedLegacyTx(t, config, blockNumber, 0, 21000, big.NewInt(1))

	res := core.PreValidateTransaction(tx, blockNumber, config, big.NewInt(0))

	assert.Equal(t, core.Ok, res)
}

func TestPreValidateTransactionRejectsInsufficientIntrinsicGas(t *testing.T) {
	config := params.AllProtocolChanges
	blockNumber := big.NewInt(1)
	tx := signedLegacyTx(t, config, blockNumber, 0, 20000, big.NewInt(1))

	res := core.PreValidateTransaction(tx, blockNumber, config, big.NewInt(0))

	assert.Equal(t, core.IntrinsicGas, res)
}

func TestPreValidateTransactionRejectsUnsupportedTypeBeforeFork(t *testing.T) {
	config := &params.ChainConfig{
		ChainID:        big.NewInt(1337),
		HomesteadBlock: big.NewInt(0),
		EIP155Block:    big.NewInt(0),
	}
	blockNumber := big.NewInt(1)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	to := common.BytesToAddress([]byte{0xaa})
	tx := types.NewTx(&types.AccessListTx{
		ChainID: config.ChainID, Nonce: 0, GasPrice: big.NewInt(1), Gas: 21000,
		To: &to, Value: big.NewInt(0), V: new(big.Int), R: new(big.Int), S: new(big.Int),
	})
	signer := types.MakeSigner(config, blockNumber)
	signed, err := types.SignTx(tx, signer, key)
	require.NoError(t, err)

	res := core.PreValidateTransaction(signed, blockNumber, config, nil)

	assert.Equal(t, core.UnsupportedTransactionType, res)
}

func TestPreValidateTransactionRejectsMaxFeeBelowBase(t *testing.T) {
	config := params.AllProtocolChanges
	blockNumber := big.NewInt(1)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	to := common.BytesToAddress([]byte{0xaa})
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID: config.ChainID, Nonce: 0, GasTipCap: big.NewInt(1), GasFeeCap: big.NewInt(10),
		Gas: 21000, To: &to, Value: big.NewInt(0), V: new(big.Int), R: new(big.Int), S: new(big.Int),
	})
	signer := types.MakeSigner(config, blockNumber)
	signed, err := types.SignTx(tx, signer, key)
	require.NoError(t, err)

	res := core.PreValidateTransaction(signed, blockNumber, config, big.NewInt(100))

	assert.Equal(t, core.MaxFeeLessThanBase, res)
}

func TestPreValidateTransactionRejectsPriorityFeeAboveMax(t *testing.T) {
	config := params.AllProtocolChanges
	blockNumber := big.NewInt(1)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	to := common.BytesToAddress([]byte{0xaa})
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID: config.ChainID, Nonce: 0, GasTipCap: big.NewInt(20), GasFeeCap: big.NewInt(10),
		Gas: 21000, To: &to, Value: big.NewInt(0), V: new(big.Int), R: new(big.Int), S: new(big.Int),
	})
	signer := types.MakeSigner(config, blockNumber)
	signed, err := types.SignTx(tx, signer, key)
	require.NoError(t, err)

	res := core.PreValidateTransaction(signed, blockNumber, config, big.NewInt(1))

	assert.Equal(t, core.MaxPriorityFeeGreaterThanMax, res)
}

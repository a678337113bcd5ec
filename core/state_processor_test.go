package core_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/core"
	"github.com/matthieu/execore/core/state"
	"github.com/matthieu/execore/core/types"
	"github.com/matthieu/execore/core/vm"
	"github.com/matthieu/execore/crypto"
	"github.com/matthieu/execore/ethdb"
	"github.com/matthieu/execore/params"
)

// transferVM is a vm.VM fixture that performs no bytecode
// interpretation: it forwards every message straight to the host as a
// single value-transfer call, exercising the same Host.Call path a real
// engine would drive for a plain ETH transfer.
type transferVM struct{}

func (transferVM) Execute(msg vm.Message, host vm.Host, txCtx vm.TxContext) vm.CallResult {
	return host.Call(msg)
}

func newTestHeader(beneficiary []byte) *types.Header {
	return &types.Header{
		Beneficiary: common.BytesToAddress(beneficiary),
		Number:      big.NewInt(1),
		GasLimit:    1_000_000,
		Difficulty:  big.NewInt(1),
	}
}

func TestExecutionProcessorExecutesSimpleTransfer(t *testing.T) {
	config := params.AllProtocolChanges
	kv := ethdb.NewMemoryDB()
	db := state.New(state.NewDatabase(kv))

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sender := crypto.PubkeyToAddress(key.PublicKey)
	recipient := common.BytesToAddress([]byte{0x09})

	db.AddBalance(sender, big.NewInt(1_000_000_000))

	header := newTestHeader([]byte{0xb0})
	to := recipient
	tx := types.NewTx(&types.LegacyTx{
		AccountNonce: 0,
		Price:        big.NewInt(1),
		GasLimit:     21000,
		Recipient:    &to,
		Amount:       big.NewInt(1000),
		V:            new(big.Int), R: new(big.Int), S: new(big.Int),
	})
	signer := types.MakeSigner(config, header.Number)
	signed, err := types.SignTx(tx, signer, key)
	require.NoError(t, err)

	block := types.NewBlock(header, types.Transactions{signed}, nil)
	header.TransactionsRoot = block.Transactions().RootHash()

	processor := core.NewExecutionProcessor(config, nil, transferVM{}, db, header, core.NewCallTracer())
	receipt, err := processor.ExecuteTransaction(signed, mustMessage(t, signed, signer, header.BaseFeePerGas))
	require.NoError(t, err)

	assert.Equal(t, uint64(21000), receipt.GasUsed)
	assert.Equal(t, big.NewInt(1000), db.GetBalance(recipient))
	assert.Equal(t, uint64(1), db.GetNonce(sender))
}

func TestExecuteAndWriteBlockRejectsWrongBlockGas(t *testing.T) {
	config := params.AllProtocolChanges
	kv := ethdb.NewMemoryDB()
	db := state.New(state.NewDatabase(kv))

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sender := crypto.PubkeyToAddress(key.PublicKey)
	db.AddBalance(sender, big.NewInt(1_000_000_000))

	header := newTestHeader([]byte{0xb0})
	to := common.BytesToAddress([]byte{0x09})
	tx := types.NewTx(&types.LegacyTx{
		AccountNonce: 0, Price: big.NewInt(1), GasLimit: 21000,
		Recipient: &to, Amount: big.NewInt(1), V: new(big.Int), R: new(big.Int), S: new(big.Int),
	})
	signer := types.MakeSigner(config, header.Number)
	signed, err := types.SignTx(tx, signer, key)
	require.NoError(t, err)

	header.GasUsed = 99999 // deliberately wrong
	block := types.NewBlock(header, types.Transactions{signed}, nil)
	header.TransactionsRoot = block.Transactions().RootHash()

	processor := core.NewExecutionProcessor(config, nil, transferVM{}, db, header, core.NewCallTracer())
	_, res, err := processor.ExecuteAndWriteBlock(block, signer)

	require.NoError(t, err)
	assert.Equal(t, core.WrongBlockGas, res)
}

func mustMessage(t *testing.T, tx *types.Transaction, signer types.Signer, baseFee *big.Int) types.Message {
	t.Helper()
	msg, err := tx.AsMessage(signer, baseFee)
	require.NoError(t, err)
	return msg
}

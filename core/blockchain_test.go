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
	"github.com/matthieu/execore/ethdb"
	"github.com/matthieu/execore/params"
	"github.com/matthieu/execore/trie"
)

func testConfig() *params.ChainConfig {
	return params.AllProtocolChanges
}

// noTxVM is a vm.VM fixture for tests that only exercise empty-body
// blocks: execution never reaches a transaction, so Execute should
// never actually be invoked.
type noTxVM struct{}

func (noTxVM) Execute(msg vm.Message, host vm.Host, txCtx vm.TxContext) vm.CallResult {
	panic("noTxVM: unexpected Execute call in an empty-block test")
}

func emptyBlockHeader(number uint64, parent common.Hash, difficulty int64) *types.Header {
	return &types.Header{
		ParentHash:       parent,
		OmmersHash:       trie.EmptyRootHash,
		TransactionsRoot: trie.EmptyRootHash,
		ReceiptsRoot:     trie.EmptyRootHash,
		Difficulty:       big.NewInt(difficulty),
		Number:           new(big.Int).SetUint64(number),
		GasLimit:         8_000_000,
		Beneficiary:      common.BytesToAddress([]byte{0xb0}),
	}
}

func newTestChain(t *testing.T) (*core.BlockChain, *state.StateDB) {
	t.Helper()
	kv := ethdb.NewMemoryDB()
	db := state.New(state.NewDatabase(kv))
	genesis := types.NewBlock(emptyBlockHeader(0, common.Hash{}, 1), nil, nil)
	bc, err := core.NewBlockChain(testConfig(), noTxVM{}, kv, db, genesis)
	require.NoError(t, err)
	return bc, db
}

func TestInsertBlockExtendsCanonicalChain(t *testing.T) {
	bc, _ := newTestChain(t)
	genesisHash := emptyBlockHeader(0, common.Hash{}, 1).Hash()

	block1 := types.NewBlock(emptyBlockHeader(1, genesisHash, 1), nil, nil)
	res := bc.InsertBlock(block1, false)

	assert.Equal(t, core.Ok, res)
	assert.Equal(t, block1.Header(), bc.GetHeaderByNumber(1))
}

func TestInsertBlockUnknownParentRejected(t *testing.T) {
	bc, _ := newTestChain(t)
	orphan := types.NewBlock(emptyBlockHeader(5, common.BytesToHash([]byte{0xff}), 1), nil, nil)

	res := bc.InsertBlock(orphan, false)

	assert.Equal(t, core.UnknownParent, res)
}

func TestInsertBlockCachesBadBlock(t *testing.T) {
	bc, _ := newTestChain(t)
	orphan := types.NewBlock(emptyBlockHeader(5, common.BytesToHash([]byte{0xff}), 1), nil, nil)

	first := bc.InsertBlock(orphan, false)
	second := bc.InsertBlock(orphan, false)

	assert.Equal(t, core.UnknownParent, first)
	assert.Equal(t, core.UnknownParent, second)
}

func TestInsertBlockRewardsBeneficiary(t *testing.T) {
	bc, db := newTestChain(t)
	genesisHash := emptyBlockHeader(0, common.Hash{}, 1).Hash()
	beneficiary := common.BytesToAddress([]byte{0xb0})

	header := emptyBlockHeader(1, genesisHash, 1)
	block1 := types.NewBlock(header, nil, nil)
	require.Equal(t, core.Ok, bc.InsertBlock(block1, false))

	assert.True(t, db.GetBalance(beneficiary).Sign() > 0)
}

func TestInsertBlockReorgsToHeavierSidechain(t *testing.T) {
	bc, db := newTestChain(t)
	genesisHash := emptyBlockHeader(0, common.Hash{}, 1).Hash()

	chainABlock1 := types.NewBlock(emptyBlockHeader(1, genesisHash, 10), nil, nil)
	require.Equal(t, core.Ok, bc.InsertBlock(chainABlock1, false))

	// A heavier competing block at the same height should trigger a
	// reorg once it out-weighs the current tip.
	chainBBlock1 := types.NewBlock(emptyBlockHeader(1, genesisHash, 20), nil, nil)
	chainBBlock1.Header().Beneficiary = common.BytesToAddress([]byte{0xc1})
	res := bc.InsertBlock(chainBBlock1, false)

	require.Equal(t, core.Ok, res)
	assert.Equal(t, chainBBlock1.Header(), bc.GetHeaderByNumber(1))
	assert.True(t, db.GetBalance(common.BytesToAddress([]byte{0xc1})).Sign() > 0)
}

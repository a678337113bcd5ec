package core

import (
	"fmt"
	"math/big"

	lru "github.com/hashicorp/golang-lru"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/core/state"
	"github.com/matthieu/execore/core/types"
	"github.com/matthieu/execore/core/vm"
	"github.com/matthieu/execore/ethdb"
	"github.com/matthieu/execore/internal/glog"
	"github.com/matthieu/execore/params"
)

// badBlockCacheSize bounds the bad_blocks cache; sized generously since
// a re-org of any realistic depth touches far fewer blocks than this.
const badBlockCacheSize = 1024

var bclog = glog.New("component", "blockchain")

// BlockChain is the driver that owns the canonical chain: it holds
// State, ChainConfig, and the bad_blocks cache, and is the only caller
// of ExecutionProcessor (§4.F). Grounded on Silkworm's Blockchain class
// (original_source/core/silkworm/chain/blockchain.hpp), whose fields
// state_/config_/bad_blocks_/receipts_ map directly onto state/config/
// badBlocks/store below; the teacher contributes the surrounding
// goroutine-free, single-owner driver style (core/blockchain.go was a
// much larger go-ethereum type — this generalizes its insert/reorg
// shape down to the spec's narrower insert_block contract).
type BlockChain struct {
	config *params.ChainConfig
	engine vm.VM
	store  *chainStore
	state  *state.StateDB
	tracer *CallTracer

	badBlocks *lru.Cache

	head uint64
}

// NewBlockChain constructs a driver over kv, seeding the genesis block
// as canonical block 0 if the store is empty. The caller is expected to
// have already reflected genesis's allocation into db (§4.F: "Seeded
// with a genesis Block whose allocation the State already reflects").
func NewBlockChain(config *params.ChainConfig, engine vm.VM, kv ethdb.KeyValueStore, db *state.StateDB, genesis *types.Block) (*BlockChain, error) {
	store := newChainStore(kv)
	bad, err := lru.New(badBlockCacheSize)
	if err != nil {
		return nil, err
	}
	bc := &BlockChain{config: config, engine: engine, store: store, state: db, badBlocks: bad, tracer: NewCallTracer()}

	if _, ok := store.readCanonical(0); !ok {
		if err := store.writeBlock(genesis); err != nil {
			return nil, err
		}
		if err := store.writeCanonical(0, genesis.Hash()); err != nil {
			return nil, err
		}
		if err := store.writeTotalDifficulty(genesis.Hash(), genesis.TotalDifficulty()); err != nil {
			return nil, err
		}
		bc.head = 0
		return bc, nil
	}

	bc.head = bc.findHead()
	return bc, nil
}

func (bc *BlockChain) findHead() uint64 {
	n := uint64(0)
	for {
		if _, ok := bc.store.readCanonical(n + 1); !ok {
			return n
		}
		n++
	}
}

// GetHeaderByNumber satisfies ChainContext for the BLOCKHASH opcode
// adapter (core/evm_context.go), resolving strictly along the
// canonical chain.
func (bc *BlockChain) GetHeaderByNumber(number uint64) *types.Header {
	hash, ok := bc.store.readCanonical(number)
	if !ok {
		return nil
	}
	h, _ := bc.store.readHeader(hash)
	return h
}

// InsertBlock is insert_block (§4.F): validates, reorganizes onto block
// if it out-weighs the current tip, executes it, and updates the
// canonical pointer.
func (bc *BlockChain) InsertBlock(block *types.Block, checkStateRoot bool) ValidationResult {
	hash := block.Hash()

	if cached, ok := bc.badBlocks.Get(hash); ok {
		return cached.(ValidationResult)
	}

	if res := bc.preValidateBlock(block); res != Ok {
		bclog.Warn("rejecting block", "number", block.NumberU64(), "hash", hash, "reason", res)
		bc.badBlocks.Add(hash, res)
		return res
	}

	// The new block must be durable before intermediateChain can walk
	// back through it on a later call extending this same sidechain.
	if err := bc.store.writeBlock(block); err != nil {
		bc.badBlocks.Add(hash, UnknownParent)
		return UnknownParent
	}

	tip := bc.head
	ancestor := bc.canonicalAncestor(block.Header(), hash)

	tipHash, _ := bc.store.readCanonical(tip)
	tipTD := bc.store.readTotalDifficulty(tipHash)
	parentTD := bc.store.readTotalDifficulty(block.ParentHash())
	blockTD := new(big.Int).Add(parentTD, block.Header().Difficulty)
	block.SetTotalDifficulty(blockTD)
	if err := bc.store.writeTotalDifficulty(hash, blockTD); err != nil {
		bc.badBlocks.Add(hash, UnknownParent)
		return UnknownParent
	}

	reorg := ancestor < tip && blockTD.Cmp(tipTD) > 0
	var priorCanonical map[uint64]common.Hash
	if reorg {
		bclog.Info("reorganizing chain", "ancestor", ancestor, "old_tip", tip, "new_block", block.NumberU64())
		priorCanonical = make(map[uint64]common.Hash, tip-ancestor)
		for n := ancestor + 1; n <= tip; n++ {
			if h, ok := bc.store.readCanonical(n); ok {
				priorCanonical[n] = h
			}
		}

		if err := bc.unwindLastChanges(ancestor, tip); err != nil {
			bc.badBlocks.Add(hash, UnknownParent)
			return UnknownParent
		}
		for _, sideBlock := range bc.intermediateChain(block.NumberU64(), hash, ancestor) {
			if err := bc.store.writeCanonical(sideBlock.NumberU64(), sideBlock.Hash()); err != nil {
				bc.badBlocks.Add(hash, UnknownParent)
				return UnknownParent
			}
		}
		res, err := bc.reExecuteCanonicalChain(ancestor, block.NumberU64()-1)
		if err != nil || res != Ok {
			bc.badBlocks.Add(hash, res)
			bc.restoreCanonical(ancestor, tip, priorCanonical)
			return res
		}
		bc.head = block.NumberU64() - 1
	}

	signer := types.MakeSigner(bc.config, block.Number())
	processor := NewExecutionProcessor(bc.config, bc, bc.engine, bc.state, block.Header(), bc.tracer)
	receipts, res, err := processor.ExecuteAndWriteBlock(block, signer)
	if err != nil || res != Ok {
		bc.badBlocks.Add(hash, res)
		bc.restoreCanonical(ancestor, tip, priorCanonical)
		return res
	}

	if checkStateRoot {
		if bc.state.StateRoot() != block.Header().StateRoot {
			bc.badBlocks.Add(hash, WrongStateRoot)
			bc.restoreCanonical(ancestor, tip, priorCanonical)
			return WrongStateRoot
		}
	}

	if err := bc.store.writeReceipts(hash, receipts); err != nil {
		bc.badBlocks.Add(hash, UnknownParent)
		return UnknownParent
	}
	if err := bc.store.writeCanonical(block.NumberU64(), hash); err != nil {
		bc.badBlocks.Add(hash, UnknownParent)
		return UnknownParent
	}
	bc.head = block.NumberU64()
	bclog.Info("inserted block", "number", block.NumberU64(), "hash", hash, "txs", len(block.Transactions()))
	return Ok
}

// restoreCanonical re-establishes the chain that was canonical before a
// failed reorg attempt, matching step 7's "restore prior canonical by
// unwind + re-execute" on failure. priorCanonical is nil when no reorg
// was attempted, in which case there is nothing to restore.
func (bc *BlockChain) restoreCanonical(ancestor, priorTip uint64, priorCanonical map[uint64]common.Hash) {
	if priorCanonical == nil || priorTip <= ancestor {
		return
	}
	if err := bc.unwindLastChanges(ancestor, bc.head); err != nil {
		return
	}
	for n := ancestor + 1; n <= priorTip; n++ {
		if h, ok := priorCanonical[n]; ok {
			_ = bc.store.writeCanonical(n, h)
		}
	}
	if res, err := bc.reExecuteCanonicalChain(ancestor, priorTip); err == nil && res == Ok {
		bc.head = priorTip
	}
}

// preValidateBlock checks the header against its parent, ommer count
// and depth, and that the body matches the header's commitments,
// grounded on Silkworm's pre_validate_block (blockchain.hpp) and §4.F.
func (bc *BlockChain) preValidateBlock(block *types.Block) ValidationResult {
	header := block.Header()
	parent, ok := bc.store.readHeader(header.ParentHash)
	if !ok {
		return UnknownParent
	}
	if header.NumberU64() != parent.NumberU64()+1 {
		return InvalidOmmerHeader
	}
	if len(block.Ommers()) > params.MaxOmmerDepth {
		return TooManyOmmers
	}
	for _, ommer := range block.Ommers() {
		if ommer.NumberU64() >= header.NumberU64() {
			return InvalidOmmerHeader
		}
		if header.NumberU64()-ommer.NumberU64() > 6 {
			return InvalidOmmerHeader
		}
	}
	if block.Transactions().RootHash() != header.TransactionsRoot {
		return InvalidOmmerHeader
	}
	return Ok
}

// canonicalAncestor walks parent pointers from (header, hash) until it
// reaches a block number whose canonical hash matches, returning that
// number (§4.F step 4).
func (bc *BlockChain) canonicalAncestor(header *types.Header, hash common.Hash) uint64 {
	cur, curHash := header, hash
	for {
		if canonHash, ok := bc.store.readCanonical(cur.NumberU64()); ok && canonHash == curHash {
			return cur.NumberU64()
		}
		if cur.NumberU64() == 0 {
			return 0
		}
		parent, ok := bc.store.readHeader(cur.ParentHash)
		if !ok {
			return cur.NumberU64()
		}
		cur, curHash = parent, parent.Hash()
	}
}

// intermediateChain returns the sidechain's blocks from ancestor+1
// through blockNumber-1 inclusive, in ascending order, gathered from
// storage (§4.F step 6). hash identifies the block at blockNumber,
// which must already be durable.
func (bc *BlockChain) intermediateChain(blockNumber uint64, hash common.Hash, ancestor uint64) []*types.Block {
	var chain []*types.Block
	cur, ok := bc.store.readHeader(hash)
	if !ok {
		return nil
	}
	for cur.NumberU64() > ancestor+1 {
		parent, ok := bc.store.readHeader(cur.ParentHash)
		if !ok {
			break
		}
		block, ok := bc.store.readBlock(parent.Hash())
		if ok {
			chain = append(chain, block)
		}
		cur = parent
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// unwindLastChanges reverses every account/storage mutation recorded in
// blocks tip, tip-1, …, ancestor+1's change sets, restoring World State
// to its position at ancestor (§4.F "Unwind").
func (bc *BlockChain) unwindLastChanges(ancestor, tip uint64) error {
	for n := tip; n > ancestor; n-- {
		if err := bc.state.UnwindBlock(n); err != nil {
			return fmt.Errorf("unwind block %d: %w", n, err)
		}
	}
	return nil
}

// reExecuteCanonicalChain replays ancestor+1…tip via
// execute_and_write_block, expecting success since these blocks were
// valid the first time they were canonical (§4.F "Replay").
func (bc *BlockChain) reExecuteCanonicalChain(ancestor, tip uint64) (ValidationResult, error) {
	for n := ancestor + 1; n <= tip; n++ {
		block, ok := bc.store.readBlockByNumber(n)
		if !ok {
			return Ok, fmt.Errorf("missing canonical block %d during replay", n)
		}
		signer := types.MakeSigner(bc.config, block.Number())
		processor := NewExecutionProcessor(bc.config, bc, bc.engine, bc.state, block.Header(), bc.tracer)
		receipts, res, err := processor.ExecuteAndWriteBlock(block, signer)
		if err != nil || res != Ok {
			return res, err
		}
		if err := bc.store.writeReceipts(block.Hash(), receipts); err != nil {
			return Ok, err
		}
	}
	return Ok, nil
}

package core

import (
	"math/big"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/core/types"
	"github.com/matthieu/execore/core/vm"
	"github.com/matthieu/execore/params"
)

// ChainContext is the minimal ancestor-lookup capability the adapter
// needs for the BLOCKHASH opcode, matching the teacher's blockGetter
// interface (core/vm_env.go) generalized to a named type.
type ChainContext interface {
	GetHeaderByNumber(number uint64) *types.Header
}

// NewEVMTxContext builds the per-transaction ambient values the VM
// adapter hands the engine, grounded on
// rohansbansal-go-ethereum's identically named NewEVMTxContext and on
// the teacher's VMEnv.Origin/Value accessors (core/vm_env.go).
func NewEVMTxContext(msg types.Message) vm.TxContext {
	return vm.TxContext{
		Origin:   msg.From(),
		GasPrice: new(big.Int).Set(msg.GasPrice()),
	}
}

// NewEVMBlockContext builds the per-block ambient values (coinbase,
// number, time, difficulty, gas limit, base fee, revision), called by
// ExecutionProcessor.callVM and merged into the per-transaction
// vm.TxContext NewEVMTxContext builds, since vm.TxContext is a single
// flat value type (§4.D boundary) rather than a tx/block split.
func NewEVMBlockContext(header *types.Header, chain ChainContext, config *params.ChainConfig) vm.TxContext {
	return vm.TxContext{
		Coinbase:   header.Beneficiary,
		Number:     new(big.Int).Set(header.Number),
		Time:       header.Time,
		Difficulty: header.Difficulty,
		GasLimit:   header.GasLimit,
		BaseFee:    header.BaseFeePerGas,
		Revision:   config.Revision(header.Number),
	}
}

// GetHash looks up canonical headers by number through
// chain.GetHeaderByNumber, stepping down from header's number minus one,
// until it finds block number n; it does not follow header's parent
// hashes. Adapted from the teacher's VMEnv.GetHash (core/vm_env.go),
// generalized to take the starting header and chain explicitly instead
// of closing over *BlockChain state.
func GetHash(header *types.Header, chain ChainContext, n uint64) common.Hash {
	for h := chain.GetHeaderByNumber(header.NumberU64() - 1); h != nil; h = chain.GetHeaderByNumber(h.NumberU64() - 1) {
		if h.NumberU64() == n {
			return h.Hash()
		}
		if h.NumberU64() == 0 {
			break
		}
	}
	return common.Hash{}
}

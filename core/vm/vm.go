// Package vm defines the thin boundary between the Execution Processor
// and an external EVM engine (§4.D "VM Adapter"): a stable-ABI-shaped
// Go interface the processor calls through, never an interpreter
// implementation. Grounded on the teacher's VMEnv/vm.Database split
// (core/vm_env.go) generalized to the message/host/result shape
// spec.md §6 specifies directly ("trait VM { fn execute(&self, msg,
// host) -> Result }").
package vm

import (
	"math/big"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/params"
)

// StatusCode is the VM engine's outcome classification (§6: "must
// distinguish at minimum Success, Revert, OutOfGas, and generic
// Failure").
type StatusCode int

const (
	Success StatusCode = iota
	Revert
	OutOfGas
	Failure
)

// Message is the VM-facing view of one call: constructed by the
// adapter per-transaction, and recursively for every internal call the
// interpreter makes (§4.D: "constructs msg per-transaction (kind,
// recipient, sender, value, input, gas, depth=0)").
type Message struct {
	Kind      CallKind
	Depth     int
	From      common.Address
	To        common.Address // zero for CREATE
	Value     *big.Int
	Input     []byte
	Gas       uint64
	Salt      common.Hash // CREATE2 only
	Static    bool
}

// CallKind distinguishes the EVM CALL family op that produced a
// sub-message.
type CallKind int

const (
	Call CallKind = iota
	DelegateCall
	CallCode
	StaticCall
	Create
	Create2
)

// CallResult is the VM engine's return value (§6).
type CallResult struct {
	Status        StatusCode
	GasLeft       uint64
	Output        []byte
	CreateAddress common.Address // valid only for Create/Create2, Status == Success
}

// Host is implemented by the adapter and called back into by the VM
// engine for every state access or sub-call, delegating to World State
// with proper journaling (§4.D: "host callbacks that delegate to World
// State with proper journaling").
type Host interface {
	AccountExists(addr common.Address) bool
	GetBalance(addr common.Address) *big.Int
	GetCodeSize(addr common.Address) int
	GetCodeHash(addr common.Address) common.Hash
	GetCode(addr common.Address) []byte
	GetStorage(addr common.Address, key common.Hash) common.Hash
	SetStorage(addr common.Address, key, value common.Hash)
	SelfDestruct(addr, beneficiary common.Address)
	GetTxContext() TxContext
	GetBlockHash(number uint64) common.Hash
	EmitLog(addr common.Address, topics []common.Hash, data []byte)
	Call(msg Message) CallResult

	// AccessAccount/AccessStorageSlot report whether the entry was
	// already warm, marking it warm as a side effect, backing the
	// EIP-2929 access-list gas surcharge the Processor charges before
	// invoking the VM (§4.E bullet 6).
	AccessAccount(addr common.Address) (warmBefore bool)
	AccessStorageSlot(addr common.Address, key common.Hash) (warmBefore bool)
}

// TxContext carries the per-transaction/per-block ambient values the
// EVM opcodes ORIGIN, GASPRICE, COINBASE, TIMESTAMP, etc. read.
type TxContext struct {
	Origin     common.Address
	GasPrice   *big.Int
	Coinbase   common.Address
	Number     *big.Int
	Time       uint64
	Difficulty *big.Int
	GasLimit   uint64
	BaseFee    *big.Int
	Revision   params.Revision
}

// VM is the pluggable capability the Execution Processor calls through
// (§1: "the EVM bytecode interpreter itself — treated as a pluggable VM
// capability").
type VM interface {
	Execute(msg Message, host Host, txCtx TxContext) CallResult
}

// IsPrecompile reports whether addr names one of the revision-gated
// precompiled contracts (§4.D: "owns revision selection and precompile
// dispatch"). ecrecover, sha256, ripemd160 and identity (1-4) are
// active in every revision; modexp and bn256 add/mul/pairing (5-8)
// from Byzantium; blake2f (9) from Istanbul.
func IsPrecompile(addr common.Address, rev params.Revision) bool {
	n := new(big.Int).SetBytes(addr.Bytes())
	if n.Sign() == 0 || n.BitLen() > 8 {
		return false
	}
	id := n.Uint64()
	switch {
	case id >= 1 && id <= 4:
		return true // ecrecover, sha256, ripemd160, identity
	case id >= 5 && id <= 8:
		return rev >= params.Byzantium // modexp, bn256 add/mul/pairing
	case id == 9:
		return rev >= params.Istanbul // blake2f
	default:
		return false
	}
}

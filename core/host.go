package core

import (
	"math/big"

	"github.com/matthieu/execore/core/state"
	"github.com/matthieu/execore/core/types"
	"github.com/matthieu/execore/core/vm"
	"github.com/matthieu/execore/crypto"
	"github.com/matthieu/execore/params"

	"github.com/matthieu/execore/common"
)

// stateHost adapts World State to the vm.Host contract, delegating every
// callback straight through to the StateDB with journaling already
// handled by the StateDB itself (§4.D: "host callbacks that delegate to
// World State with proper journaling"). Grounded on the teacher's
// VMEnv (core/vm_env.go), which plays the identical role against the
// teacher's own vm.Database boundary.
type stateHost struct {
	state  *state.StateDB
	chain  ChainContext
	header *types.Header
	txCtx  vm.TxContext
	tracer *CallTracer
	depth  int
}

func newStateHost(db *state.StateDB, chain ChainContext, header *types.Header, tracer *CallTracer) *stateHost {
	return &stateHost{state: db, chain: chain, header: header, tracer: tracer}
}

func (h *stateHost) AccountExists(addr common.Address) bool { return h.state.Exist(addr) }
func (h *stateHost) GetBalance(addr common.Address) *big.Int { return h.state.GetBalance(addr) }
func (h *stateHost) GetCodeSize(addr common.Address) int      { return h.state.GetCodeSize(addr) }
func (h *stateHost) GetCodeHash(addr common.Address) common.Hash {
	return h.state.GetCodeHash(addr)
}
func (h *stateHost) GetCode(addr common.Address) []byte { return h.state.GetCode(addr) }

func (h *stateHost) GetStorage(addr common.Address, key common.Hash) common.Hash {
	return h.state.GetStorage(addr, key)
}

func (h *stateHost) SetStorage(addr common.Address, key, value common.Hash) {
	h.state.SetStorage(addr, key, value)
}

func (h *stateHost) SelfDestruct(addr, beneficiary common.Address) {
	remaining := h.state.GetBalance(addr)
	if h.txCtx.Revision < params.London && !h.state.HasSuicided(addr) {
		h.state.AddRefund(params.RSelfDestructRefund)
	}
	h.state.RecordSuicide(addr, beneficiary)
	if h.tracer != nil {
		h.tracer.RegisterSelfDestruct(addr, beneficiary, remaining, h.depth)
	}
}

func (h *stateHost) GetTxContext() vm.TxContext { return h.txCtx }

// GetBlockHash answers the BLOCKHASH opcode by walking ancestor headers,
// matching the teacher's VMEnv.GetHash (core/vm_env.go).
func (h *stateHost) GetBlockHash(number uint64) common.Hash {
	return GetHash(h.header, h.chain, number)
}

func (h *stateHost) EmitLog(addr common.Address, topics []common.Hash, data []byte) {
	h.state.PushLog(&types.Log{Address: addr, Topics: topics, Data: data})
}

func (h *stateHost) AccessAccount(addr common.Address) bool { return h.state.AccessAccount(addr) }
func (h *stateHost) AccessStorageSlot(addr common.Address, key common.Hash) bool {
	return h.state.AccessStorage(addr, key)
}

// Call dispatches a nested CALL/CREATE family message. It takes a
// checkpoint, derives the new contract address for CREATE/CREATE2,
// moves msg.Value from the caller to the destination (reverting to the
// checkpoint and failing the frame when the caller cannot afford it),
// and records the frame with the tracer. It does not call back into a
// VM engine; the VM engine implementation is responsible for invoking
// Host.Call recursively as its bytecode interpretation demands one.
func (h *stateHost) Call(msg vm.Message) vm.CallResult {
	snapshot := h.state.Snapshot()
	h.depth = msg.Depth + 1

	dest := msg.To
	isCreate := msg.Kind == vm.Create || msg.Kind == vm.Create2
	if isCreate {
		dest = h.createAddress(msg)
	}

	if msg.Value != nil && msg.Value.Sign() != 0 && msg.Kind != vm.StaticCall {
		if !h.state.CanTransfer(msg.From, msg.Value) {
			h.state.RevertToSnapshot(snapshot)
			return vm.CallResult{Status: vm.Failure}
		}
		h.state.SubBalance(msg.From, msg.Value)
		h.state.AddBalance(dest, msg.Value)
	}

	if h.tracer != nil {
		h.recordTrace(msg, dest)
	}

	// No bytecode interpreter is wired behind this boundary (§1
	// Non-goal): every frame that passes the value-transfer check
	// succeeds with its full gas returned, whatever its input. A
	// CREATE/CREATE2 frame reports CreateAddress only when it carries
	// no init code.
	result := vm.CallResult{Status: vm.Success, GasLeft: msg.Gas}
	if isCreate && len(msg.Input) == 0 {
		result.CreateAddress = dest
	}
	return result
}

// createAddress derives a CREATE/CREATE2 message's new contract address
// (§4.E bullet "contract creation store the creation address"), using
// crypto.CreateAddress/CreateAddress2 rather than msg.To, which is
// documented zero for CREATE. The Processor bumps the creating
// account's nonce before the VM runs (ExecuteTransaction step 4), so
// the nonce CreateAddress derives against is one less than its current
// value.
func (h *stateHost) createAddress(msg vm.Message) common.Address {
	if msg.Kind == vm.Create2 {
		return crypto.CreateAddress2(msg.From, msg.Salt, crypto.Keccak256(msg.Input))
	}
	nonce := h.state.GetNonce(msg.From)
	if nonce > 0 {
		nonce--
	}
	return crypto.CreateAddress(msg.From, nonce)
}

func (h *stateHost) recordTrace(msg vm.Message, dest common.Address) {
	switch msg.Kind {
	case vm.Call:
		h.tracer.RegisterCall(msg.From, msg.To, msg.Value, msg.Gas, msg.Input, msg.Depth)
	case vm.StaticCall:
		h.tracer.RegisterStaticCall(msg.From, msg.To, msg.Gas, msg.Input, msg.Depth)
	case vm.CallCode:
		h.tracer.RegisterCallCode(msg.To, msg.Value, msg.Gas, msg.Input, msg.Depth)
	case vm.DelegateCall:
		h.tracer.RegisterDelegateCall(msg.From, msg.Value, msg.Gas, msg.Input, msg.Depth)
	case vm.Create, vm.Create2:
		h.tracer.RegisterCreate(msg.From, dest, msg.Value, msg.Gas, msg.Input, msg.Depth)
	}
}

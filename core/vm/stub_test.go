package vm_test

import (
	"math/big"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/core/vm"
)

// stubVM is a deterministic, minimal VM fixture used only by this
// package's own tests: it never interprets bytecode, it just reports
// Success and echoes the input back as output for CALL, or mints a
// CREATE address from a fixed counter. Production callers must supply a
// real vm.VM (an evmone/geth-interpreter style engine via cgo or a Go
// port), which is out of scope here (spec.md §1).
type stubVM struct {
	nextCreate uint64
}

func (s *stubVM) Execute(msg vm.Message, host vm.Host, txCtx vm.TxContext) vm.CallResult {
	if msg.Gas == 0 {
		return vm.CallResult{Status: vm.OutOfGas}
	}
	switch msg.Kind {
	case vm.Create, vm.Create2:
		s.nextCreate++
		var addr common.Address
		addr[19] = byte(s.nextCreate)
		return vm.CallResult{Status: vm.Success, GasLeft: msg.Gas / 2, CreateAddress: addr}
	default:
		return vm.CallResult{Status: vm.Success, GasLeft: msg.Gas / 2, Output: msg.Input}
	}
}

type stubHost struct {
	balances map[common.Address]*big.Int
	code     map[common.Address][]byte
	storage  map[common.Address]map[common.Hash]common.Hash
	warm     map[common.Address]bool
}

func newStubHost() *stubHost {
	return &stubHost{
		balances: make(map[common.Address]*big.Int),
		code:     make(map[common.Address][]byte),
		storage:  make(map[common.Address]map[common.Hash]common.Hash),
		warm:     make(map[common.Address]bool),
	}
}

func (h *stubHost) AccountExists(addr common.Address) bool { return h.balances[addr] != nil }
func (h *stubHost) GetBalance(addr common.Address) *big.Int {
	if b, ok := h.balances[addr]; ok {
		return b
	}
	return new(big.Int)
}
func (h *stubHost) GetCodeSize(addr common.Address) int      { return len(h.code[addr]) }
func (h *stubHost) GetCodeHash(addr common.Address) common.Hash { return common.Hash{} }
func (h *stubHost) GetCode(addr common.Address) []byte       { return h.code[addr] }
func (h *stubHost) GetStorage(addr common.Address, key common.Hash) common.Hash {
	return h.storage[addr][key]
}
func (h *stubHost) SetStorage(addr common.Address, key, value common.Hash) {
	if h.storage[addr] == nil {
		h.storage[addr] = make(map[common.Hash]common.Hash)
	}
	h.storage[addr][key] = value
}
func (h *stubHost) SelfDestruct(addr, beneficiary common.Address) { delete(h.balances, addr) }
func (h *stubHost) GetTxContext() vm.TxContext                    { return vm.TxContext{} }
func (h *stubHost) GetBlockHash(number uint64) common.Hash        { return common.Hash{} }
func (h *stubHost) EmitLog(addr common.Address, topics []common.Hash, data []byte) {}
func (h *stubHost) Call(msg vm.Message) vm.CallResult {
	return vm.CallResult{Status: vm.Success, GasLeft: msg.Gas}
}
func (h *stubHost) AccessAccount(addr common.Address) bool {
	warm := h.warm[addr]
	h.warm[addr] = true
	return warm
}
func (h *stubHost) AccessStorageSlot(addr common.Address, key common.Hash) bool {
	return false
}

package core

import (
	"math/big"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/core/types"
)

// CallTracer accumulates types.CallTrace entries for every frame
// stateHost dispatches while it is attached; it is never reset, so a
// tracer shared across transactions and blocks (as BlockChain's is)
// holds all of their entries in order. Adapted from
// the teacher's InternalTxWatcher (core/internals_processor.go),
// repurposed from internal-transaction indexing into the Execution
// Processor's optional diagnostic hook (§4.D).
type CallTracer struct {
	traces types.CallTraces
}

func NewCallTracer() *CallTracer {
	return &CallTracer{traces: make(types.CallTraces, 0)}
}

func (t *CallTracer) SetParentHash(ph common.Hash) {
	for _, tr := range t.traces {
		tr.ParentHash = ph
	}
}

func (t *CallTracer) Traces() types.CallTraces { return t.traces }

func (t *CallTracer) record(kind string, from, to common.Address, value *big.Int, gas uint64, data []byte, depth int) {
	t.traces = append(t.traces, &types.CallTrace{
		From:  from,
		To:    to,
		Value: value,
		Gas:   gas,
		Data:  data,
		Depth: depth,
		Index: len(t.traces),
		Kind:  kind,
	})
}

func (t *CallTracer) RegisterCall(from, to common.Address, value *big.Int, gas uint64, data []byte, depth int) {
	t.record("call", from, to, value, gas, data, depth)
}

func (t *CallTracer) RegisterStaticCall(from, to common.Address, gas uint64, data []byte, depth int) {
	t.record("staticcall", from, to, new(big.Int), gas, data, depth)
}

func (t *CallTracer) RegisterCallCode(contract common.Address, value *big.Int, gas uint64, data []byte, depth int) {
	t.record("callcode", contract, contract, value, gas, data, depth)
}

func (t *CallTracer) RegisterDelegateCall(caller common.Address, value *big.Int, gas uint64, data []byte, depth int) {
	t.record("delegatecall", caller, caller, value, gas, data, depth)
}

func (t *CallTracer) RegisterCreate(from, newContract common.Address, value *big.Int, gas uint64, code []byte, depth int) {
	t.record("create", from, newContract, value, gas, code, depth)
}

func (t *CallTracer) RegisterSelfDestruct(contract, beneficiary common.Address, remaining *big.Int, depth int) {
	t.traces = append(t.traces, &types.CallTrace{
		From:  contract,
		To:    beneficiary,
		Value: remaining,
		Depth: depth,
		Index: len(t.traces),
		Kind:  "selfdestruct",
	})
}

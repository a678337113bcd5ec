package types

import (
	"math/big"

	"github.com/matthieu/execore/common"
)

// CallTrace records one VM sub-call observed while executing a
// transaction: an adaptation of the teacher's InternalTransaction
// bookkeeping, repurposed from a separate indexing feature into an
// optional diagnostic the Execution Processor can attach to a
// transaction's execution (§4.D "the Adapter may additionally expose a
// call-trace hook").
type CallTrace struct {
	ParentHash common.Hash
	From       common.Address
	To         common.Address
	Value      *big.Int
	Gas        uint64
	Data       []byte
	Depth      int
	Index      int
	Kind       string
	Reverted   bool
}

// CallTraces is an ordered sequence of CallTrace entries produced
// during one transaction's execution.
type CallTraces []*CallTrace

func (t *CallTrace) Reject() { t.Reverted = true }

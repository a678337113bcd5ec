// Copyright 2015 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package core

import (
	"math/big"

	"github.com/matthieu/execore/core/state"
	"github.com/matthieu/execore/core/types"
	"github.com/matthieu/execore/core/vm"
	"github.com/matthieu/execore/params"
)

// ExecutionProcessor executes the transactions of one block against
// World State (§4.E). Constructed per-block, exactly as spec.md
// requires: there is no long-lived, cross-block processor instance,
// mirroring Silkworm's ExecutionProcessor lifetime in processor.cpp and
// the teacher's free-function
// ApplyTransaction(config, bc, author, gp, statedb, header, tx, ...)
// call-site shape reworked into a receiver-based type per Go idiom.
type ExecutionProcessor struct {
	config *params.ChainConfig
	chain  ChainContext
	engine vm.VM

	state  *state.StateDB
	header *types.Header
	gp     *GasPool
	tracer *CallTracer

	cumulativeGasUsed uint64
}

// NewExecutionProcessor constructs a processor for header against db,
// matching the teacher's NewStateProcessor(config, bc, engine)
// constructor shape.
func NewExecutionProcessor(config *params.ChainConfig, chain ChainContext, engine vm.VM, db *state.StateDB, header *types.Header, tracer *CallTracer) *ExecutionProcessor {
	return &ExecutionProcessor{
		config: config,
		chain:  chain,
		engine: engine,
		state:  db,
		header: header,
		gp:     new(GasPool).AddGas(header.GasLimit),
		tracer: tracer,
	}
}

// ValidateTransaction runs the stateful checks that must hold
// immediately before execution (§4.E "validate_transaction", called
// after PreValidateTransaction has already succeeded).
func (p *ExecutionProcessor) ValidateTransaction(msg types.Message) ValidationResult {
	if p.state.GetNonce(msg.From()) != msg.Nonce() {
		return WrongNonce
	}

	upfront := upfrontCost(msg)
	if p.state.GetBalance(msg.From()).Cmp(upfront) < 0 {
		return InsufficientFunds
	}

	if msg.Gas() > p.gp.Gas() {
		return BlockGasLimitExceeded
	}
	return Ok
}

// upfrontCost computes gas_limit*max_fee_per_gas + value. Silkworm
// performs this in 512-bit arithmetic to guard against overflow; Go's
// big.Int has no fixed width so the concern doesn't apply, but the
// computation order is kept identical to the source for grounding
// clarity.
func upfrontCost(msg types.Message) *big.Int {
	cost := new(big.Int).SetUint64(msg.Gas())
	cost.Mul(cost, msg.GasFeeCap())
	cost.Add(cost, msg.Value())
	return cost
}

// ExecuteTransaction runs one transaction to completion and returns its
// Receipt (§4.E "execute_transaction", precondition: ValidateTransaction
// already returned Ok), transliterating Silkworm's processor.cpp method
// step-for-step.
func (p *ExecutionProcessor) ExecuteTransaction(tx *types.Transaction, msg types.Message) (*types.Receipt, error) {
	rev := p.config.Revision(p.header.Number)

	// 1. clear_journal_and_substate.
	p.state.ClearJournalAndSubstate()

	// 2. effective_gas_price / effective_priority_fee.
	effectiveGasPrice := tx.EffectiveGasPrice(p.header.BaseFeePerGas)
	priorityFee := tx.EffectivePriorityFeePerGas(p.header.BaseFeePerGas)

	// 3. Debit gas_limit * effective_gas_price from the sender.
	prepay := new(big.Int).Mul(new(big.Int).SetUint64(msg.Gas()), effectiveGasPrice)
	p.state.SubBalance(msg.From(), prepay)

	// 4. Warm sender/recipient; bump the sender's nonce. The bump is
	// made for calls and contract creations alike; stateHost.createAddress
	// derives a CREATE address from the nonce before this bump.
	p.state.AccessAccount(msg.From())
	if msg.To() != nil {
		p.state.AccessAccount(*msg.To())
	}
	p.state.SetNonce(msg.From(), msg.Nonce()+1)

	// 5. Warm every access-list entry.
	for _, tuple := range msg.AccessList() {
		p.state.AccessAccount(tuple.Address)
		for _, key := range tuple.StorageKeys {
			p.state.AccessStorage(tuple.Address, key)
		}
	}

	// 6. Intrinsic gas.
	g0, err := IntrinsicGas(msg.Data(), msg.AccessList(), msg.To() == nil, rev)
	if err != nil {
		return nil, err
	}
	initialGas := msg.Gas() - g0

	// 7. Invoke the VM.
	result := p.callVM(msg, initialGas, rev)

	// 8. Refund: at most gas_used/refund_quotient of the accumulated
	// refund counter is applied; the quotient is 2 before London and 5
	// from London. Below London the counter already includes the
	// self-destruct refund stateHost.SelfDestruct adds.
	gasUsed := msg.Gas() - result.GasLeft
	refundQuotient := params.MaxRefundQuotientFrontier
	if rev >= params.London {
		refundQuotient = params.MaxRefundQuotientLondon
	}
	gasLeft := result.GasLeft
	if result.Status != vm.Revert {
		refund := p.state.GetRefund()
		if maxRefund := gasUsed / refundQuotient; refund > maxRefund {
			refund = maxRefund
		}
		gasLeft += refund
	}
	gasUsed = msg.Gas() - gasLeft

	// 9. Credit gas_left * effective_gas_price back to the sender.
	repay := new(big.Int).Mul(new(big.Int).SetUint64(gasLeft), effectiveGasPrice)
	p.state.AddBalance(msg.From(), repay)

	// 10. Credit gas_used * priority_fee to the beneficiary.
	reward := new(big.Int).Mul(new(big.Int).SetUint64(gasUsed), priorityFee)
	p.state.AddBalance(p.header.Beneficiary, reward)

	if err := p.gp.SubGas(msg.Gas()); err != nil {
		return nil, err
	}
	p.gp.AddGas(gasLeft)

	// 11. Destruct suicides; from Spurious Dragon, also touched-dead
	// accounts (EIP-161).
	p.state.DestructSuicides()
	if rev >= params.SpuriousDragon {
		p.state.DestructTouchedDead()
	}

	// 12. finalize_transaction.
	p.state.FinalizeTransaction()

	// 13. Build the receipt.
	p.cumulativeGasUsed += gasUsed
	receipt := &types.Receipt{
		CumulativeGasUsed: p.cumulativeGasUsed,
		TxHash:            tx.Hash(),
		GasUsed:           gasUsed,
		Logs:              p.state.Logs(),
	}
	if rev < params.Byzantium {
		receipt.PostState = p.state.StateRoot().Bytes()
	}
	receipt.Bloom = types.LogsBloom(receipt.Logs)
	receipt.SetStatus(result.Status != vm.Success)
	if result.Status == vm.Success && msg.To() == nil {
		receipt.ContractAddress = result.CreateAddress
	}
	return receipt, nil
}

func (p *ExecutionProcessor) callVM(msg types.Message, gas uint64, rev params.Revision) vm.CallResult {
	txCtx := NewEVMTxContext(msg)
	blockCtx := NewEVMBlockContext(p.header, p.chain, p.config)
	txCtx.Coinbase = blockCtx.Coinbase
	txCtx.Number = blockCtx.Number
	txCtx.Time = blockCtx.Time
	txCtx.Difficulty = blockCtx.Difficulty
	txCtx.GasLimit = blockCtx.GasLimit
	txCtx.BaseFee = blockCtx.BaseFee
	txCtx.Revision = rev

	host := newStateHost(p.state, p.chain, p.header, p.tracer)
	host.txCtx = txCtx

	vmMsg := vm.Message{
		Kind:  vm.Call,
		Depth: 0,
		From:  msg.From(),
		Value: msg.Value(),
		Input: msg.Data(),
		Gas:   gas,
	}
	if msg.To() != nil {
		vmMsg.To = *msg.To()
	} else {
		vmMsg.Kind = vm.Create
	}
	return p.engine.Execute(vmMsg, host, txCtx)
}

// ExecuteBlockNoPostValidation runs every transaction in block in
// order, applying the DAO hard fork and miner/ommer rewards, without
// checking the header's post-execution commitments (§4.E
// "execute_block_no_post_validation").
func (p *ExecutionProcessor) ExecuteBlockNoPostValidation(block *types.Block, signer types.Signer) (types.Receipts, ValidationResult, error) {
	if p.config.DAOForkSupport && p.config.DAOForkBlock != nil && p.config.DAOForkBlock.Cmp(block.Number()) == 0 {
		ApplyDAOHardFork(p.state, p.config)
	}

	p.cumulativeGasUsed = 0
	receipts := make(types.Receipts, 0, len(block.Transactions()))
	for i, tx := range block.Transactions() {
		p.state.Prepare(tx.Hash(), i)

		msg, err := tx.AsMessage(signer, p.header.BaseFeePerGas)
		if err != nil {
			return nil, MissingSender, nil
		}
		if vr := p.ValidateTransaction(msg); vr != Ok {
			return nil, vr, nil
		}
		receipt, err := p.ExecuteTransaction(tx, msg)
		if err != nil {
			return nil, Ok, err
		}
		receipts = append(receipts, receipt)
	}

	p.ApplyRewards(block)
	return receipts, Ok, nil
}

// ApplyRewards credits the block's miner (and ommer beneficiaries) per
// the revision-gated reward schedule (§4.E "apply_rewards").
func (p *ExecutionProcessor) ApplyRewards(block *types.Block) {
	rev := p.config.Revision(block.Number())
	base := params.BlockRewardFor(rev)
	if base.Sign() == 0 {
		return
	}

	minerReward := new(big.Int).Set(base)
	for _, ommer := range block.Ommers() {
		// ((8 + ommer.number - block.number) * base) / 8
		diff := new(big.Int).Sub(block.Number(), ommer.Number)
		factor := new(big.Int).Sub(big.NewInt(8), diff)
		ommerReward := new(big.Int).Mul(factor, base)
		ommerReward.Div(ommerReward, big.NewInt(8))
		p.state.AddBalance(ommer.Beneficiary, ommerReward)

		extra := new(big.Int).Div(base, big.NewInt(32))
		minerReward.Add(minerReward, extra)
	}
	p.state.AddBalance(block.Header().Beneficiary, minerReward)
}

// ExecuteAndWriteBlock runs ExecuteBlockNoPostValidation and then checks
// every post-execution commitment in the header, persisting State only
// if they all match (§4.E "execute_and_write_block").
func (p *ExecutionProcessor) ExecuteAndWriteBlock(block *types.Block, signer types.Signer) (types.Receipts, ValidationResult, error) {
	receipts, vr, err := p.ExecuteBlockNoPostValidation(block, signer)
	if err != nil || vr != Ok {
		return receipts, vr, err
	}

	if p.cumulativeGasUsed != block.GasUsed() {
		return receipts, WrongBlockGas, nil
	}

	rev := p.config.Revision(block.Number())
	if rev >= params.Byzantium {
		if root := receipts.RootHash(); root != block.Header().ReceiptsRoot {
			return receipts, WrongReceiptsRoot, nil
		}
	}

	var bloom types.Bloom
	for _, r := range receipts {
		bloom.OrBloom(r.Bloom)
	}
	if bloom != block.Header().LogsBloom {
		return receipts, WrongLogsBloom, nil
	}

	if err := p.state.WriteToDB(block.NumberU64()); err != nil {
		return receipts, Ok, err
	}
	return receipts, Ok, nil
}

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

package params

import "math/big"

// Gas cost constants, ported from Silkworm's protocol_param.hpp / fee.hpp
// (original_source) and go-ethereum's params/protocol_params.go naming.
const (
	TxGas                     uint64 = 21000 // per-transaction, non-contract-creation
	TxGasContractCreation     uint64 = 53000 // per-transaction for contract creation
	TxDataZeroGas             uint64 = 4     // per zero byte of payload
	TxDataNonZeroGasFrontier  uint64 = 68    // per non-zero byte of payload, pre-Istanbul
	TxDataNonZeroGasIstanbul  uint64 = 16    // per non-zero byte of payload, Istanbul+ (EIP-2028)
	TxAccessListAddressGas    uint64 = 2400  // per access-list address (EIP-2930)
	TxAccessListStorageKeyGas uint64 = 1900  // per access-list storage key (EIP-2930)

	ColdAccountAccessCostEIP2929 uint64 = 2600
	ColdSloadCostEIP2929         uint64 = 2100
	WarmStorageReadCostEIP2929   uint64 = 100
	SloadGasFrontier             uint64 = 50

	// MaxRefundQuotientFrontier/London bound the portion of consumed gas
	// that may be recovered via the refund counter (§4.E bullet 8).
	MaxRefundQuotientFrontier uint64 = 2
	MaxRefundQuotientLondon   uint64 = 5

	// RSelfDestructRefund is the pre-London gas refund per self-destruct,
	// folded into the refund counter on revisions below London.
	RSelfDestructRefund uint64 = 24000

	MaxCodeSize = 24576 // EIP-170

	MaxOmmerDepth = 2 // at most two ommers may be included in a block (§4.E)
)

// Block reward schedule (§4.E "apply_rewards"), in wei, mirroring
// Silkworm's param::kBlockReward{Frontier,Byzantium,Constantinople}.
var (
	BlockRewardFrontier      = new(big.Int).Mul(big.NewInt(5), big.NewInt(1e18))
	BlockRewardByzantium     = new(big.Int).Mul(big.NewInt(3), big.NewInt(1e18))
	BlockRewardConstantinople = new(big.Int).Mul(big.NewInt(2), big.NewInt(1e18))
)

// BlockRewardFor returns the base miner reward active at revision rev; it
// is zero from the Merge onward (§4.E: "Zero post-Merge").
func BlockRewardFor(rev Revision) *big.Int {
	switch {
	case rev >= Merge:
		return new(big.Int)
	case rev >= Constantinople:
		return new(big.Int).Set(BlockRewardConstantinople)
	case rev >= Byzantium:
		return new(big.Int).Set(BlockRewardByzantium)
	default:
		return new(big.Int).Set(BlockRewardFrontier)
	}
}

// Copyright 2014 The go-ethereum Authors
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

package types

import (
	"math/big"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/crypto"
	"github.com/matthieu/execore/rlp"
)

// Header is the block header (§3). BaseFee is present only from London
// onward (a nil pointer pre-London).
type Header struct {
	ParentHash       common.Hash
	OmmersHash       common.Hash
	Beneficiary      common.Address
	StateRoot        common.Hash
	TransactionsRoot common.Hash
	ReceiptsRoot     common.Hash
	LogsBloom        Bloom
	Difficulty       *big.Int
	Number           *big.Int
	GasLimit         uint64
	GasUsed          uint64
	Time             uint64
	ExtraData        []byte
	MixHash          common.Hash
	Nonce            uint64
	BaseFeePerGas    *big.Int `rlp:"nil"`
}

// Hash returns the Keccak256 hash of the RLP encoding of the header,
// matching the teacher's rlpHash-based Transaction.Hash() convention.
func (h *Header) Hash() common.Hash {
	return crypto.RLPHash(h)
}

// NumberU64 returns h.Number as a uint64, matching the teacher's
// block.NumberU64() accessor style.
func (h *Header) NumberU64() uint64 {
	if h.Number == nil {
		return 0
	}
	return h.Number.Uint64()
}

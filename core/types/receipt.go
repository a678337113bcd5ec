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

package types

import (
	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/rlp"
	"github.com/matthieu/execore/trie"
)

// Receipt status outcomes, valid from Byzantium onward (§4.E bullet
// "status byte replaces intermediate state root").
const (
	ReceiptStatusFailed = uint64(0)
	ReceiptStatusSuccessful = uint64(1)
)

// Receipt is the per-transaction execution outcome (§3). PostState is
// the pre-Byzantium intermediate state root; it is left unset (nil)
// from Byzantium onward in favor of Status.
type Receipt struct {
	PostState         []byte
	Status            uint64
	CumulativeGasUsed uint64
	Bloom             Bloom
	Logs              []*Log

	TxHash          common.Hash
	ContractAddress common.Address
	GasUsed         uint64
}

// NewReceipt mirrors the teacher's types.NewReceipt constructor, kept
// as the pre-Byzantium entry point (root set, Status set from failed).
func NewReceipt(root []byte, failed bool, cumulativeGasUsed uint64) *Receipt {
	r := &Receipt{PostState: common.CopyBytes(root), CumulativeGasUsed: cumulativeGasUsed}
	if failed {
		r.Status = ReceiptStatusFailed
	} else {
		r.Status = ReceiptStatusSuccessful
	}
	return r
}

// SetStatus fills Status for Byzantium-and-later receipts (§4.A: "byte
// status replaces the intermediate state root").
func (r *Receipt) SetStatus(failed bool) {
	if failed {
		r.Status = ReceiptStatusFailed
	} else {
		r.Status = ReceiptStatusSuccessful
	}
}

// Receipts implements GetRlp for computing the receipts trie root
// (§4.G), mirroring Transactions.GetRlp.
type Receipts []*Receipt

func (r Receipts) Len() int { return len(r) }

func (r Receipts) GetRlp(i int) []byte {
	enc, _ := rlp.EncodeToBytes(r[i])
	return enc
}

// RootHash computes header.receipts_root, checked from Byzantium onward
// (§4.E "execute_and_write_block" post-validation).
func (r Receipts) RootHash() common.Hash {
	return trie.RootHash(r.Len(), func(i int) interface{} { return r[i] }, func(i int, item interface{}) []byte {
		return r.GetRlp(i)
	})
}

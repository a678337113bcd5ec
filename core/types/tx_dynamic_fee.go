// Copyright 2021 The go-ethereum Authors
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
)

// DynamicFeeTx implements the EIP-1559 transaction shape (§3): GasTipCap
// is the priority fee the sender offers, GasFeeCap bounds the total the
// sender will pay per unit gas.
type DynamicFeeTx struct {
	ChainID    *big.Int
	Nonce      uint64
	GasTipCap  *big.Int
	GasFeeCap  *big.Int
	Gas        uint64
	To         *common.Address `rlp:"nil"`
	Value      *big.Int
	Data       []byte
	AccessList AccessList
	V, R, S    *big.Int
}

func NewDynamicFeeTx(chainID *big.Int, nonce uint64, to *common.Address, amount *big.Int, gasLimit uint64, tip, feeCap *big.Int, data []byte, al AccessList) *Transaction {
	return NewTx(&DynamicFeeTx{
		ChainID:    amountOrZero(chainID),
		Nonce:      nonce,
		To:         copyAddrPtr(to),
		Value:      amountOrZero(amount),
		Gas:        gasLimit,
		GasTipCap:  amountOrZero(tip),
		GasFeeCap:  amountOrZero(feeCap),
		Data:       common.CopyBytes(data),
		AccessList: al,
		V:          new(big.Int), R: new(big.Int), S: new(big.Int),
	})
}

func (tx *DynamicFeeTx) txType() byte          { return DynamicFeeTxType }
func (tx *DynamicFeeTx) chainID() *big.Int     { return tx.ChainID }
func (tx *DynamicFeeTx) accessList() AccessList { return tx.AccessList }
func (tx *DynamicFeeTx) data() []byte          { return tx.Data }
func (tx *DynamicFeeTx) gas() uint64           { return tx.Gas }
func (tx *DynamicFeeTx) gasPrice() *big.Int    { return tx.GasFeeCap }
func (tx *DynamicFeeTx) gasTipCap() *big.Int   { return tx.GasTipCap }
func (tx *DynamicFeeTx) gasFeeCap() *big.Int   { return tx.GasFeeCap }
func (tx *DynamicFeeTx) value() *big.Int       { return tx.Value }
func (tx *DynamicFeeTx) nonce() uint64         { return tx.Nonce }
func (tx *DynamicFeeTx) to() *common.Address   { return tx.To }

func (tx *DynamicFeeTx) rawSignatureValues() (v, r, s *big.Int) { return tx.V, tx.R, tx.S }
func (tx *DynamicFeeTx) setSignatureValues(chainID, v, r, s *big.Int) {
	tx.ChainID, tx.V, tx.R, tx.S = chainID, v, r, s
}

func (tx *DynamicFeeTx) copy() TxData {
	cpy := &DynamicFeeTx{
		ChainID:    amountOrZero(tx.ChainID),
		Nonce:      tx.Nonce,
		Gas:        tx.Gas,
		GasTipCap:  amountOrZero(tx.GasTipCap),
		GasFeeCap:  amountOrZero(tx.GasFeeCap),
		Value:      amountOrZero(tx.Value),
		Data:       common.CopyBytes(tx.Data),
		AccessList: append(AccessList(nil), tx.AccessList...),
		V:          amountOrZero(tx.V),
		R:          amountOrZero(tx.R),
		S:          amountOrZero(tx.S),
	}
	cpy.To = copyAddrPtr(tx.To)
	return cpy
}

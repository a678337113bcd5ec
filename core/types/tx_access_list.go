// Copyright 2020 The go-ethereum Authors
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

// AccessListTx implements the EIP-2930 transaction shape (§3).
type AccessListTx struct {
	ChainID    *big.Int
	Nonce      uint64
	GasPrice   *big.Int
	Gas        uint64
	To         *common.Address `rlp:"nil"`
	Value      *big.Int
	Data       []byte
	AccessList AccessList
	V, R, S    *big.Int
}

func NewAccessListTx(chainID *big.Int, nonce uint64, to *common.Address, amount *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte, al AccessList) *Transaction {
	return NewTx(&AccessListTx{
		ChainID:    amountOrZero(chainID),
		Nonce:      nonce,
		To:         copyAddrPtr(to),
		Value:      amountOrZero(amount),
		Gas:        gasLimit,
		GasPrice:   amountOrZero(gasPrice),
		Data:       common.CopyBytes(data),
		AccessList: al,
		V:          new(big.Int), R: new(big.Int), S: new(big.Int),
	})
}

func (tx *AccessListTx) txType() byte          { return AccessListTxType }
func (tx *AccessListTx) chainID() *big.Int     { return tx.ChainID }
func (tx *AccessListTx) accessList() AccessList { return tx.AccessList }
func (tx *AccessListTx) data() []byte          { return tx.Data }
func (tx *AccessListTx) gas() uint64           { return tx.Gas }
func (tx *AccessListTx) gasPrice() *big.Int    { return tx.GasPrice }
func (tx *AccessListTx) gasTipCap() *big.Int   { return tx.GasPrice }
func (tx *AccessListTx) gasFeeCap() *big.Int   { return tx.GasPrice }
func (tx *AccessListTx) value() *big.Int       { return tx.Value }
func (tx *AccessListTx) nonce() uint64         { return tx.Nonce }
func (tx *AccessListTx) to() *common.Address   { return tx.To }

func (tx *AccessListTx) rawSignatureValues() (v, r, s *big.Int) { return tx.V, tx.R, tx.S }
func (tx *AccessListTx) setSignatureValues(chainID, v, r, s *big.Int) {
	tx.ChainID, tx.V, tx.R, tx.S = chainID, v, r, s
}

func (tx *AccessListTx) copy() TxData {
	cpy := &AccessListTx{
		ChainID:    amountOrZero(tx.ChainID),
		Nonce:      tx.Nonce,
		Gas:        tx.Gas,
		GasPrice:   amountOrZero(tx.GasPrice),
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

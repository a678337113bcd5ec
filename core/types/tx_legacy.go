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
)

// LegacyTx is the original Frontier transaction shape, directly
// descended from the teacher's TxData struct (AccountNonce/Price/
// GasLimit/Recipient/Amount/Payload/V/R/S).
type LegacyTx struct {
	AccountNonce uint64
	Price        *big.Int
	GasLimit     uint64
	Recipient    *common.Address `rlp:"nil"`
	Amount       *big.Int
	Payload      []byte
	V, R, S      *big.Int
}

func NewContractCreation(nonce uint64, amount *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte) *Transaction {
	return NewTx(&LegacyTx{
		AccountNonce: nonce,
		Amount:       amountOrZero(amount),
		GasLimit:     gasLimit,
		Price:        amountOrZero(gasPrice),
		Payload:      common.CopyBytes(data),
		V:            new(big.Int), R: new(big.Int), S: new(big.Int),
	})
}

func NewTransaction(nonce uint64, to common.Address, amount *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte) *Transaction {
	return NewTx(&LegacyTx{
		AccountNonce: nonce,
		Recipient:    &to,
		Amount:       amountOrZero(amount),
		GasLimit:     gasLimit,
		Price:        amountOrZero(gasPrice),
		Payload:      common.CopyBytes(data),
		V:            new(big.Int), R: new(big.Int), S: new(big.Int),
	})
}

func amountOrZero(a *big.Int) *big.Int {
	if a == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a)
}

func (tx *LegacyTx) txType() byte      { return LegacyTxType }
func (tx *LegacyTx) chainID() *big.Int { return deriveChainID(tx.V) }
func (tx *LegacyTx) accessList() AccessList { return nil }
func (tx *LegacyTx) data() []byte      { return tx.Payload }
func (tx *LegacyTx) gas() uint64       { return tx.GasLimit }
func (tx *LegacyTx) gasPrice() *big.Int { return tx.Price }
func (tx *LegacyTx) gasTipCap() *big.Int { return tx.Price }
func (tx *LegacyTx) gasFeeCap() *big.Int { return tx.Price }
func (tx *LegacyTx) value() *big.Int   { return tx.Amount }
func (tx *LegacyTx) nonce() uint64     { return tx.AccountNonce }
func (tx *LegacyTx) to() *common.Address { return tx.Recipient }

func (tx *LegacyTx) rawSignatureValues() (v, r, s *big.Int) { return tx.V, tx.R, tx.S }
func (tx *LegacyTx) setSignatureValues(chainID, v, r, s *big.Int) {
	tx.V, tx.R, tx.S = v, r, s
}

func (tx *LegacyTx) copy() TxData {
	cpy := &LegacyTx{
		AccountNonce: tx.AccountNonce,
		GasLimit:     tx.GasLimit,
		Payload:      common.CopyBytes(tx.Payload),
		Price:        amountOrZero(tx.Price),
		Amount:       amountOrZero(tx.Amount),
		V:            amountOrZero(tx.V),
		R:            amountOrZero(tx.R),
		S:            amountOrZero(tx.S),
	}
	if tx.Recipient != nil {
		to := *tx.Recipient
		cpy.Recipient = &to
	}
	return cpy
}

// deriveChainID recovers the EIP-155 chain ID encoded into a legacy
// transaction's V value (v = chainID*2 + 35/36), returning nil for
// pre-EIP-155 transactions (v = 27/28).
func deriveChainID(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	if v.BitLen() <= 8 {
		vv := v.Uint64()
		if vv == 27 || vv == 28 {
			return nil
		}
		return new(big.Int).SetUint64((vv - 35) / 2)
	}
	vv := new(big.Int).Sub(v, big.NewInt(35))
	return vv.Rsh(vv, 1)
}

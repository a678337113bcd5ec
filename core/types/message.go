// Copyright 2018 The go-ethereum Authors
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

// Message is the sender-resolved, VM-ready view of a transaction the
// Processor builds before crossing the Adapter boundary (§4.D: "Message
// ... built once per transaction, from the already-recovered sender").
type Message struct {
	from       common.Address
	to         *common.Address
	nonce      uint64
	amount     *big.Int
	gasLimit   uint64
	gasPrice   *big.Int
	gasFeeCap  *big.Int
	gasTipCap  *big.Int
	data       []byte
	accessList AccessList

	// checkNonce is false for system-generated calls such as eth_call,
	// which is outside this core's scope but kept as a teacher-style
	// field for forward compatibility with tooling built atop it.
	checkNonce bool
}

// AsMessage converts tx into a Message, resolving its effective gas
// price against baseFee and recovering its sender via signer
// (teacher's tx.AsMessage(signer) generalized to take a base fee).
func (tx *Transaction) AsMessage(signer Signer, baseFee *big.Int) (Message, error) {
	msg := Message{
		nonce:      tx.Nonce(),
		gasLimit:   tx.Gas(),
		gasPrice:   new(big.Int).Set(tx.GasPrice()),
		gasFeeCap:  tx.GasFeeCap(),
		gasTipCap:  tx.GasTipCap(),
		to:         tx.To(),
		amount:     tx.Value(),
		data:       tx.Data(),
		accessList: tx.AccessList(),
		checkNonce: true,
	}
	if baseFee != nil {
		msg.gasPrice = tx.EffectiveGasPrice(baseFee)
	}
	var err error
	msg.from, err = Sender(signer, tx)
	return msg, err
}

func (m Message) From() common.Address    { return m.from }
func (m Message) To() *common.Address     { return m.to }
func (m Message) GasPrice() *big.Int      { return m.gasPrice }
func (m Message) GasFeeCap() *big.Int     { return m.gasFeeCap }
func (m Message) GasTipCap() *big.Int     { return m.gasTipCap }
func (m Message) Value() *big.Int         { return m.amount }
func (m Message) Gas() uint64             { return m.gasLimit }
func (m Message) Nonce() uint64           { return m.nonce }
func (m Message) Data() []byte            { return m.data }
func (m Message) AccessList() AccessList  { return m.accessList }
func (m Message) CheckNonce() bool        { return m.checkNonce }

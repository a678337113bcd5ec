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
	"sync/atomic"

	"github.com/matthieu/execore/common"
)

// Block is the immutable unit of work the Blockchain driver ingests
// (§3: "A Block is immutable once received").
type Block struct {
	header       *Header
	transactions Transactions
	ommers       []*Header

	hash atomic.Value
	td   *big.Int // total difficulty, set by the caller/driver (GLOSSARY)
}

func NewBlock(header *Header, txs []*Transaction, ommers []*Header) *Block {
	b := &Block{header: header, transactions: txs, ommers: ommers}
	return b
}

func (b *Block) Header() *Header            { return b.header }
func (b *Block) Transactions() Transactions { return b.transactions }
func (b *Block) Ommers() []*Header          { return b.ommers }
func (b *Block) Number() *big.Int           { return b.header.Number }
func (b *Block) NumberU64() uint64          { return b.header.NumberU64() }
func (b *Block) GasLimit() uint64           { return b.header.GasLimit }
func (b *Block) GasUsed() uint64            { return b.header.GasUsed }
func (b *Block) Time() uint64               { return b.header.Time }
func (b *Block) ParentHash() common.Hash    { return b.header.ParentHash }
func (b *Block) Beneficiary() common.Address { return b.header.Beneficiary }

func (b *Block) Hash() common.Hash {
	if h := b.hash.Load(); h != nil {
		return h.(common.Hash)
	}
	v := b.header.Hash()
	b.hash.Store(v)
	return v
}

// TotalDifficulty returns the cumulative difficulty along the chain
// ending at this block (GLOSSARY "Total difficulty"); zero until the
// driver sets it via SetTotalDifficulty.
func (b *Block) TotalDifficulty() *big.Int {
	if b.td == nil {
		return new(big.Int)
	}
	return b.td
}

func (b *Block) SetTotalDifficulty(td *big.Int) { b.td = td }

// WithBody returns a copy of b carrying a different body, used when
// assembling a candidate block during tests (chain_makers style helper).
func (b *Block) WithBody(txs []*Transaction, ommers []*Header) *Block {
	return NewBlock(b.header, txs, ommers)
}

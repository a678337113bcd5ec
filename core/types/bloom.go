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

import "github.com/matthieu/execore/crypto"

// BloomByteLength is the number of bytes in a 2048-bit bloom filter.
const BloomByteLength = 256

// Bloom is a 2048-bit bloom filter over logged addresses and topics
// (§3, §4.G, GLOSSARY "Bloom filter").
type Bloom [BloomByteLength]byte

// Add marks data as present in the bloom filter, drawing three 11-bit
// indices from its Keccak-256 hash (GLOSSARY).
func (b *Bloom) Add(data []byte) {
	h := crypto.Keccak256(data)
	for i := 0; i < 6; i += 2 {
		bitIdx := (uint(h[i+1]) + (uint(h[i]) << 8)) & 0x7FF
		byteIdx := BloomByteLength - 1 - bitIdx/8
		b[byteIdx] |= 1 << (bitIdx % 8)
	}
}

// Test reports whether data may be present in the filter (false
// positives are possible, false negatives are not).
func (b Bloom) Test(data []byte) bool {
	var probe Bloom
	probe.Add(data)
	for i := range b {
		if probe[i]&b[i] != probe[i] {
			return false
		}
	}
	return true
}

// OrBloom sets b to the bitwise OR of b and other, the way the block
// bloom is composed from receipt blooms (§4.E bullet "Compose block
// bloom as bitwise-OR of receipt blooms").
func (b *Bloom) OrBloom(other Bloom) {
	for i := range b {
		b[i] |= other[i]
	}
}

// CreateBloom computes the bloom filter for a set of receipts, exactly
// at the teacher's call site `types.CreateBloom(types.Receipts{receipt})`.
func CreateBloom(receipts Receipts) Bloom {
	var bin Bloom
	for _, receipt := range receipts {
		bin.OrBloom(LogsBloom(receipt.Logs))
	}
	return bin
}

// LogsBloom composes the bloom filter contributed by a set of logs:
// each log's address and topics are added (§4.G "bloom::of").
func LogsBloom(logs []*Log) Bloom {
	var bin Bloom
	for _, log := range logs {
		bin.Add(log.Address.Bytes())
		for _, topic := range log.Topics {
			bin.Add(topic.Bytes())
		}
	}
	return bin
}

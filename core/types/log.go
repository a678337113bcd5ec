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

import "github.com/matthieu/execore/common"

// Log is a single event emitted by a CALL/CREATE frame during execution
// (§3). At most four topics are permitted per the LOGn family of opcodes.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte

	// Derived, not part of consensus encoding: filled in by the
	// processor for RPC/indexing convenience, mirroring the teacher's
	// practice of stamping block/tx provenance onto logs after the fact.
	BlockNumber uint64      `rlp:"-"`
	TxHash      common.Hash `rlp:"-"`
	TxIndex     uint        `rlp:"-"`
	BlockHash   common.Hash `rlp:"-"`
	Index       uint        `rlp:"-"`
	Removed     bool        `rlp:"-"`
}

const maxLogTopics = 4

// ValidTopicCount reports whether the log respects the §3 invariant
// "topics[≤4]".
func (l *Log) ValidTopicCount() bool {
	return len(l.Topics) <= maxLogTopics
}

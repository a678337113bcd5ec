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

import "github.com/matthieu/execore/common"

// AccessTuple is a single entry of an EIP-2930 access list: an account
// plus the storage keys within it the transaction declares it will
// touch, grounded on rohansbansal-go-ethereum's access-list aware
// processing path (cfg.RequireAccessList).
type AccessTuple struct {
	Address     common.Address
	StorageKeys []common.Hash
}

// AccessList is the per-transaction EIP-2930 access list (§3).
type AccessList []AccessTuple

// StorageKeys returns the total number of storage keys across all
// entries, used for the intrinsic-gas access-list surcharge (§4.E
// bullet 6: "access-list gas").
func (al AccessList) StorageKeys() int {
	var n int
	for _, tuple := range al {
		n += len(tuple.StorageKeys)
	}
	return n
}

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

package core

import (
	"fmt"
	"math"
	"sync"
)

// GasPool tracks the amount of gas available while executing the
// transactions in a block (§4.E bullet 1: "debit gas_limit from the
// block's remaining gas pool"). Kept verbatim from
// rohansbansal-go-ethereum/core/gaspool.go including its RWMutex guard:
// §5 mandates single-threaded block execution, but GasPool is also the
// type handed to any future parallel-validation surface built atop this
// core, so the lock stays as cheap, already-paid-for insurance rather
// than something to strip out.
type GasPool struct {
	lock sync.RWMutex
	gas  uint64
}

// AddGas makes gas available for execution.
func (gp *GasPool) AddGas(amount uint64) *GasPool {
	gp.lock.Lock()
	defer gp.lock.Unlock()

	if gp.gas > math.MaxUint64-amount {
		panic("gas pool pushed above uint64")
	}
	gp.gas += amount
	return gp
}

// SubGas deducts amount from the pool if enough gas is available and
// returns an error otherwise.
func (gp *GasPool) SubGas(amount uint64) error {
	gp.lock.Lock()
	defer gp.lock.Unlock()

	if gp.gas < amount {
		return ErrGasLimitReached
	}
	gp.gas -= amount
	return nil
}

// Gas returns the amount of gas remaining in the pool.
func (gp *GasPool) Gas() uint64 {
	gp.lock.RLock()
	defer gp.lock.RUnlock()

	return gp.gas
}

func (gp *GasPool) String() string {
	gp.lock.RLock()
	defer gp.lock.RUnlock()

	return fmt.Sprintf("%d", gp.gas)
}

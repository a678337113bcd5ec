package core

import (
	"github.com/matthieu/execore/core/types"
	"github.com/matthieu/execore/params"
)

// IntrinsicGas computes g0: the fixed + per-byte + access-list gas a
// transaction owes before any EVM execution begins (§4.E bullet 6:
// "base + per-byte zero/nonzero + access-list gas + 53000 for
// create"). Grounded on Silkworm's IntrinsicGas call site in
// processor.cpp (execute_transaction step 6) and the teacher's
// IntrinsicGas free function naming convention.
func IntrinsicGas(data []byte, accessList types.AccessList, isContractCreation bool, rev params.Revision) (uint64, error) {
	var gas uint64
	if isContractCreation {
		gas = params.TxGasContractCreation
	} else {
		gas = params.TxGas
	}

	nonZeroGas := params.TxDataNonZeroGasFrontier
	if rev >= params.Istanbul {
		nonZeroGas = params.TxDataNonZeroGasIstanbul
	}

	var zeroBytes, nonZeroBytes uint64
	for _, b := range data {
		if b == 0 {
			zeroBytes++
		} else {
			nonZeroBytes++
		}
	}
	if (gas+nonZeroBytes*nonZeroGas)/nonZeroGas < nonZeroBytes {
		return 0, ErrGasUintOverflow
	}
	gas += nonZeroBytes * nonZeroGas
	if (gas+zeroBytes*params.TxDataZeroGas)/params.TxDataZeroGas < zeroBytes {
		return 0, ErrGasUintOverflow
	}
	gas += zeroBytes * params.TxDataZeroGas

	if accessList != nil {
		gas += uint64(len(accessList)) * params.TxAccessListAddressGas
		gas += uint64(accessList.StorageKeys()) * params.TxAccessListStorageKeyGas
	}
	return gas, nil
}

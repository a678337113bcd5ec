package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/core"
	"github.com/matthieu/execore/core/types"
	"github.com/matthieu/execore/params"
)

func TestIntrinsicGasBareTransfer(t *testing.T) {
	gas, err := core.IntrinsicGas(nil, nil, false, params.Istanbul)
	require.NoError(t, err)
	assert.Equal(t, params.TxGas, gas)
}

func TestIntrinsicGasContractCreation(t *testing.T) {
	gas, err := core.IntrinsicGas(nil, nil, true, params.Istanbul)
	require.NoError(t, err)
	assert.Equal(t, params.TxGasContractCreation, gas)
}

func TestIntrinsicGasChargesPerByte(t *testing.T) {
	data := []byte{0x00, 0x00, 0x01, 0x02}

	gas, err := core.IntrinsicGas(data, nil, false, params.Istanbul)
	require.NoError(t, err)

	want := params.TxGas + 2*params.TxDataZeroGas + 2*params.TxDataNonZeroGasIstanbul
	assert.Equal(t, want, gas)
}

func TestIntrinsicGasNonZeroByteCostDropsAtIstanbul(t *testing.T) {
	data := []byte{0x01}

	pre, err := core.IntrinsicGas(data, nil, false, params.Byzantium)
	require.NoError(t, err)
	post, err := core.IntrinsicGas(data, nil, false, params.Istanbul)
	require.NoError(t, err)

	assert.Equal(t, params.TxGas+params.TxDataNonZeroGasFrontier, pre)
	assert.Equal(t, params.TxGas+params.TxDataNonZeroGasIstanbul, post)
	assert.Greater(t, pre, post)
}

func TestIntrinsicGasChargesAccessList(t *testing.T) {
	al := types.AccessList{
		{
			Address:     common.BytesToAddress([]byte{1}),
			StorageKeys: []common.Hash{common.BytesToHash([]byte{1}), common.BytesToHash([]byte{2})},
		},
	}

	gas, err := core.IntrinsicGas(nil, al, false, params.Istanbul)
	require.NoError(t, err)

	want := params.TxGas + params.TxAccessListAddressGas + 2*params.TxAccessListStorageKeyGas
	assert.Equal(t, want, gas)
}

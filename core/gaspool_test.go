package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieu/execore/core"
)

func TestGasPoolAddAndSub(t *testing.T) {
	gp := new(core.GasPool).AddGas(100)
	assert.Equal(t, uint64(100), gp.Gas())

	require.NoError(t, gp.SubGas(40))
	assert.Equal(t, uint64(60), gp.Gas())
}

func TestGasPoolSubGasReachedLimit(t *testing.T) {
	gp := new(core.GasPool).AddGas(10)

	err := gp.SubGas(11)

	assert.ErrorIs(t, err, core.ErrGasLimitReached)
	assert.Equal(t, uint64(10), gp.Gas())
}

func TestGasPoolString(t *testing.T) {
	gp := new(core.GasPool).AddGas(21000)
	assert.Equal(t, "21000", gp.String())
}

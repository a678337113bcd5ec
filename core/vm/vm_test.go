package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/core/vm"
	"github.com/matthieu/execore/params"
)

func TestStubVMCallEchoesInput(t *testing.T) {
	v := &stubVM{}
	host := newStubHost()
	msg := vm.Message{Kind: vm.Call, Gas: 100, Input: []byte{1, 2, 3}}

	res := v.Execute(msg, host, vm.TxContext{})

	assert.Equal(t, vm.Success, res.Status)
	assert.Equal(t, []byte{1, 2, 3}, res.Output)
	assert.Equal(t, uint64(50), res.GasLeft)
}

func TestStubVMOutOfGas(t *testing.T) {
	v := &stubVM{}
	host := newStubHost()

	res := v.Execute(vm.Message{Gas: 0}, host, vm.TxContext{})

	assert.Equal(t, vm.OutOfGas, res.Status)
}

func TestStubVMCreateAssignsAddress(t *testing.T) {
	v := &stubVM{}
	host := newStubHost()

	res := v.Execute(vm.Message{Kind: vm.Create, Gas: 100}, host, vm.TxContext{})

	assert.Equal(t, vm.Success, res.Status)
	assert.NotEqual(t, common.Address{}, res.CreateAddress)
}

func TestAccessAccountReportsWarmOnSecondTouch(t *testing.T) {
	host := newStubHost()
	addr := common.BytesToAddress([]byte{1})

	first := host.AccessAccount(addr)
	second := host.AccessAccount(addr)

	assert.False(t, first)
	assert.True(t, second)
}

func TestIsPrecompileRevisionGating(t *testing.T) {
	ecrecover := common.BytesToAddress([]byte{1})
	modexp := common.BytesToAddress([]byte{5})
	blake2f := common.BytesToAddress([]byte{9})

	assert.True(t, vm.IsPrecompile(ecrecover, params.Frontier))
	assert.False(t, vm.IsPrecompile(modexp, params.Homestead))
	assert.True(t, vm.IsPrecompile(modexp, params.Byzantium))
	assert.False(t, vm.IsPrecompile(blake2f, params.Byzantium))
	assert.True(t, vm.IsPrecompile(blake2f, params.Istanbul))
	assert.False(t, vm.IsPrecompile(common.BytesToAddress([]byte{20}), params.London))
}

package core

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/core/state"
	"github.com/matthieu/execore/core/types"
	"github.com/matthieu/execore/core/vm"
	"github.com/matthieu/execore/crypto"
	"github.com/matthieu/execore/ethdb"
)

func testHeader() *types.Header {
	return &types.Header{Number: big.NewInt(1), Difficulty: big.NewInt(1), GasLimit: 1_000_000}
}

func TestStateHostCallRevertsOnInsufficientFunds(t *testing.T) {
	db := state.New(state.NewDatabase(ethdb.NewMemoryDB()))
	from := common.BytesToAddress([]byte{1})
	to := common.BytesToAddress([]byte{2})
	db.AddBalance(from, big.NewInt(10))

	host := newStateHost(db, nil, testHeader(), NewCallTracer())
	res := host.Call(vm.Message{Kind: vm.Call, From: from, To: to, Value: big.NewInt(100), Gas: 1000})

	assert.Equal(t, vm.Failure, res.Status)
	assert.Equal(t, big.NewInt(10), db.GetBalance(from))
	assert.Equal(t, 0, db.GetBalance(to).Sign())
}

func TestStateHostCallSucceedsWithinBalance(t *testing.T) {
	db := state.New(state.NewDatabase(ethdb.NewMemoryDB()))
	from := common.BytesToAddress([]byte{1})
	to := common.BytesToAddress([]byte{2})
	db.AddBalance(from, big.NewInt(100))

	host := newStateHost(db, nil, testHeader(), NewCallTracer())
	res := host.Call(vm.Message{Kind: vm.Call, From: from, To: to, Value: big.NewInt(40), Gas: 1000})

	assert.Equal(t, vm.Success, res.Status)
	assert.Equal(t, big.NewInt(60), db.GetBalance(from))
	assert.Equal(t, big.NewInt(40), db.GetBalance(to))
}

func TestStateHostAccessAccountReportsWarmOnSecondCall(t *testing.T) {
	db := state.New(state.NewDatabase(ethdb.NewMemoryDB()))
	addr := common.BytesToAddress([]byte{3})

	host := newStateHost(db, nil, testHeader(), NewCallTracer())

	assert.False(t, host.AccessAccount(addr))
	assert.True(t, host.AccessAccount(addr))
}

func TestStateHostCallCreateDerivesAddressFromSenderNonce(t *testing.T) {
	db := state.New(state.NewDatabase(ethdb.NewMemoryDB()))
	from := common.BytesToAddress([]byte{4})
	db.SetNonce(from, 1) // Processor already bumped this before invoking the VM

	host := newStateHost(db, nil, testHeader(), NewCallTracer())
	res := host.Call(vm.Message{Kind: vm.Create, From: from, Gas: 1000})

	assert.Equal(t, vm.Success, res.Status)
	assert.NotEqual(t, common.Address{}, res.CreateAddress)
	assert.Equal(t, crypto.CreateAddress(from, 0), res.CreateAddress)
}

func TestStateHostCallCreate2DerivesAddressFromSaltAndInitCode(t *testing.T) {
	db := state.New(state.NewDatabase(ethdb.NewMemoryDB()))
	from := common.BytesToAddress([]byte{5})
	salt := common.BytesToHash([]byte{0x01})

	host := newStateHost(db, nil, testHeader(), NewCallTracer())
	res := host.Call(vm.Message{Kind: vm.Create2, From: from, Salt: salt, Gas: 1000})

	assert.Equal(t, vm.Success, res.Status)
	want := crypto.CreateAddress2(from, salt, crypto.Keccak256(nil))
	assert.Equal(t, want, res.CreateAddress)
}

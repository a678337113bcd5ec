package state_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/core/state"
	"github.com/matthieu/execore/ethdb"
)

func TestStateRootDeterministicRegardlessOfInsertionOrder(t *testing.T) {
	a := common.BytesToAddress([]byte{1})
	b := common.BytesToAddress([]byte{2})

	s1 := newTestState()
	s1.AddBalance(a, big.NewInt(10))
	s1.AddBalance(b, big.NewInt(20))

	s2 := newTestState()
	s2.AddBalance(b, big.NewInt(20))
	s2.AddBalance(a, big.NewInt(10))

	assert.Equal(t, s1.StateRoot(), s2.StateRoot())
}

func TestStateRootChangesWithBalance(t *testing.T) {
	addr := common.BytesToAddress([]byte{3})
	s := newTestState()
	s.AddBalance(addr, big.NewInt(10))
	root1 := s.StateRoot()

	s.AddBalance(addr, big.NewInt(1))
	root2 := s.StateRoot()

	assert.NotEqual(t, root1, root2)
}

func TestStateRootExcludesDeletedAccounts(t *testing.T) {
	addr := common.BytesToAddress([]byte{4})
	empty := newTestState()
	emptyRoot := empty.StateRoot()

	s := newTestState()
	s.AddBalance(addr, big.NewInt(5))
	s.SubBalance(addr, big.NewInt(5))
	s.RecordSuicide(addr, addr)
	s.DestructSuicides()

	assert.Equal(t, emptyRoot, s.StateRoot())
}

func TestStateRootRevivesAccountFundedAfterSelfDestruct(t *testing.T) {
	addr := common.BytesToAddress([]byte{8})
	s := newTestState()

	s.AddBalance(addr, big.NewInt(5))
	s.RecordSuicide(addr, addr)
	s.DestructSuicides()
	s.ClearJournalAndSubstate() // transaction boundary: next block's first transaction

	assert.False(t, s.Exist(addr))
	deadRoot := s.StateRoot()

	s.AddBalance(addr, big.NewInt(7))

	assert.True(t, s.Exist(addr))
	assert.Equal(t, big.NewInt(7), s.GetBalance(addr))
	assert.NotEqual(t, deadRoot, s.StateRoot())
}

func TestUnwindBlockRestoresPriorBalanceAndStorage(t *testing.T) {
	kv := ethdb.NewMemoryDB()
	db := state.NewDatabase(kv)
	s := state.New(db)
	addr := common.BytesToAddress([]byte{5})
	slot := common.BytesToHash([]byte{0x01})

	s.AddBalance(addr, big.NewInt(100))
	s.SetStorage(addr, slot, common.BytesToHash([]byte{0xaa}))
	assert.NoError(t, s.WriteToDB(1))

	s2 := state.New(db)
	s2.AddBalance(addr, big.NewInt(900))
	s2.SetStorage(addr, slot, common.BytesToHash([]byte{0xbb}))
	assert.NoError(t, s2.WriteToDB(2))

	reloaded := state.New(db)
	assert.Equal(t, big.NewInt(1000), reloaded.GetBalance(addr))
	assert.Equal(t, common.BytesToHash([]byte{0xbb}), reloaded.GetStorage(addr, slot))

	assert.NoError(t, reloaded.UnwindBlock(2))

	afterUnwind := state.New(db)
	assert.Equal(t, big.NewInt(100), afterUnwind.GetBalance(addr))
	assert.Equal(t, common.BytesToHash([]byte{0xaa}), afterUnwind.GetStorage(addr, slot))
}

func TestUnwindBlockRestoresAbsenceOfNewAccount(t *testing.T) {
	kv := ethdb.NewMemoryDB()
	db := state.NewDatabase(kv)
	s := state.New(db)
	addr := common.BytesToAddress([]byte{6})

	s.AddBalance(addr, big.NewInt(42))
	assert.NoError(t, s.WriteToDB(7))
	assert.True(t, s.Exist(addr))

	assert.NoError(t, s.UnwindBlock(7))

	reloaded := state.New(db)
	assert.False(t, reloaded.Exist(addr))
}

func TestUnwindBlockKeepsDistinctStorageSlotsSeparate(t *testing.T) {
	kv := ethdb.NewMemoryDB()
	db := state.NewDatabase(kv)
	s := state.New(db)
	addr := common.BytesToAddress([]byte{7})
	slotA := common.BytesToHash([]byte{0x01})
	slotB := common.BytesToHash([]byte{0x02})

	s.SetStorage(addr, slotA, common.BytesToHash([]byte{0x11}))
	s.SetStorage(addr, slotB, common.BytesToHash([]byte{0x22}))
	assert.NoError(t, s.WriteToDB(1))

	s2 := state.New(db)
	s2.SetStorage(addr, slotA, common.BytesToHash([]byte{0x99}))
	assert.NoError(t, s2.WriteToDB(2))

	assert.NoError(t, s2.UnwindBlock(2))

	reloaded := state.New(db)
	assert.Equal(t, common.BytesToHash([]byte{0x11}), reloaded.GetStorage(addr, slotA))
	assert.Equal(t, common.BytesToHash([]byte{0x22}), reloaded.GetStorage(addr, slotB))
}

package state_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/core/state"
	"github.com/matthieu/execore/ethdb"
)

func newTestState() *state.StateDB {
	return state.New(state.NewDatabase(ethdb.NewMemoryDB()))
}

func TestBalanceAddSub(t *testing.T) {
	s := newTestState()
	addr := common.BytesToAddress([]byte{1})

	s.AddBalance(addr, big.NewInt(100))
	assert.Equal(t, big.NewInt(100), s.GetBalance(addr))

	s.SubBalance(addr, big.NewInt(40))
	assert.Equal(t, big.NewInt(60), s.GetBalance(addr))
}

func TestSnapshotRevertRestoresBalanceAndNonce(t *testing.T) {
	s := newTestState()
	addr := common.BytesToAddress([]byte{2})
	s.AddBalance(addr, big.NewInt(50))
	s.SetNonce(addr, 1)

	snap := s.Snapshot()
	s.AddBalance(addr, big.NewInt(1000))
	s.SetNonce(addr, 2)
	s.RevertToSnapshot(snap)

	assert.Equal(t, big.NewInt(50), s.GetBalance(addr))
	assert.Equal(t, uint64(1), s.GetNonce(addr))
}

func TestAccessAccountWarmBeforeTracking(t *testing.T) {
	s := newTestState()
	addr := common.BytesToAddress([]byte{3})

	first := s.AccessAccount(addr)
	second := s.AccessAccount(addr)

	assert.False(t, first)
	assert.True(t, second)
}

func TestAccessListRevertedOnSnapshot(t *testing.T) {
	s := newTestState()
	addr := common.BytesToAddress([]byte{4})

	snap := s.Snapshot()
	s.AccessAccount(addr)
	s.RevertToSnapshot(snap)

	warmBefore := s.AccessAccount(addr)
	assert.False(t, warmBefore, "access-list membership must be reverted along with balance/storage")
}

func TestRefundAddSubFloorsAtZero(t *testing.T) {
	s := newTestState()
	s.AddRefund(100)
	s.SubRefund(150)
	assert.Equal(t, uint64(0), s.GetRefund())
}

func TestDestructTouchedDeadPrunesEmptyAccounts(t *testing.T) {
	s := newTestState()
	addr := common.BytesToAddress([]byte{5})

	s.AddBalance(addr, big.NewInt(1))
	s.SubBalance(addr, big.NewInt(1)) // touched, but now empty again

	s.DestructTouchedDead()

	require.True(t, s.Empty(addr))
	assert.False(t, s.Exist(addr))
}

func TestWriteToDBRoundTripsAccount(t *testing.T) {
	db := state.NewDatabase(ethdb.NewMemoryDB())
	s := state.New(db)
	addr := common.BytesToAddress([]byte{6})
	s.AddBalance(addr, big.NewInt(77))
	s.SetNonce(addr, 3)

	require.NoError(t, s.WriteToDB(1))

	reloaded := state.New(db)
	assert.Equal(t, big.NewInt(77), reloaded.GetBalance(addr))
	assert.Equal(t, uint64(3), reloaded.GetNonce(addr))
}

func TestClearJournalAndSubstateResetsRefundAndAccessList(t *testing.T) {
	s := newTestState()
	addr := common.BytesToAddress([]byte{7})
	s.AddRefund(10)
	s.AccessAccount(addr)

	s.ClearJournalAndSubstate()

	assert.Equal(t, uint64(0), s.GetRefund())
	assert.False(t, s.AccessAccount(addr))
}

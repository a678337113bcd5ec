package core_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/core"
	"github.com/matthieu/execore/core/state"
	"github.com/matthieu/execore/ethdb"
	"github.com/matthieu/execore/params"
)

func TestApplyDAOHardForkDrainsListedAccounts(t *testing.T) {
	db := state.New(state.NewDatabase(ethdb.NewMemoryDB()))
	drained := common.BytesToAddress([]byte{1})
	beneficiary := common.BytesToAddress([]byte{2})

	db.AddBalance(drained, big.NewInt(500))

	config := &params.ChainConfig{
		DAOForkSupport:     true,
		DAOForkBeneficiary: beneficiary,
		DAOForkDrainList:   []common.Address{drained},
	}

	core.ApplyDAOHardFork(db, config)

	assert.Equal(t, 0, db.GetBalance(drained).Sign())
	assert.Equal(t, big.NewInt(500), db.GetBalance(beneficiary))
}

func TestApplyDAOHardForkNoopWhenUnsupported(t *testing.T) {
	db := state.New(state.NewDatabase(ethdb.NewMemoryDB()))
	drained := common.BytesToAddress([]byte{1})
	beneficiary := common.BytesToAddress([]byte{2})
	db.AddBalance(drained, big.NewInt(500))

	config := &params.ChainConfig{
		DAOForkSupport:     false,
		DAOForkBeneficiary: beneficiary,
		DAOForkDrainList:   []common.Address{drained},
	}

	core.ApplyDAOHardFork(db, config)

	assert.Equal(t, big.NewInt(500), db.GetBalance(drained))
	assert.Equal(t, 0, db.GetBalance(beneficiary).Sign())
}

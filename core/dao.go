package core

import (
	"github.com/matthieu/execore/core/state"
	"github.com/matthieu/execore/params"
)

// ApplyDAOHardFork moves the balance of every account in
// config.DAOForkDrainList into config.DAOForkBeneficiary, performed
// exactly once at config.DAOForkBlock (§4.E bullet 1, §8 Scenario 6).
// Grounded on the teacher's misc.ApplyDAOHardFork(statedb) call site
// (core/state_processor.go); the teacher's own consensus/misc package
// source wasn't retrieved, so the transfer logic is reconstructed
// directly from spec.md's description of the DAO extraction.
func ApplyDAOHardFork(db *state.StateDB, config *params.ChainConfig) {
	if !config.DAOForkSupport {
		return
	}
	for _, addr := range config.DAOForkDrainList {
		balance := db.GetBalance(addr)
		if balance.Sign() == 0 {
			continue
		}
		db.SubBalance(addr, balance)
		db.AddBalance(config.DAOForkBeneficiary, balance)
	}
}

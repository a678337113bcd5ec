// Copyright 2016 The go-ethereum Authors
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

package params

import (
	"math/big"

	"github.com/matthieu/execore/common"
)

// Revision is a totally ordered enum over hard-fork revisions. All
// fork-conditional logic routes through a Revision value; no direct
// block-number comparisons are permitted outside ChainConfig.
type Revision int

const (
	Frontier Revision = iota
	Homestead
	TangerineWhistle
	SpuriousDragon
	Byzantium
	Constantinople
	Petersburg
	Istanbul
	Berlin
	London
	Merge
)

func (r Revision) String() string {
	switch r {
	case Frontier:
		return "Frontier"
	case Homestead:
		return "Homestead"
	case TangerineWhistle:
		return "TangerineWhistle"
	case SpuriousDragon:
		return "SpuriousDragon"
	case Byzantium:
		return "Byzantium"
	case Constantinople:
		return "Constantinople"
	case Petersburg:
		return "Petersburg"
	case Istanbul:
		return "Istanbul"
	case Berlin:
		return "Berlin"
	case London:
		return "London"
	case Merge:
		return "Merge"
	default:
		return "Unknown"
	}
}

// ChainConfig is the static, per-chain parameter set: a mapping of
// hard-fork names to activation block numbers plus chain_id and the
// optional DAO fork block (§3). It is passed by reference through the
// Processor; there is no process-wide singleton (§9 design note).
type ChainConfig struct {
	ChainID *big.Int

	HomesteadBlock      *big.Int
	DAOForkBlock         *big.Int
	DAOForkSupport       bool
	EIP150Block          *big.Int // Tangerine Whistle
	EIP155Block          *big.Int // Spurious Dragon (also gates EIP-158)
	EIP158Block          *big.Int
	ByzantiumBlock       *big.Int
	ConstantinopleBlock  *big.Int
	PetersburgBlock      *big.Int
	IstanbulBlock        *big.Int
	BerlinBlock          *big.Int
	LondonBlock          *big.Int
	MergeBlock           *big.Int

	// DAOForkBeneficiary is the account that receives the balances of
	// DAOForkDrainList on the DAO fork block (Scenario 6, §8).
	DAOForkBeneficiary common.Address
	DAOForkDrainList   []common.Address
}

func isActive(fork *big.Int, blockNumber *big.Int) bool {
	return fork != nil && blockNumber != nil && fork.Cmp(blockNumber) <= 0
}

// Revision returns the totally ordered fork revision active at
// blockNumber, per §4.A.
func (c *ChainConfig) Revision(blockNumber *big.Int) Revision {
	switch {
	case isActive(c.MergeBlock, blockNumber):
		return Merge
	case isActive(c.LondonBlock, blockNumber):
		return London
	case isActive(c.BerlinBlock, blockNumber):
		return Berlin
	case isActive(c.IstanbulBlock, blockNumber):
		return Istanbul
	case isActive(c.PetersburgBlock, blockNumber):
		return Petersburg
	case isActive(c.ConstantinopleBlock, blockNumber):
		return Constantinople
	case isActive(c.ByzantiumBlock, blockNumber):
		return Byzantium
	case isActive(c.EIP158Block, blockNumber):
		return SpuriousDragon
	case isActive(c.EIP150Block, blockNumber):
		return TangerineWhistle
	case isActive(c.HomesteadBlock, blockNumber):
		return Homestead
	default:
		return Frontier
	}
}

func (c *ChainConfig) IsHomestead(n *big.Int) bool      { return c.Revision(n) >= Homestead }
func (c *ChainConfig) IsEIP150(n *big.Int) bool         { return c.Revision(n) >= TangerineWhistle }
func (c *ChainConfig) IsEIP155(n *big.Int) bool         { return isActive(c.EIP155Block, n) }
func (c *ChainConfig) IsEIP158(n *big.Int) bool         { return c.Revision(n) >= SpuriousDragon }
func (c *ChainConfig) IsByzantium(n *big.Int) bool      { return c.Revision(n) >= Byzantium }
func (c *ChainConfig) IsConstantinople(n *big.Int) bool { return c.Revision(n) >= Constantinople }
func (c *ChainConfig) IsIstanbul(n *big.Int) bool       { return c.Revision(n) >= Istanbul }
func (c *ChainConfig) IsBerlin(n *big.Int) bool         { return c.Revision(n) >= Berlin }
func (c *ChainConfig) IsLondon(n *big.Int) bool         { return c.Revision(n) >= London }
func (c *ChainConfig) IsMerge(n *big.Int) bool          { return c.Revision(n) >= Merge }

// MainnetChainConfig mirrors go-ethereum's canonical mainnet schedule
// closely enough to run the conformance scenarios in spec.md §8; exact
// historical block numbers are illustrative, not gospel, since genesis/
// chain-spec loading is out of scope (§1).
var MainnetChainConfig = &ChainConfig{
	ChainID:             big.NewInt(1),
	HomesteadBlock:      big.NewInt(1_150_000),
	DAOForkBlock:        big.NewInt(1_920_000),
	DAOForkSupport:      true,
	EIP150Block:         big.NewInt(2_463_000),
	EIP155Block:         big.NewInt(2_675_000),
	EIP158Block:         big.NewInt(2_675_000),
	ByzantiumBlock:      big.NewInt(4_370_000),
	ConstantinopleBlock: big.NewInt(7_280_000),
	PetersburgBlock:     big.NewInt(7_280_000),
	IstanbulBlock:       big.NewInt(9_069_000),
	BerlinBlock:         big.NewInt(12_244_000),
	LondonBlock:         big.NewInt(12_965_000),
}

// AllProtocolChanges activates every fork at block 0; used by tests that
// want to exercise the latest rules without historical block arithmetic.
var AllProtocolChanges = &ChainConfig{
	ChainID:             big.NewInt(1337),
	HomesteadBlock:      big.NewInt(0),
	EIP150Block:         big.NewInt(0),
	EIP155Block:         big.NewInt(0),
	EIP158Block:         big.NewInt(0),
	ByzantiumBlock:      big.NewInt(0),
	ConstantinopleBlock: big.NewInt(0),
	PetersburgBlock:     big.NewInt(0),
	IstanbulBlock:       big.NewInt(0),
	BerlinBlock:         big.NewInt(0),
	LondonBlock:         big.NewInt(0),
}

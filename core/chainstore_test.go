package core

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/core/types"
	"github.com/matthieu/execore/ethdb"
)

func TestChainStoreRoundTripsHeaderAndBody(t *testing.T) {
	cs := newChainStore(ethdb.NewMemoryDB())
	header := &types.Header{Number: big.NewInt(1), GasLimit: 8_000_000, Difficulty: big.NewInt(1)}
	block := types.NewBlock(header, nil, nil)

	require.NoError(t, cs.writeBlock(block))

	got, ok := cs.readBlock(block.Hash())
	require.True(t, ok)
	assert.Equal(t, block.Hash(), got.Hash())
	assert.Equal(t, header.Number, got.Header().Number)
}

func TestChainStoreCanonicalMapping(t *testing.T) {
	cs := newChainStore(ethdb.NewMemoryDB())
	hash := common.BytesToHash([]byte{0xaa})

	_, ok := cs.readCanonical(5)
	assert.False(t, ok)

	require.NoError(t, cs.writeCanonical(5, hash))
	got, ok := cs.readCanonical(5)
	require.True(t, ok)
	assert.Equal(t, hash, got)

	require.NoError(t, cs.deleteCanonical(5))
	_, ok = cs.readCanonical(5)
	assert.False(t, ok)
}

func TestChainStoreTotalDifficultyDefaultsToZero(t *testing.T) {
	cs := newChainStore(ethdb.NewMemoryDB())
	hash := common.BytesToHash([]byte{0xbb})

	assert.Equal(t, new(big.Int), cs.readTotalDifficulty(hash))

	require.NoError(t, cs.writeTotalDifficulty(hash, big.NewInt(42)))
	assert.Equal(t, big.NewInt(42), cs.readTotalDifficulty(hash))
}

func TestChainStoreReceiptsRoundTrip(t *testing.T) {
	cs := newChainStore(ethdb.NewMemoryDB())
	hash := common.BytesToHash([]byte{0xcc})
	receipts := types.Receipts{{CumulativeGasUsed: 21000, GasUsed: 21000}}

	require.NoError(t, cs.writeReceipts(hash, receipts))

	got, ok := cs.readReceipts(hash)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(21000), got[0].GasUsed)
}

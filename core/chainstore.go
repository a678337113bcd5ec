package core

import (
	"encoding/binary"
	"math/big"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/core/types"
	"github.com/matthieu/execore/ethdb"
	"github.com/matthieu/execore/rlp"
)

// chainStore persists headers, bodies, the canonical number→hash
// mapping, receipts and total difficulty, grounded on §6's "Persisted
// layout" (tables `CanonicalHeaders`, `Headers`, `Bodies`, `Receipts`).
// `CanonicalHeaders` is keyed by the 8-byte big-endian block number;
// `Headers`, `Bodies`, `Receipts` and `TotalDifficulty` are keyed by
// block hash alone, not by `block_number || hash`. It is a thin RLP
// marshaling layer atop ethdb.KeyValueStore, kept separate from
// core/state's Database since headers/bodies are never part of World
// State's account/storage namespace.
type chainStore struct {
	kv ethdb.KeyValueStore
}

func newChainStore(kv ethdb.KeyValueStore) *chainStore {
	return &chainStore{kv: kv}
}

func be64(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

func (cs *chainStore) writeHeader(h *types.Header) error {
	enc, err := rlp.EncodeToBytes(h)
	if err != nil {
		return err
	}
	return cs.kv.Put(ethdb.Headers, h.Hash().Bytes(), enc)
}

func (cs *chainStore) readHeader(hash common.Hash) (*types.Header, bool) {
	v, ok, err := cs.kv.Get(ethdb.Headers, hash.Bytes())
	if err != nil || !ok {
		return nil, false
	}
	h := new(types.Header)
	if err := rlp.DecodeBytes(v, h); err != nil {
		return nil, false
	}
	return h, true
}

func (cs *chainStore) writeCanonical(number uint64, hash common.Hash) error {
	return cs.kv.Put(ethdb.CanonicalHeaders, be64(number), hash.Bytes())
}

func (cs *chainStore) readCanonical(number uint64) (common.Hash, bool) {
	v, ok, err := cs.kv.Get(ethdb.CanonicalHeaders, be64(number))
	if err != nil || !ok {
		return common.Hash{}, false
	}
	return common.BytesToHash(v), true
}

func (cs *chainStore) deleteCanonical(number uint64) error {
	return cs.kv.Delete(ethdb.CanonicalHeaders, be64(number))
}

// txEnvelope carries one transaction's EIP-2718 binary encoding inside
// the RLP-encoded body list, since Transaction.inner is an interface
// and cannot be reflected into directly by the generic codec.
type txEnvelope struct {
	Binary []byte
}

type bodyRLP struct {
	Txs    []txEnvelope
	Ommers []*types.Header
}

func (cs *chainStore) writeBody(hash common.Hash, txs types.Transactions, ommers []*types.Header) error {
	body := bodyRLP{Txs: make([]txEnvelope, len(txs)), Ommers: ommers}
	for i, tx := range txs {
		bin, err := tx.MarshalBinary()
		if err != nil {
			return err
		}
		body.Txs[i] = txEnvelope{Binary: bin}
	}
	enc, err := rlp.EncodeToBytes(&body)
	if err != nil {
		return err
	}
	return cs.kv.Put(ethdb.Bodies, hash.Bytes(), enc)
}

func (cs *chainStore) readBody(hash common.Hash) (types.Transactions, []*types.Header, bool) {
	v, ok, err := cs.kv.Get(ethdb.Bodies, hash.Bytes())
	if err != nil || !ok {
		return nil, nil, false
	}
	var body bodyRLP
	if err := rlp.DecodeBytes(v, &body); err != nil {
		return nil, nil, false
	}
	txs := make(types.Transactions, len(body.Txs))
	for i, env := range body.Txs {
		tx := new(types.Transaction)
		if err := tx.UnmarshalBinary(env.Binary); err != nil {
			return nil, nil, false
		}
		txs[i] = tx
	}
	return txs, body.Ommers, true
}

func (cs *chainStore) writeBlock(block *types.Block) error {
	if err := cs.writeHeader(block.Header()); err != nil {
		return err
	}
	return cs.writeBody(block.Hash(), block.Transactions(), block.Ommers())
}

func (cs *chainStore) readBlock(hash common.Hash) (*types.Block, bool) {
	header, ok := cs.readHeader(hash)
	if !ok {
		return nil, false
	}
	txs, ommers, ok := cs.readBody(hash)
	if !ok {
		return nil, false
	}
	return types.NewBlock(header, txs, ommers), true
}

func (cs *chainStore) readBlockByNumber(number uint64) (*types.Block, bool) {
	hash, ok := cs.readCanonical(number)
	if !ok {
		return nil, false
	}
	return cs.readBlock(hash)
}

func (cs *chainStore) writeTotalDifficulty(hash common.Hash, td *big.Int) error {
	return cs.kv.Put(ethdb.TotalDifficulty, hash.Bytes(), td.Bytes())
}

func (cs *chainStore) readTotalDifficulty(hash common.Hash) *big.Int {
	v, ok, err := cs.kv.Get(ethdb.TotalDifficulty, hash.Bytes())
	if err != nil || !ok {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(v)
}

func (cs *chainStore) writeReceipts(hash common.Hash, receipts types.Receipts) error {
	enc, err := rlp.EncodeToBytes(&receipts)
	if err != nil {
		return err
	}
	return cs.kv.Put(ethdb.Receipts, hash.Bytes(), enc)
}

func (cs *chainStore) readReceipts(hash common.Hash) (types.Receipts, bool) {
	v, ok, err := cs.kv.Get(ethdb.Receipts, hash.Bytes())
	if err != nil || !ok {
		return nil, false
	}
	var receipts types.Receipts
	if err := rlp.DecodeBytes(v, &receipts); err != nil {
		return nil, false
	}
	return receipts, true
}

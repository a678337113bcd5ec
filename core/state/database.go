package state

import (
	"bytes"
	"math/big"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/holiman/uint256"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/ethdb"
	"github.com/matthieu/execore/rlp"
)

// accountRLP is the on-disk account record, RLP-encoded into
// ethdb.PlainState keyed by ethdb.AccountKey(addr).
type accountRLP struct {
	Nonce    uint64
	Balance  []byte // big-endian, minimal, per rlp's writeBigInt convention
	CodeHash common.Hash
}

// Database bridges StateDB to the underlying ethdb.KeyValueStore,
// buffering per-block writes and flushing them keyed by block number
// so an unwind can discard everything written at or after the reorg
// point, matching Silkworm's "buffered change then flush" design
// (blockchain.hpp's state_.write_to_db) and spec §4.C/§6.
type Database struct {
	kv        ethdb.KeyValueStore
	codeCache *fastcache.Cache // fronts the Code table read path
}

// NewDatabase wraps kv with a 32MiB code-table read cache, grounded on
// the teacher's go.mod dependency on VictoriaMetrics/fastcache.
func NewDatabase(kv ethdb.KeyValueStore) *Database {
	return &Database{kv: kv, codeCache: fastcache.New(32 * 1024 * 1024)}
}

func (d *Database) readAccount(addr common.Address) (Account, bool) {
	v, ok, err := d.kv.Get(ethdb.PlainState, ethdb.AccountKey(addr))
	if err != nil || !ok {
		return Account{}, false
	}
	var rec accountRLP
	if err := rlp.DecodeBytes(v, &rec); err != nil {
		return Account{}, false
	}
	bal, _ := uint256.FromBig(new(big.Int).SetBytes(rec.Balance))
	return Account{Nonce: rec.Nonce, Balance: bal, CodeHash: rec.CodeHash}, true
}

func (d *Database) readCode(hash common.Hash) []byte {
	if v, ok := d.codeCache.HasGet(nil, hash.Bytes()); ok {
		return v
	}
	v, ok, err := d.kv.Get(ethdb.Code, ethdb.CodeKey(hash))
	if err != nil || !ok {
		return nil
	}
	d.codeCache.Set(hash.Bytes(), v)
	return v
}

func (d *Database) readStorage(addr common.Address, key common.Hash) common.Hash {
	v, ok, err := d.kv.Get(ethdb.PlainState, ethdb.StorageKey(addr, key))
	if err != nil || !ok {
		return common.Hash{}
	}
	return common.BytesToHash(v)
}

// changeSetMarker prefixes a change-set value to distinguish "the
// account/slot was absent before this block" (deleteMarker) from "the
// account/slot held this encoding before this block" (presentMarker),
// so unwindBlock can restore either outcome exactly.
const (
	deleteMarker  byte = 0
	presentMarker byte = 1
)

func (d *Database) writeAccount(blockNumber uint64, addr common.Address, obj *stateObject) error {
	prior, _, err := d.kv.Get(ethdb.PlainState, ethdb.AccountKey(addr))
	if err != nil {
		return err
	}
	if err := d.recordAccountChange(blockNumber, addr, prior); err != nil {
		return err
	}

	rec := accountRLP{Nonce: obj.nonce, Balance: obj.balance.ToBig().Bytes(), CodeHash: obj.codeHash}
	enc, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		return err
	}
	if err := d.kv.Put(ethdb.PlainState, ethdb.AccountKey(addr), enc); err != nil {
		return err
	}
	if len(obj.code) > 0 {
		if err := d.kv.Put(ethdb.Code, ethdb.CodeKey(obj.codeHash), obj.code); err != nil {
			return err
		}
		d.codeCache.Set(obj.codeHash.Bytes(), obj.code)
	}
	for key, value := range obj.storage {
		priorSlot, _, err := d.kv.Get(ethdb.PlainState, ethdb.StorageKey(addr, key))
		if err != nil {
			return err
		}
		if err := d.recordStorageChange(blockNumber, addr, key, priorSlot); err != nil {
			return err
		}
		if err := d.kv.Put(ethdb.PlainState, ethdb.StorageKey(addr, key), value.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// recordAccountChange persists prior (the account's PlainState encoding
// immediately before this block's write, or nil if it did not exist) so
// unwindBlock can restore it exactly.
func (d *Database) recordAccountChange(blockNumber uint64, addr common.Address, prior []byte) error {
	return d.kv.Put(ethdb.AccountChangeSet, changeSetKey(blockNumber, addr), encodeChangeSetValue(prior))
}

func (d *Database) recordStorageChange(blockNumber uint64, addr common.Address, slot common.Hash, prior []byte) error {
	return d.kv.Put(ethdb.StorageChangeSet, storageChangeSetKey(blockNumber, addr, slot), encodeChangeSetValue(prior))
}

func encodeChangeSetValue(prior []byte) []byte {
	if len(prior) == 0 {
		return []byte{deleteMarker}
	}
	return append([]byte{presentMarker}, prior...)
}

func decodeChangeSetValue(v []byte) (prior []byte, existed bool) {
	if len(v) == 0 || v[0] == deleteMarker {
		return nil, false
	}
	return v[1:], true
}

// storageChangeSetKey extends changeSetKey with the storage slot so
// that distinct slots touched on the same account within the same
// block occupy distinct change-set entries, per §6's
// `be64(block_number) || address || storage_key` layout.
func storageChangeSetKey(blockNumber uint64, addr common.Address, slot common.Hash) []byte {
	k := changeSetKey(blockNumber, addr)
	return append(k, slot.Bytes()...)
}

func (d *Database) deleteAccount(blockNumber uint64, addr common.Address) error {
	prior, _, err := d.kv.Get(ethdb.PlainState, ethdb.AccountKey(addr))
	if err != nil {
		return err
	}
	if err := d.recordAccountChange(blockNumber, addr, prior); err != nil {
		return err
	}
	return d.kv.Delete(ethdb.PlainState, ethdb.AccountKey(addr))
}

func changeSetKey(blockNumber uint64, addr common.Address) []byte {
	k := make([]byte, 8, 8+common.AddressLength)
	for i := 7; i >= 0; i-- {
		k[i] = byte(blockNumber)
		blockNumber >>= 8
	}
	return append(k, addr.Bytes()...)
}

// unwindBlock reverses every account and storage mutation change-set
// entry recorded for blockNumber, restoring PlainState to its value
// immediately before that block executed (§4.F "Unwind"). Grounded on
// the cursor/iterator shape of the teacher's ethdb.LDBDatabase, applied
// here to the block-keyed change-set tables instead of a snapshot
// range scan.
func (d *Database) unwindBlock(blockNumber uint64) error {
	prefix := be64Key(blockNumber)

	cur := d.kv.NewCursor(ethdb.AccountChangeSet)
	defer cur.Close()
	for ok := cur.Seek(prefix); ok && bytes.HasPrefix(cur.Key(), prefix); ok = cur.Next() {
		addr := common.BytesToAddress(cur.Key()[8:])
		prior, existed := decodeChangeSetValue(cur.Value())
		if existed {
			if err := d.kv.Put(ethdb.PlainState, ethdb.AccountKey(addr), prior); err != nil {
				return err
			}
		} else if err := d.kv.Delete(ethdb.PlainState, ethdb.AccountKey(addr)); err != nil {
			return err
		}
	}

	scur := d.kv.NewCursor(ethdb.StorageChangeSet)
	defer scur.Close()
	for ok := scur.Seek(prefix); ok && bytes.HasPrefix(scur.Key(), prefix); ok = scur.Next() {
		key := scur.Key()[8:]
		addr := common.BytesToAddress(key[:common.AddressLength])
		slot := common.BytesToHash(key[common.AddressLength:])
		prior, existed := decodeChangeSetValue(scur.Value())
		if existed {
			if err := d.kv.Put(ethdb.PlainState, ethdb.StorageKey(addr, slot), prior); err != nil {
				return err
			}
		} else if err := d.kv.Delete(ethdb.PlainState, ethdb.StorageKey(addr, slot)); err != nil {
			return err
		}
	}
	return nil
}

func be64Key(n uint64) []byte {
	k := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		k[i] = byte(n)
		n >>= 8
	}
	return k
}

// Account is the decoded on-disk account record (§3).
type Account struct {
	Nonce    uint64
	Balance  *uint256.Int
	CodeHash common.Hash
}

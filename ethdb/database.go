// Package ethdb is the external key/value store boundary (§6 "External
// Interfaces"): a narrow Cursor/KeyValueStore pair plus the table-name
// register and block-keyed change-set format the World State and
// Blockchain driver persist through. Grounded on the teacher's
// ethdb/backup.go (LDBDatabase/leveldb.Batch/util.Range/
// iterator.Iterator), generalized into an interface with a real
// goleveldb-backed implementation and an in-memory fake for tests, and
// on the table-naming register in
// other_examples/..._erigon-lib-kv-tables.go.
package ethdb

import "github.com/matthieu/execore/common"

// Table names, grounded on the Erigon kv table-name constants in the
// retrieval pack (PlainState/AccountChangeSet/StorageChangeSet/Code/
// CanonicalHeaders/Headers/Bodies/Receipts), scoped to what this
// execution core actually persists.
const (
	PlainState       = "PlainState"
	AccountChangeSet = "AccountChangeSet"
	StorageChangeSet = "StorageChangeSet"
	Code             = "Code"
	CanonicalHeaders = "CanonicalHeaders"
	Headers          = "Headers"
	Bodies           = "Bodies"
	Receipts         = "Receipts"

	// TotalDifficulty is not one of Erigon's table names (total
	// difficulty tracking moved out of the kv layer there); it's added
	// here because the Blockchain driver needs it to compare forks
	// during insert_block step 5 and no header field carries it.
	TotalDifficulty = "TotalDifficulty"
)

// KeyValueStore is the storage boundary the World State and Blockchain
// driver are built on (§6). Every table is addressed by name; within a
// table, keys are byte strings ordered lexicographically so
// TruncateTableFrom can seek.
type KeyValueStore interface {
	Get(table string, key []byte) ([]byte, bool, error)
	Put(table string, key, value []byte) error
	Delete(table string, key []byte) error
	NewCursor(table string) Cursor
	Close() error
}

// Cursor iterates a table in key order, used by TruncateTableFrom and
// by core/state's change-set scans in unwindBlock.
type Cursor interface {
	Seek(key []byte) bool
	Next() bool
	Key() []byte
	Value() []byte
	Close()
}

// AccountKey/StorageKey/CodeKey compose the byte-string keys used
// across tables, keeping the encoding in one place per §6's "narrow
// interfaces" framing.
func AccountKey(addr common.Address) []byte { return addr.Bytes() }

func StorageKey(addr common.Address, slot common.Hash) []byte {
	k := make([]byte, 0, common.AddressLength+common.HashLength)
	k = append(k, addr.Bytes()...)
	k = append(k, slot.Bytes()...)
	return k
}

func CodeKey(hash common.Hash) []byte { return hash.Bytes() }

package ethdb

import "github.com/matthieu/execore/common"

// ConvertToDBFormat reshapes one change-set entry from its
// write-buffer key/value (as produced while executing a block) into
// its durable table key/value, ported from Silkworm's
// convert_to_db_format (stagedsync/util.cpp): an 8-byte key selects
// the account-change-set shape (address folded out of the value), any
// other key length selects the storage-change-set shape (address +
// incarnation folded out of the key, slot hash folded out of the
// value).
func ConvertToDBFormat(key, value []byte) (dbKey, dbValue []byte) {
	if len(key) == 8 {
		addr := value[:common.AddressLength]
		payload := value[common.AddressLength:]
		return append([]byte(nil), addr...), append([]byte(nil), payload...)
	}
	addrAndIncarnation := append([]byte(nil), key[8:]...)
	dbKey = append(addrAndIncarnation, value[:common.HashLength]...)
	dbValue = append([]byte(nil), value[common.HashLength:]...)
	return dbKey, dbValue
}

// TruncateTableFrom erases every entry in table whose key is >=
// startingKey. Ported from Silkworm's truncate_table_from
// (stagedsync/util.cpp); only the forward direction is implemented, not
// the reverse-erase branch (erase everything strictly below the
// starting key). Nothing in this module calls it: the unwind path
// (core/state's unwindBlock) restores PlainState from change-set
// entries without erasing them.
//
// startingKey need not be present in the table: like Silkworm's
// lower_bound, the cursor seeks to the first key >= startingKey and
// erasing starts there. TruncateTableFrom is a no-op only when no key
// >= startingKey exists (resolves Open Question 3).
func TruncateTableFrom(db KeyValueStore, table string, startingKey []byte) error {
	cur := db.NewCursor(table)
	defer cur.Close()

	if !cur.Seek(startingKey) {
		return nil
	}
	var toDelete [][]byte
	toDelete = append(toDelete, append([]byte(nil), cur.Key()...))
	for cur.Next() {
		toDelete = append(toDelete, append([]byte(nil), cur.Key()...))
	}
	for _, k := range toDelete {
		if err := db.Delete(table, k); err != nil {
			return err
		}
	}
	return nil
}

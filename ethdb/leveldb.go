package ethdb

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDB is the on-disk KeyValueStore implementation, adapted from
// the teacher's ethdb/backup.go (LDBDatabase wrapping
// *leveldb.DB/leveldb.Batch/util.Range/iterator.Iterator). goleveldb has
// no native table concept, so each table is a key prefix, matching the
// same prefixing convention the teacher's LDBDatabase callers used for
// backup ranges (util.Range{Start: prefix, Limit: ...}).
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens (creating if absent) the leveldb file at path.
func OpenLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if errors.IsCorrupted(err) {
		db, err = leveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db}, nil
}

func tableKey(table string, key []byte) []byte {
	k := make([]byte, 0, len(table)+1+len(key))
	k = append(k, table...)
	k = append(k, ':')
	k = append(k, key...)
	return k
}

func (l *LevelDB) Get(table string, key []byte) ([]byte, bool, error) {
	v, err := l.db.Get(tableKey(table, key), nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (l *LevelDB) Put(table string, key, value []byte) error {
	return l.db.Put(tableKey(table, key), value, nil)
}

func (l *LevelDB) Delete(table string, key []byte) error {
	return l.db.Delete(tableKey(table, key), nil)
}

func (l *LevelDB) Close() error { return l.db.Close() }

func (l *LevelDB) NewCursor(table string) Cursor {
	prefix := append([]byte(table), ':')
	it := l.db.NewIterator(util.BytesPrefix(prefix), nil)
	return &ldbCursor{it: it, prefix: prefix}
}

type ldbCursor struct {
	it     iterator.Iterator
	prefix []byte
}

func (c *ldbCursor) Seek(key []byte) bool {
	return c.it.Seek(tableKey(string(c.prefix[:len(c.prefix)-1]), key))
}

func (c *ldbCursor) Next() bool { return c.it.Next() }

func (c *ldbCursor) Key() []byte {
	k := c.it.Key()
	if len(k) < len(c.prefix) {
		return nil
	}
	return k[len(c.prefix):]
}

func (c *ldbCursor) Value() []byte { return c.it.Value() }

func (c *ldbCursor) Close() { c.it.Release() }

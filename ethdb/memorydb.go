package ethdb

import "sort"

// MemoryDB is a map-backed KeyValueStore, used by tests and by any
// caller that doesn't need persistence across process restarts —
// matching the common Go practice of a narrow-interface in-memory fake
// standing in for a real backing store in unit tests.
type MemoryDB struct {
	tables map[string]map[string][]byte
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{tables: make(map[string]map[string][]byte)}
}

func (m *MemoryDB) table(name string) map[string][]byte {
	t, ok := m.tables[name]
	if !ok {
		t = make(map[string][]byte)
		m.tables[name] = t
	}
	return t
}

func (m *MemoryDB) Get(table string, key []byte) ([]byte, bool, error) {
	v, ok := m.table(table)[string(key)]
	return v, ok, nil
}

func (m *MemoryDB) Put(table string, key, value []byte) error {
	m.table(table)[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryDB) Delete(table string, key []byte) error {
	delete(m.table(table), string(key))
	return nil
}

func (m *MemoryDB) Close() error { return nil }

func (m *MemoryDB) NewCursor(table string) Cursor {
	t := m.table(table)
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &memCursor{table: t, keys: keys, pos: -1}
}

type memCursor struct {
	table map[string][]byte
	keys  []string
	pos   int
}

func (c *memCursor) Seek(key []byte) bool {
	target := string(key)
	for i, k := range c.keys {
		if k >= target {
			c.pos = i
			return true
		}
	}
	c.pos = len(c.keys)
	return false
}

func (c *memCursor) Next() bool {
	c.pos++
	return c.pos < len(c.keys)
}

func (c *memCursor) Key() []byte {
	if c.pos < 0 || c.pos >= len(c.keys) {
		return nil
	}
	return []byte(c.keys[c.pos])
}

func (c *memCursor) Value() []byte {
	if c.pos < 0 || c.pos >= len(c.keys) {
		return nil
	}
	return c.table[c.keys[c.pos]]
}

func (c *memCursor) Close() {}

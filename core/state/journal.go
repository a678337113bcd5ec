package state

import (
	"github.com/holiman/uint256"

	"github.com/matthieu/execore/common"
)

// journalEntry is one reversible mutation; revert undoes it against s.
// Grounded on spec §4.C: "The journal is a stack of inverse
// operations."
type journalEntry interface {
	revert(s *StateDB)
}

type journal struct {
	entries []journalEntry
}

func newJournal() *journal { return &journal{} }

func (j *journal) append(e journalEntry) {
	j.entries = append(j.entries, e)
}

// snapshot returns an index into the entry log that revertTo can later
// unwind to.
func (j *journal) snapshot() int { return len(j.entries) }

func (j *journal) revertTo(id int, s *StateDB) {
	for i := len(j.entries) - 1; i >= id; i-- {
		j.entries[i].revert(s)
	}
	j.entries = j.entries[:id]
}

type balanceChange struct {
	addr common.Address
	prev *uint256.Int
}

func (c balanceChange) revert(s *StateDB) {
	s.objects[c.addr].balance.Set(c.prev)
}

type nonceChange struct {
	addr common.Address
	prev uint64
}

func (c nonceChange) revert(s *StateDB) { s.objects[c.addr].nonce = c.prev }

type codeChange struct {
	addr     common.Address
	prevCode []byte
	prevHash common.Hash
}

func (c codeChange) revert(s *StateDB) {
	obj := s.objects[c.addr]
	obj.code = c.prevCode
	obj.codeHash = c.prevHash
}

type storageChange struct {
	addr common.Address
	key  common.Hash
	prev common.Hash
}

func (c storageChange) revert(s *StateDB) {
	s.objects[c.addr].storage[c.key] = c.prev
}

type touchChange struct {
	addr common.Address
}

func (c touchChange) revert(s *StateDB) { s.touched.Remove(c.addr) }

type createObjectChange struct {
	addr common.Address
}

func (c createObjectChange) revert(s *StateDB) { delete(s.objects, c.addr) }

type accessListAddAccountChange struct {
	addr common.Address
}

func (c accessListAddAccountChange) revert(s *StateDB) { s.accessedAddrs.Remove(c.addr) }

type accessListAddSlotChange struct {
	addr common.Address
	key  common.Hash
}

func (c accessListAddSlotChange) revert(s *StateDB) {
	if slots, ok := s.accessedSlots[c.addr]; ok {
		slots.Remove(c.key)
		if slots.Cardinality() == 0 {
			delete(s.accessedSlots, c.addr)
		}
	}
}

type selfDestructChange struct {
	addr common.Address
}

func (c selfDestructChange) revert(s *StateDB) { delete(s.selfDestructs, c.addr) }

type reviveChange struct {
	addr common.Address
}

func (c reviveChange) revert(s *StateDB) { s.objects[c.addr].deleted = true }

type refundChange struct {
	prev uint64
}

func (c refundChange) revert(s *StateDB) { s.refund = c.prev }

// logChange reverts a pushed log by popping the tail of the log slice;
// correct because logs can only be pushed and reverted in LIFO order
// within a single journal.
type logChange struct{}

func (c logChange) revert(s *StateDB) {
	s.logs = s.logs[:len(s.logs)-1]
	s.logSize--
}

package state

import (
	"bytes"
	"sort"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/rlp"
	"github.com/matthieu/execore/trie"
)

// StateRoot computes a deterministic commitment over every live account
// in the state, checked by the Blockchain driver against
// header.state_root when insert_block's check_state_root flag is set
// (§3 invariant: "state_root(state) == header.state_root after
// write_to_db completes"). Built on the same simplified
// ordered-pair hash tree trie.RootHash uses for the transactions/
// receipts roots (see trie/root.go's package doc): this is internally
// consistent and deterministic (satisfies P1) but, like those roots,
// is not a Merkle-Patricia trie and will not match a real Ethereum
// mainnet state root.
func (s *StateDB) StateRoot() common.Hash {
	addrs := make([]common.Address, 0, len(s.objects))
	for addr, obj := range s.objects {
		if obj.deleted {
			continue
		}
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})
	return trie.RootHash(len(addrs), func(i int) interface{} { return addrs[i] }, func(i int, item interface{}) []byte {
		obj := s.objects[item.(common.Address)]
		enc, _ := rlp.EncodeToBytes(&accountRLP{
			Nonce:    obj.nonce,
			Balance:  obj.balance.ToBig().Bytes(),
			CodeHash: obj.codeHash,
		})
		return enc
	})
}

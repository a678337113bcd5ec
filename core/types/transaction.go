// Copyright 2014 The go-ethereum Authors
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

package types

import (
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/crypto"
	"github.com/matthieu/execore/rlp"
	"github.com/matthieu/execore/trie"
)

var ErrInvalidSig = errors.New("invalid v, r, s values")

// Transaction type identifiers (§3: "Tagged variant {Legacy, AccessList,
// DynamicFee}").
const (
	LegacyTxType = iota
	AccessListTxType
	DynamicFeeTxType
)

// TxData is the interface each concrete transaction payload implements;
// the teacher's single TxData struct is generalized here into the
// tagged variant the spec requires.
type TxData interface {
	txType() byte
	copy() TxData

	chainID() *big.Int
	accessList() AccessList
	data() []byte
	gas() uint64
	gasPrice() *big.Int
	gasTipCap() *big.Int
	gasFeeCap() *big.Int
	value() *big.Int
	nonce() uint64
	to() *common.Address

	rawSignatureValues() (v, r, s *big.Int)
	setSignatureValues(chainID, v, r, s *big.Int)
}

// Transaction wraps a TxData payload with derived, cached fields
// (§3: "a derived from (recovered sender, cached)").
type Transaction struct {
	inner TxData

	hash atomic.Value
	size atomic.Value
	from atomic.Value
}

func NewTx(inner TxData) *Transaction {
	return &Transaction{inner: inner.copy()}
}

func (tx *Transaction) Type() uint8            { return tx.inner.txType() }
func (tx *Transaction) ChainID() *big.Int      { return tx.inner.chainID() }
func (tx *Transaction) Data() []byte           { return common.CopyBytes(tx.inner.data()) }
func (tx *Transaction) AccessList() AccessList { return tx.inner.accessList() }
func (tx *Transaction) Gas() uint64            { return tx.inner.gas() }
func (tx *Transaction) GasPrice() *big.Int     { return new(big.Int).Set(tx.inner.gasPrice()) }
func (tx *Transaction) GasTipCap() *big.Int    { return new(big.Int).Set(tx.inner.gasTipCap()) }
func (tx *Transaction) GasFeeCap() *big.Int    { return new(big.Int).Set(tx.inner.gasFeeCap()) }
func (tx *Transaction) Value() *big.Int        { return new(big.Int).Set(tx.inner.value()) }
func (tx *Transaction) Nonce() uint64          { return tx.inner.nonce() }
func (tx *Transaction) To() *common.Address    { return copyAddrPtr(tx.inner.to()) }

func copyAddrPtr(a *common.Address) *common.Address {
	if a == nil {
		return nil
	}
	cpy := *a
	return &cpy
}

// IsContractCreation reports whether the transaction has no recipient,
// i.e. it deploys a new contract (§3: "absent means contract creation").
func (tx *Transaction) IsContractCreation() bool { return tx.inner.to() == nil }

// EffectiveGasPrice returns min(max_fee, base_fee + max_priority_fee)
// for dynamic-fee transactions, or the flat gas price pre-London
// (§4.E bullet 2).
func (tx *Transaction) EffectiveGasPrice(baseFee *big.Int) *big.Int {
	if baseFee == nil || tx.Type() != DynamicFeeTxType {
		return tx.GasPrice()
	}
	effective := new(big.Int).Add(baseFee, tx.GasTipCap())
	if fee := tx.GasFeeCap(); effective.Cmp(fee) > 0 {
		return fee
	}
	return effective
}

// EffectivePriorityFeePerGas returns the portion of the effective gas
// price paid to the beneficiary rather than burned (§4.E bullet 10,
// Scenario 3).
func (tx *Transaction) EffectivePriorityFeePerGas(baseFee *big.Int) *big.Int {
	effective := tx.EffectiveGasPrice(baseFee)
	if baseFee == nil {
		return effective
	}
	priority := new(big.Int).Sub(effective, baseFee)
	if priority.Sign() < 0 {
		return new(big.Int)
	}
	return priority
}

func (tx *Transaction) RawSignatureValues() (v, r, s *big.Int) {
	return tx.inner.rawSignatureValues()
}

// Hash returns the Keccak256 hash of the RLP encoding of the
// transaction; it uniquely identifies the transaction (§3).
func (tx *Transaction) Hash() common.Hash {
	if hash := tx.hash.Load(); hash != nil {
		return hash.(common.Hash)
	}
	v := rlpHashTx(tx)
	tx.hash.Store(v)
	return v
}

// Size returns the RLP-encoded size of the transaction, caching the
// result exactly as the teacher's Transaction.Size() does.
func (tx *Transaction) Size() common.StorageSize {
	if size := tx.size.Load(); size != nil {
		return size.(common.StorageSize)
	}
	enc, _ := rlp.EncodeToBytes(tx.inner)
	size := common.StorageSize(len(enc))
	tx.size.Store(size)
	return size
}

// WithSignature returns a new transaction with the given 65-byte
// (r||s||v) signature attached, matching the teacher's
// tx.WithSignature(sig).
func (tx *Transaction) WithSignature(signer Signer, sig []byte) (*Transaction, error) {
	if len(sig) != 65 {
		return nil, fmt.Errorf("wrong size for signature: got %d, want 65", len(sig))
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	v := new(big.Int).SetInt64(int64(sig[64]))
	if tx.Type() == LegacyTxType {
		// Legacy v carries the recovery id offset by 27, or by
		// 2*chainID+35 when the signer applies EIP-155.
		if chainID := signer.chainID(); chainID != nil && chainID.Sign() != 0 {
			v.Add(v, new(big.Int).Add(new(big.Int).Lsh(chainID, 1), big.NewInt(35)))
		} else {
			v.Add(v, big.NewInt(27))
		}
	}
	cpy := tx.inner.copy()
	cpy.setSignatureValues(signer.chainID(), v, r, s)
	return &Transaction{inner: cpy}, nil
}

// WithFrom caches a known-recovered sender, used when the block source
// (§6) supplies `from` already recovered rather than lazily deriving it.
func (tx *Transaction) WithFrom(addr common.Address) {
	tx.from.Store(addr)
}

// CachedSender returns the previously recovered/cached sender, if any.
func (tx *Transaction) CachedSender() (common.Address, bool) {
	if v := tx.from.Load(); v != nil {
		return v.(common.Address), true
	}
	return common.Address{}, false
}

// MarshalBinary returns the EIP-2718 canonical encoding of the
// transaction: the bare RLP encoding for Legacy, or a type byte
// followed by the RLP encoding of the typed payload otherwise. Used by
// the chain store to persist transactions independent of which
// concrete TxData variant backs them.
func (tx *Transaction) MarshalBinary() ([]byte, error) {
	enc, err := rlp.EncodeToBytes(tx.inner)
	if err != nil {
		return nil, err
	}
	if tx.Type() == LegacyTxType {
		return enc, nil
	}
	return append([]byte{tx.Type()}, enc...), nil
}

// UnmarshalBinary parses the EIP-2718 canonical encoding MarshalBinary
// produces back into a Transaction.
func (tx *Transaction) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return errInvalidTxEnvelope
	}
	var inner TxData
	switch data[0] {
	case AccessListTxType:
		inner = new(AccessListTx)
		if err := rlp.DecodeBytes(data[1:], inner); err != nil {
			return err
		}
	case DynamicFeeTxType:
		inner = new(DynamicFeeTx)
		if err := rlp.DecodeBytes(data[1:], inner); err != nil {
			return err
		}
	default:
		inner = new(LegacyTx)
		if err := rlp.DecodeBytes(data, inner); err != nil {
			return err
		}
	}
	tx.inner = inner
	return nil
}

var errInvalidTxEnvelope = errors.New("rlp: empty transaction envelope")

// Transactions is a simple slice type, matching the teacher's
// Transactions convenience type for RLP list encoding.
type Transactions []*Transaction

func (s Transactions) Len() int { return len(s) }

// GetRlp implements the same Rlpable contract the teacher's
// Transactions.GetRlp does, for trie root computation (§4.G).
func (s Transactions) GetRlp(i int) []byte {
	enc, _ := rlp.EncodeToBytes(s[i].inner)
	return enc
}

// RootHash computes header.transactions_root (§4.G), checked by
// ExecutionProcessor against the incoming block's header.
func (s Transactions) RootHash() common.Hash {
	return trie.RootHash(s.Len(), func(i int) interface{} { return s[i] }, func(i int, item interface{}) []byte {
		return s.GetRlp(i)
	})
}

func rlpHashTx(tx *Transaction) common.Hash {
	enc, err := rlp.EncodeToBytes(tx.inner)
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(enc)
}

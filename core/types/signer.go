// Copyright 2016 The go-ethereum Authors
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
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/crypto"
	"github.com/matthieu/execore/params"
	"github.com/matthieu/execore/rlp"
)

var (
	ErrInvalidChainID = errors.New("invalid chain id for signer")
	errEmptyTypedTx   = errors.New("empty typed transaction bytes")
)

// Signer recovers a transaction's sender and computes its signing hash,
// generalizing the teacher's hard-coded Homestead/EIP-155 doFrom split
// into one interface per §3's "Signer ... chain-ID-aware sender
// recovery, replacing a Homestead boolean with the totally ordered
// Revision".
type Signer interface {
	// Sender returns the address derived from the transaction's
	// signature.
	Sender(tx *Transaction) (common.Address, error)
	// Hash returns the hash to be signed.
	Hash(tx *Transaction) common.Hash
	chainID() *big.Int
	// Equal reports whether two signers produce identical results for
	// the same transaction.
	Equal(Signer) bool
}

// MakeSigner returns the signer appropriate for the revision active at
// blockNumber (§4.A), generalizing the teacher's hard fork flag.
func MakeSigner(config *params.ChainConfig, blockNumber *big.Int) Signer {
	switch {
	case config.IsLondon(blockNumber):
		return londonSigner{eip155Signer{chainId: config.ChainID}}
	case config.IsBerlin(blockNumber):
		return eip2930Signer{eip155Signer{chainId: config.ChainID}}
	case config.IsEIP155(blockNumber):
		return eip155Signer{chainId: config.ChainID}
	case config.IsHomestead(blockNumber):
		return homesteadSigner{}
	default:
		return frontierSigner{}
	}
}

// frontierSigner handles the original, pre-Homestead legacy signature
// scheme (no chain ID, malleable s values accepted).
type frontierSigner struct{}

func (frontierSigner) chainID() *big.Int { return nil }

func (s frontierSigner) Equal(s2 Signer) bool {
	_, ok := s2.(frontierSigner)
	return ok
}

func (s frontierSigner) Sender(tx *Transaction) (common.Address, error) {
	if tx.Type() != LegacyTxType {
		return common.Address{}, fmt.Errorf("frontier signer does not handle tx type %d", tx.Type())
	}
	v, r, sv := tx.RawSignatureValues()
	return recoverPlain(s.Hash(tx), r, sv, v, false)
}

func (s frontierSigner) Hash(tx *Transaction) common.Hash {
	return crypto.RLPHash([]interface{}{
		tx.Nonce(), tx.GasPrice(), tx.Gas(), tx.inner.to(), tx.Value(), tx.Data(),
	})
}

// homesteadSigner is identical to frontierSigner except it rejects
// signatures with a high-s value (EIP-2 malleability fix).
type homesteadSigner struct{ frontierSigner }

func (s homesteadSigner) Equal(s2 Signer) bool {
	_, ok := s2.(homesteadSigner)
	return ok
}

func (s homesteadSigner) Sender(tx *Transaction) (common.Address, error) {
	if tx.Type() != LegacyTxType {
		return common.Address{}, fmt.Errorf("homestead signer does not handle tx type %d", tx.Type())
	}
	v, r, sv := tx.RawSignatureValues()
	return recoverPlain(s.Hash(tx), r, sv, v, true)
}

// eip155Signer adds replay protection by folding the chain ID into v
// (§3: "a derived (recovered sender, cached)").
type eip155Signer struct{ chainId *big.Int }

func (s eip155Signer) chainID() *big.Int { return s.chainId }

func (s eip155Signer) Equal(s2 Signer) bool {
	other, ok := s2.(eip155Signer)
	return ok && other.chainId.Cmp(s.chainId) == 0
}

func (s eip155Signer) Hash(tx *Transaction) common.Hash {
	return crypto.RLPHash([]interface{}{
		tx.Nonce(), tx.GasPrice(), tx.Gas(), tx.inner.to(), tx.Value(), tx.Data(),
		s.chainId, uint(0), uint(0),
	})
}

func (s eip155Signer) Sender(tx *Transaction) (common.Address, error) {
	if tx.Type() != LegacyTxType {
		return common.Address{}, fmt.Errorf("eip155 signer does not handle tx type %d", tx.Type())
	}
	v, r, sv := tx.RawSignatureValues()
	if s.chainId.Sign() != 0 {
		chainIDMul := new(big.Int).Lsh(s.chainId, 1)
		v = new(big.Int).Sub(v, chainIDMul)
		v.Sub(v, big.NewInt(8))
	}
	return recoverPlain(s.Hash(tx), r, sv, v, true)
}

// eip2930Signer extends eip155Signer to cover EIP-2930 access-list
// transactions, whose signature v is the plain recovery-id parity bit
// (no chain-ID folding) per §3.
type eip2930Signer struct{ eip155Signer }

func (s eip2930Signer) Equal(s2 Signer) bool {
	other, ok := s2.(eip2930Signer)
	return ok && other.chainId.Cmp(s.chainId) == 0
}

func (s eip2930Signer) Sender(tx *Transaction) (common.Address, error) {
	switch tx.Type() {
	case LegacyTxType:
		return s.eip155Signer.Sender(tx)
	case AccessListTxType:
		v, r, sv := tx.RawSignatureValues()
		if err := s.checkChainID(tx); err != nil {
			return common.Address{}, err
		}
		return recoverPlain(s.Hash(tx), r, sv, v, true)
	default:
		return common.Address{}, fmt.Errorf("eip2930 signer does not handle tx type %d", tx.Type())
	}
}

func (s eip2930Signer) checkChainID(tx *Transaction) error {
	if want := tx.ChainID(); want != nil && want.Cmp(s.chainId) != 0 {
		return ErrInvalidChainID
	}
	return nil
}

func (s eip2930Signer) Hash(tx *Transaction) common.Hash {
	if tx.Type() == LegacyTxType {
		return s.eip155Signer.Hash(tx)
	}
	return prefixedHash(tx.Type(), []interface{}{
		s.chainId, tx.Nonce(), tx.GasPrice(), tx.Gas(), tx.inner.to(), tx.Value(), tx.Data(), tx.AccessList(),
	})
}

// londonSigner extends eip2930Signer with EIP-1559 dynamic-fee
// transactions (§3).
type londonSigner struct{ eip155Signer }

func (s londonSigner) Equal(s2 Signer) bool {
	other, ok := s2.(londonSigner)
	return ok && other.chainId.Cmp(s.chainId) == 0
}

func (s londonSigner) Sender(tx *Transaction) (common.Address, error) {
	switch tx.Type() {
	case DynamicFeeTxType:
		v, r, sv := tx.RawSignatureValues()
		if want := tx.ChainID(); want != nil && want.Cmp(s.chainId) != 0 {
			return common.Address{}, ErrInvalidChainID
		}
		return recoverPlain(s.Hash(tx), r, sv, v, true)
	case AccessListTxType:
		eip2930 := eip2930Signer{s.eip155Signer}
		return eip2930.Sender(tx)
	default:
		return s.eip155Signer.Sender(tx)
	}
}

func (s londonSigner) Hash(tx *Transaction) common.Hash {
	if tx.Type() != DynamicFeeTxType {
		eip2930 := eip2930Signer{s.eip155Signer}
		return eip2930.Hash(tx)
	}
	return prefixedHash(tx.Type(), []interface{}{
		s.chainId, tx.Nonce(), tx.GasTipCap(), tx.GasFeeCap(), tx.Gas(), tx.inner.to(), tx.Value(), tx.Data(), tx.AccessList(),
	})
}

// prefixedHash hashes the EIP-2718 typed-transaction payload: the
// single type byte followed by the RLP list of signing fields.
func prefixedHash(txType byte, fields []interface{}) common.Hash {
	enc, err := rlp.EncodeToBytes(fields)
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(append([]byte{txType}, enc...))
}

// recoverPlain recovers the sender address from a signature, rejecting
// malleable high-s signatures once homestead is active, matching the
// teacher's Transaction.From/doFrom split.
func recoverPlain(sighash common.Hash, r, s, v *big.Int, homestead bool) (common.Address, error) {
	if v.BitLen() > 8 {
		return common.Address{}, ErrInvalidSig
	}
	recID, ok := normalizeRecoveryID(v.Uint64())
	if !ok {
		return common.Address{}, ErrInvalidSig
	}
	if !crypto.ValidateSignatureValues(recID, r, s, homestead) {
		return common.Address{}, ErrInvalidSig
	}
	sig := make([]byte, 65)
	rb, sb := r.Bytes(), s.Bytes()
	copy(sig[32-len(rb):32], rb)
	copy(sig[64-len(sb):64], sb)
	sig[64] = recID
	pub, err := crypto.Ecrecover(sighash[:], sig)
	if err != nil {
		return common.Address{}, err
	}
	if len(pub) == 0 || pub[0] != 4 {
		return common.Address{}, errors.New("invalid public key")
	}
	var addr common.Address
	copy(addr[:], crypto.Keccak256(pub[1:])[12:])
	return addr, nil
}

// normalizeRecoveryID reduces a raw signature v value to the 0/1
// recovery-id parity bit: typed transactions (EIP-2930/1559) encode it
// directly, legacy transactions offset it by 27.
func normalizeRecoveryID(v uint64) (byte, bool) {
	switch v {
	case 0, 1:
		return byte(v), true
	case 27, 28:
		return byte(v - 27), true
	default:
		return 0, false
	}
}

// SignTx signs tx with prv under signer, returning the signed
// transaction. Used by tests and by any future local-signing tooling
// built on this package, mirroring the teacher's types.SignTx helper.
func SignTx(tx *Transaction, signer Signer, prv *ecdsa.PrivateKey) (*Transaction, error) {
	h := signer.Hash(tx)
	sig, err := crypto.Sign(h[:], prv)
	if err != nil {
		return nil, err
	}
	return tx.WithSignature(signer, sig)
}

// Sender recovers the transaction's sender via signer, consulting the
// cached value first exactly as the teacher's Transaction.From(signer)
// wrapper does.
func Sender(signer Signer, tx *Transaction) (common.Address, error) {
	if addr, ok := tx.CachedSender(); ok {
		return addr, nil
	}
	addr, err := signer.Sender(tx)
	if err != nil {
		return common.Address{}, err
	}
	tx.WithFrom(addr)
	return addr, nil
}

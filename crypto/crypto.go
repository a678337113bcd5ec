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

package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
	"github.com/matthieu/execore/common"
	"github.com/matthieu/execore/rlp"
	"golang.org/x/crypto/sha3"
)

var (
	ErrInvalidPubkey = errors.New("invalid public key")
	secp256k1N       = btcec.S256().N
	secp256k1halfN   = new(big.Int).Rsh(secp256k1N, 1)
)

// Keccak256 hashes the concatenation of all inputs, exactly the way
// the teacher's transaction.go composes SigHash/Hash via rlpHash.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash is Keccak256 with the result already wrapped as common.Hash.
func Keccak256Hash(data ...[]byte) common.Hash {
	return common.BytesToHash(Keccak256(data...))
}

// RLPHash mirrors the teacher's private rlpHash helper: Keccak256 of the
// canonical RLP encoding of x, used to derive transaction/header hashes.
func RLPHash(x interface{}) common.Hash {
	enc, err := rlp.EncodeToBytes(x)
	if err != nil {
		panic(err)
	}
	return Keccak256Hash(enc)
}

// ValidateSignatureValues checks r, s bounds and, from Homestead onward,
// rejects the upper half of s to prevent signature malleability (§4.B).
func ValidateSignatureValues(v byte, r, s *big.Int, homestead bool) bool {
	if r == nil || s == nil {
		return false
	}
	if v != 0 && v != 1 {
		return false
	}
	if r.Sign() <= 0 || s.Sign() <= 0 {
		return false
	}
	if r.Cmp(secp256k1N) >= 0 || s.Cmp(secp256k1N) >= 0 {
		return false
	}
	if homestead && s.Cmp(secp256k1halfN) > 0 {
		return false
	}
	return true
}

// Ecrecover returns the uncompressed public key that produced the given
// signature over hash.
func Ecrecover(hash, sig []byte) ([]byte, error) {
	pub, _, err := btcec.RecoverCompact(btcec.S256(), sig65From(sig), hash)
	if err != nil {
		return nil, err
	}
	return pub.SerializeUncompressed(), nil
}

// sig65From rewrites a (r||s||v) 65-byte signature into btcec's
// (recovery-id-prefixed) compact form.
func sig65From(sig []byte) []byte {
	out := make([]byte, 65)
	out[0] = sig[64] + 27
	copy(out[1:], sig[:64])
	return out
}

// Sign produces a 65-byte (r||s||v) signature over hash using prv.
func Sign(hash []byte, prv *ecdsa.PrivateKey) ([]byte, error) {
	priv := (*btcec.PrivateKey)(prv)
	sig, err := btcec.SignCompact(btcec.S256(), priv, hash, false)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 65)
	copy(out[:64], sig[1:])
	out[64] = sig[0] - 27
	return out, nil
}

// GenerateKey generates a new secp256k1 private key, the same curve the
// rest of this package (Sign/Ecrecover) assumes.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(btcec.S256(), rand.Reader)
}

// PubkeyToAddress derives the 20-byte address from an uncompressed
// public key: the low 20 bytes of Keccak256 of its X||Y coordinates.
func PubkeyToAddress(pub ecdsa.PublicKey) common.Address {
	buf := elliptic.Marshal(btcec.S256(), pub.X, pub.Y)
	return common.BytesToAddress(Keccak256(buf[1:])[12:])
}

// CreateAddress computes the address of a newly created contract, given
// the creating account's address and the nonce used for the create
// transaction (§4.E bullet "contract creation store the creation
// address").
func CreateAddress(b common.Address, nonce uint64) common.Address {
	data, err := rlp.EncodeToBytes([]interface{}{b.Bytes(), nonce})
	if err != nil {
		panic(err)
	}
	return common.BytesToAddress(Keccak256(data)[12:])
}

// CreateAddress2 computes the address of a contract created via CREATE2
// (EIP-1014): keccak256(0xff ++ sender ++ salt ++ keccak256(init_code))[12:].
func CreateAddress2(b common.Address, salt [32]byte, initCodeHash []byte) common.Address {
	payload := append([]byte{0xff}, b.Bytes()...)
	payload = append(payload, salt[:]...)
	payload = append(payload, initCodeHash...)
	return common.BytesToAddress(Keccak256(payload)[12:])
}

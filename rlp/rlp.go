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

// Package rlp implements the subset of Ethereum's Recursive Length
// Prefix encoding the execution core needs: hashing transactions and
// headers, and computing the receipts/transactions trie inputs (§4.G,
// "Codec Interfaces"). It is narrow, hand-rolled plumbing behind the
// interface spec.md explicitly scopes out ("consumed through narrow
// interfaces") — no RLP implementation was present in the retrieval
// pack to ground a fuller port against.
package rlp

import (
	"bytes"
	"encoding"
	"errors"
	"fmt"
	"io"
	"math/big"
	"reflect"
)

// Encoder is implemented by types that know how to encode themselves,
// mirroring the teacher's *Transaction.EncodeRLP(io.Writer) error.
type Encoder interface {
	EncodeRLP(io.Writer) error
}

// Encode writes the RLP encoding of val to w.
func Encode(w io.Writer, val interface{}) error {
	b, err := EncodeToBytes(val)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// EncodeToBytes returns the canonical RLP encoding of val.
func EncodeToBytes(val interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, reflect.ValueOf(val)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ListSize returns the encoded size of an RLP list whose content occupies
// contentSize bytes, matching the teacher's rlp.ListSize(size) call site
// in Transaction.DecodeRLP.
func ListSize(contentSize uint64) uint64 {
	return uint64(len(headerBytes(true, contentSize))) + contentSize
}

func encode(buf *bytes.Buffer, v reflect.Value) error {
	if !v.IsValid() {
		return writeString(buf, nil)
	}

	if v.CanInterface() {
		if enc, ok := v.Interface().(Encoder); ok {
			var inner bytes.Buffer
			if err := enc.EncodeRLP(&inner); err != nil {
				return err
			}
			buf.Write(inner.Bytes())
			return nil
		}
		if bm, ok := v.Interface().(encoding.BinaryMarshaler); ok {
			b, err := bm.MarshalBinary()
			if err != nil {
				return err
			}
			return writeString(buf, b)
		}
	}

	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return writeString(buf, nil)
		}
		return encode(buf, v.Elem())

	case reflect.Interface:
		if v.IsNil() {
			return writeString(buf, nil)
		}
		return encode(buf, v.Elem())

	case reflect.String:
		return writeString(buf, []byte(v.String()))

	case reflect.Bool:
		if v.Bool() {
			return writeString(buf, []byte{1})
		}
		return writeString(buf, nil)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return writeUint(buf, v.Uint())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := v.Int()
		if n < 0 {
			return errors.New("rlp: cannot encode negative integers")
		}
		return writeUint(buf, uint64(n))

	case reflect.Slice, reflect.Array:
		if isByteSlice(v) {
			return writeString(buf, byteSliceOf(v))
		}
		return encodeList(buf, v)

	case reflect.Struct:
		if big, ok := asBigInt(v); ok {
			return writeBigInt(buf, big)
		}
		return encodeStruct(buf, v)

	default:
		return fmt.Errorf("rlp: unsupported type %s", v.Type())
	}
}

func asBigInt(v reflect.Value) (*big.Int, bool) {
	if v.Type() == reflect.TypeOf(big.Int{}) {
		b := v.Interface().(big.Int)
		return &b, true
	}
	return nil, false
}

func isByteSlice(v reflect.Value) bool {
	elem := v.Type().Elem()
	return elem.Kind() == reflect.Uint8
}

func byteSliceOf(v reflect.Value) []byte {
	if v.Kind() == reflect.Array {
		b := make([]byte, v.Len())
		reflect.Copy(reflect.ValueOf(b), v)
		return b
	}
	return v.Bytes()
}

func encodeList(buf *bytes.Buffer, v reflect.Value) error {
	var inner bytes.Buffer
	for i := 0; i < v.Len(); i++ {
		if err := encode(&inner, v.Index(i)); err != nil {
			return err
		}
	}
	return writeList(buf, inner.Bytes())
}

func encodeStruct(buf *bytes.Buffer, v reflect.Value) error {
	var inner bytes.Buffer
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		if f.Tag.Get("rlp") == "-" {
			continue
		}
		if err := encode(&inner, v.Field(i)); err != nil {
			return err
		}
	}
	return writeList(buf, inner.Bytes())
}

func writeBigInt(buf *bytes.Buffer, b *big.Int) error {
	if b.Sign() < 0 {
		return errors.New("rlp: cannot encode negative big.Int")
	}
	if b.Sign() == 0 {
		return writeString(buf, nil)
	}
	return writeString(buf, b.Bytes())
}

func writeUint(buf *bytes.Buffer, n uint64) error {
	if n == 0 {
		return writeString(buf, nil)
	}
	var b [8]byte
	for i := 7; i >= 0; i-- {
		b[i] = byte(n)
		n >>= 8
	}
	i := 0
	for i < 8 && b[i] == 0 {
		i++
	}
	return writeString(buf, b[i:])
}

func writeString(buf *bytes.Buffer, b []byte) error {
	if len(b) == 1 && b[0] < 0x80 {
		buf.WriteByte(b[0])
		return nil
	}
	buf.Write(headerBytes(false, uint64(len(b))))
	buf.Write(b)
	return nil
}

func writeList(buf *bytes.Buffer, content []byte) error {
	buf.Write(headerBytes(true, uint64(len(content))))
	buf.Write(content)
	return nil
}

// headerBytes returns the RLP length-prefix header for a string/list of
// the given content size.
func headerBytes(isList bool, size uint64) []byte {
	offset := byte(0x80)
	if isList {
		offset = 0xC0
	}
	if size < 56 {
		return []byte{offset + byte(size)}
	}
	var sizeBytes []byte
	for size > 0 {
		sizeBytes = append([]byte{byte(size)}, sizeBytes...)
		size >>= 8
	}
	header := make([]byte, 0, len(sizeBytes)+1)
	header = append(header, offset+55+byte(len(sizeBytes)))
	header = append(header, sizeBytes...)
	return header
}

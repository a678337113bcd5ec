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

package rlp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"math/big"
	"reflect"
)

// Kind identifies the shape of the next RLP value in a Stream, matching
// the teacher's rlp.Stream.Kind() call site in Transaction.DecodeRLP.
type Kind int

const (
	Byte Kind = iota
	String
	List
)

var ErrExpectedList = errors.New("rlp: expected list")
var ErrExpectedString = errors.New("rlp: expected string")

// Stream reads successive RLP values from an input source, matching the
// teacher's *rlp.Stream usage in Transaction.DecodeRLP.
type Stream struct {
	r   *bytes.Reader
	buf []byte
}

func NewStream(r io.Reader, inputLimit uint64) *Stream {
	b, _ := ioutil.ReadAll(io.LimitReader(r, int64(maxUint64(inputLimit, 1<<31))))
	return &Stream{r: bytes.NewReader(b), buf: b}
}

func maxUint64(a, b uint64) uint64 {
	if a == 0 {
		return b
	}
	return a
}

// Kind reports the kind and content size of the next value without
// consuming it.
func (s *Stream) Kind() (Kind, uint64, error) {
	data := s.r.Len()
	if data == 0 {
		return 0, 0, io.EOF
	}
	pos, _ := s.r.Seek(0, io.SeekCurrent)
	b := s.buf[pos]
	switch {
	case b < 0x80:
		return Byte, 1, nil
	case b < 0xB8:
		return String, uint64(b - 0x80), nil
	case b < 0xC0:
		sizeLen := int(b - 0xB7)
		size, err := s.peekBigSize(int(pos)+1, sizeLen)
		return String, size, err
	case b < 0xF8:
		return List, uint64(b - 0xC0), nil
	default:
		sizeLen := int(b - 0xF7)
		size, err := s.peekBigSize(int(pos)+1, sizeLen)
		return List, size, err
	}
}

func (s *Stream) peekBigSize(offset, n int) (uint64, error) {
	if offset+n > len(s.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	var size uint64
	for _, bb := range s.buf[offset : offset+n] {
		size = size<<8 | uint64(bb)
	}
	return size, nil
}

// raw returns the full encoding (header + content) of the next value,
// advancing the cursor past it.
func (s *Stream) raw() ([]byte, Kind, error) {
	start, _ := s.r.Seek(0, io.SeekCurrent)
	kind, size, err := s.Kind()
	if err != nil {
		return nil, 0, err
	}
	headerLen := headerLenFor(kind, size, s.buf[start])
	total := int64(headerLen) + int64(size)
	if kind == Byte {
		total = 1
	}
	out := make([]byte, total)
	if _, err := s.r.ReadAt(out, start); err != nil && err != io.EOF {
		return nil, 0, err
	}
	if _, err := s.r.Seek(start+total, io.SeekStart); err != nil {
		return nil, 0, err
	}
	return out, kind, nil
}

func headerLenFor(kind Kind, size uint64, first byte) int {
	switch {
	case first < 0x80:
		return 0
	case first < 0xB8:
		return 1
	case first < 0xC0:
		return 1 + int(first-0xB7)
	case first < 0xF8:
		return 1
	default:
		return 1 + int(first-0xF7)
	}
}

// Decode decodes the next RLP value into val, which must be a pointer.
func (s *Stream) Decode(val interface{}) error {
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("rlp: Decode requires non-nil pointer")
	}
	raw, kind, err := s.raw()
	if err != nil {
		return err
	}
	return decodeInto(rv.Elem(), raw, kind)
}

// DecodeBytes parses data as a single RLP value into val.
func DecodeBytes(data []byte, val interface{}) error {
	s := NewStream(bytes.NewReader(data), uint64(len(data)))
	return s.Decode(val)
}

func decodeInto(v reflect.Value, raw []byte, kind Kind) error {
	content, err := contentOf(raw, kind)
	if err != nil {
		return err
	}
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return decodeInto(v.Elem(), raw, kind)

	case reflect.String:
		v.SetString(string(content))
		return nil

	case reflect.Bool:
		v.SetBool(len(content) == 1 && content[0] == 1)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var n uint64
		for _, b := range content {
			n = n<<8 | uint64(b)
		}
		v.SetUint(n)
		return nil

	case reflect.Slice, reflect.Array:
		if isByteSlice(v) {
			if v.Kind() == reflect.Array {
				reflect.Copy(v, reflect.ValueOf(content))
			} else {
				v.SetBytes(append([]byte(nil), content...))
			}
			return nil
		}
		return decodeListInto(v, content)

	case reflect.Struct:
		if v.Type() == reflect.TypeOf(big.Int{}) {
			b := new(big.Int).SetBytes(content)
			v.Set(reflect.ValueOf(*b))
			return nil
		}
		return decodeStructInto(v, content)

	default:
		return fmt.Errorf("rlp: unsupported decode type %s", v.Type())
	}
}

func contentOf(raw []byte, kind Kind) ([]byte, error) {
	if kind == Byte {
		return raw, nil
	}
	first := raw[0]
	hl := headerLenFor(kind, 0, first)
	return raw[hl:], nil
}

func decodeListInto(v reflect.Value, content []byte) error {
	s := NewStream(bytes.NewReader(content), uint64(len(content)))
	var items []reflect.Value
	elemType := v.Type().Elem()
	for {
		if s.r.Len() == 0 {
			break
		}
		raw, kind, err := s.raw()
		if err != nil {
			return err
		}
		elem := reflect.New(elemType).Elem()
		if err := decodeInto(elem, raw, kind); err != nil {
			return err
		}
		items = append(items, elem)
	}
	if v.Kind() == reflect.Array {
		for i, it := range items {
			if i < v.Len() {
				v.Index(i).Set(it)
			}
		}
		return nil
	}
	out := reflect.MakeSlice(v.Type(), len(items), len(items))
	for i, it := range items {
		out.Index(i).Set(it)
	}
	v.Set(out)
	return nil
}

func decodeStructInto(v reflect.Value, content []byte) error {
	s := NewStream(bytes.NewReader(content), uint64(len(content)))
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" || f.Tag.Get("rlp") == "-" {
			continue
		}
		raw, kind, err := s.raw()
		if err != nil {
			return err
		}
		field := v.Field(i)
		if f.Tag.Get("rlp") == "nil" && field.Kind() == reflect.Ptr {
			content, _ := contentOf(raw, kind)
			if len(content) == 0 {
				continue // leave the pointer nil, e.g. Transaction.Recipient for contract creation
			}
		}
		if err := decodeInto(field, raw, kind); err != nil {
			return err
		}
	}
	return nil
}

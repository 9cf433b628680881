package bitstore

import (
	"math/bits"
	"unsafe"

	"bitlife/src/random"
)

/*
	Bit-dense cell storage
	bit i lives in byte i/8 at position i%8 (LSB first), the same layout is read directly by the views
	the logical bit count is tracked by the owner, the store only knows its byte length
*/
type Store struct {
	data []byte
}

//byteLen returns the number of bytes needed to hold n bits
func byteLen(n int) int {
	return (n + 7) / 8
}

//Empty creates a store for n bits with every bit cleared
func Empty(n int) *Store {
	return &Store{data: make([]byte, byteLen(n))}
}

//Random creates a store for n bits filled with random bytes
//padding bits in the last byte may be set and must be ignored by the owner
func Random(n int, src random.Source) *Store {
	s := Empty(n)
	s.Fill(src)
	return s
}

//Fill overwrites every byte with a random value, the backing array is kept
func (s *Store) Fill(src random.Source) {
	for i := range s.data {
		s.data[i] = random.Byte(src)
	}
}

//Get tests whether bit i is set
func (s *Store) Get(i int) bool {
	mask := byte(1) << (i % 8)
	return s.data[i/8]&mask == mask
}

//Set sets bit i to v
func (s *Store) Set(i int, v bool) {
	mask := byte(1) << (i % 8)
	if v {
		s.data[i/8] |= mask
	} else {
		s.data[i/8] &^= mask
	}
}

//Reset clears all bits
func (s *Store) Reset() {
	for i := range s.data {
		s.data[i] = 0
	}
}

//Len returns the number of bytes backing the store
func (s *Store) Len() int {
	return len(s.data)
}

//Bytes returns the backing buffer without copying
//the slice is valid until the owner replaces the store
func (s *Store) Bytes() []byte {
	return s.data
}

//Pointer returns the address of the first byte, nil for an empty store
func (s *Store) Pointer() unsafe.Pointer {
	if len(s.data) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(s.data))
}

//Clone returns a deep copy
func (s *Store) Clone() *Store {
	c := make([]byte, len(s.data))
	copy(c, s.data)
	return &Store{data: c}
}

//Count returns the number of set bits among the first n bits
func (s *Store) Count(n int) int {
	full := n / 8
	count := 0
	for _, b := range s.data[:full] {
		count += bits.OnesCount8(b)
	}
	if rem := n % 8; rem != 0 {
		count += bits.OnesCount8(s.data[full] & (byte(1)<<rem - 1))
	}
	return count
}

//Equal compares the first n bits of both stores
func (s *Store) Equal(o *Store, n int) bool {
	full := n / 8
	if len(s.data) < byteLen(n) || len(o.data) < byteLen(n) {
		return false
	}
	for i := 0; i < full; i++ {
		if s.data[i] != o.data[i] {
			return false
		}
	}
	if rem := n % 8; rem != 0 {
		mask := byte(1)<<rem - 1
		return s.data[full]&mask == o.data[full]&mask
	}
	return true
}

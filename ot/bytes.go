package ot

import (
	"encoding/binary"
	"errors"
)

// Reading bytes from a font's binary representation

var errBufferBounds = errors.New("internal inconsistency: buffer bounds error")

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

func putU16(b []byte, v uint16) {
	binary.BigEndian.PutUint16(b, v)
}

func putU32(b []byte, v uint32) {
	binary.BigEndian.PutUint32(b, v)
}

// binarySegm is a segment of byte data.
// We use it throughout this module to navigate the font's binary data.
type binarySegm []byte

// view returns n bytes at the given offset.
// The byte segment returned is a sub-slice of b.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n < 0 || offset+n > len(b) {
		return nil, errBufferBounds
	}
	return b[offset : offset+n], nil
}

// from returns the tail of b starting at offset.
func (b binarySegm) from(offset int) (binarySegm, error) {
	if offset < 0 || offset > len(b) {
		return nil, errBufferBounds
	}
	return b[offset:], nil
}

// u16 returns the uint16 in b at the relative offset i.
func (b binarySegm) u16(i int) (uint16, error) {
	buf, err := b.view(i, 2)
	if err != nil {
		return 0, err
	}
	return u16(buf), nil
}

// u32 returns the uint32 in b at the relative offset i.
func (b binarySegm) u32(i int) (uint32, error) {
	buf, err := b.view(i, 4)
	if err != nil {
		return 0, err
	}
	return u32(buf), nil
}

// U16 is the non-failing variant of u16, returning 0 for out-of-bounds access.
func (b binarySegm) U16(i int) uint16 {
	n, err := b.u16(i)
	if err != nil {
		return 0
	}
	return n
}

// U32 is the non-failing variant of u32, returning 0 for out-of-bounds access.
func (b binarySegm) U32(i int) uint32 {
	n, err := b.u32(i)
	if err != nil {
		return 0
	}
	return n
}

// link16 follows a 16-bit offset stored at position at. Offsets are relative
// to the start of b. A NULL offset is reported as (nil, nil).
func (b binarySegm) link16(at int) (binarySegm, error) {
	off, err := b.u16(at)
	if err != nil {
		return nil, err
	}
	if off == 0 {
		return nil, nil
	}
	return b.from(int(off))
}

// array16 reads a count-prefixed array of 16-bit values at position at.
func (b binarySegm) array16(at int) ([]uint16, error) {
	n, err := b.u16(at)
	if err != nil {
		return nil, err
	}
	return b.values16(at+2, int(n))
}

// values16 reads n 16-bit values starting at position at.
func (b binarySegm) values16(at int, n int) ([]uint16, error) {
	buf, err := b.view(at, 2*n)
	if err != nil {
		return nil, err
	}
	r := make([]uint16, n)
	for i := range r {
		r[i] = u16(buf[2*i:])
	}
	return r, nil
}

// checksum calculates the OpenType table checksum: the sum of all uint32
// big-endian words, with a last partial word padded with zeros.
func checksum(data []byte) uint32 {
	var sum uint32
	n := len(data)
	for i := 0; i+4 <= n; i += 4 {
		sum += u32(data[i:])
	}
	if rest := n % 4; rest > 0 {
		var last uint32
		for i := 0; i < rest; i++ {
			last |= uint32(data[n-rest+i]) << (24 - i*8)
		}
		sum += last
	}
	return sum
}

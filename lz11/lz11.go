/*
Package lz11 implements the sliding window LZ compression used by the
console for texture data, commonly referred to as "LZ11" after its type
byte.

A stream starts with the type byte 0x11 followed by the decompressed size
as a 24-bit little endian value. If that is zero, a further 32-bit little
endian size follows. Tokens are then grouped by eight behind a flag byte
which is read from the most significant bit down; a clear bit is a literal
byte and a set bit is a back reference into the data already produced.

The first nibble of a back reference selects one of three encodings:

	0: 0000LLLL LLLLDDDD DDDDDDDD           length 17-272
	1: 0001LLLL LLLLLLLL LLLLDDDD DDDDDDDD  length 273-65808
	n: LLLLDDDD DDDDDDDD                    length 3-16

The displacement is always stored minus one, giving a 4096 byte window.
*/
package lz11

import (
	"errors"
	"fmt"
)

const (
	typeByte   = 0x11
	headerSize = 4
	windowSize = 0x1000
	minMatch   = 3
	maxShort   = 0x10
	maxMedium  = 0x110
	maxMatch   = 0x10110
	maxSize24  = 0xffffff
)

var (
	// ErrCorruptStream is returned when a compressed stream cannot be
	// decoded.
	ErrCorruptStream = errors.New("lz11: corrupt stream")
	// ErrTooLarge is returned by DecompressLimit when the declared size is
	// over the limit.
	ErrTooLarge = errors.New("lz11: stream too large")
)

func corrupt(format string, a ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrCorruptStream}, a...)...)
}

// DecompressedSize returns the size declared in the header of b and the
// offset of the first flag byte.
func DecompressedSize(b []byte) (int, int, error) {
	if len(b) < headerSize {
		return 0, 0, corrupt("short header")
	}
	if b[0] != typeByte {
		return 0, 0, corrupt("unexpected type byte %#02x", b[0])
	}
	size := int(b[1]) | int(b[2])<<8 | int(b[3])<<16
	if size != 0 {
		return size, headerSize, nil
	}
	if len(b) < headerSize+4 {
		return 0, 0, corrupt("short extended header")
	}
	size = int(uint32(b[4]) | uint32(b[5])<<8 | uint32(b[6])<<16 | uint32(b[7])<<24)
	return size, headerSize + 4, nil
}

// Decompress decodes the compressed stream b. Any bytes after the declared
// size has been produced are ignored, matching the padding found in real
// files.
func Decompress(b []byte) ([]byte, error) {
	return decompress(b, -1)
}

// DecompressLimit is Decompress but fails with ErrTooLarge before decoding
// anything if the declared size is more than max bytes.
func DecompressLimit(b []byte, max int) ([]byte, error) {
	return decompress(b, max)
}

func decompress(b []byte, max int) ([]byte, error) {
	size, i, err := DecompressedSize(b)
	if err != nil {
		return nil, err
	}
	if max >= 0 && size > max {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, size, max)
	}

	// Don't trust the header for the initial allocation
	capacity := size
	if limit := len(b) * 8; capacity > limit {
		capacity = limit
	}
	out := make([]byte, 0, capacity)

	for len(out) < size {
		if i >= len(b) {
			return nil, corrupt("stream ended at %d of %d bytes", len(out), size)
		}
		flags := b[i]
		i++

		for bit := uint(0); bit < 8 && len(out) < size; bit++ {
			if flags&(0x80>>bit) == 0 {
				if i >= len(b) {
					return nil, corrupt("stream ended inside a literal")
				}
				out = append(out, b[i])
				i++
				continue
			}

			if i+1 >= len(b) {
				return nil, corrupt("stream ended inside a back reference")
			}

			var length, disp int
			switch b[i] >> 4 {
			case 0:
				if i+2 >= len(b) {
					return nil, corrupt("stream ended inside a back reference")
				}
				length = (int(b[i]&0x0f)<<4 | int(b[i+1]>>4)) + maxShort + 1
				disp = int(b[i+1]&0x0f)<<8 | int(b[i+2])
				i += 3
			case 1:
				if i+3 >= len(b) {
					return nil, corrupt("stream ended inside a back reference")
				}
				length = (int(b[i]&0x0f)<<12 | int(b[i+1])<<4 | int(b[i+2]>>4)) + maxMedium + 1
				disp = int(b[i+2]&0x0f)<<8 | int(b[i+3])
				i += 4
			default:
				length = int(b[i]>>4) + 1
				disp = int(b[i]&0x0f)<<8 | int(b[i+1])
				i += 2
			}
			disp++

			if disp > len(out) {
				return nil, corrupt("back reference distance %d exceeds %d bytes of output", disp, len(out))
			}
			if len(out)+length > size {
				return nil, corrupt("back reference overruns declared size %d", size)
			}

			// Byte by byte as the source may overlap what is being written
			start := len(out) - disp
			for k := 0; k < length; k++ {
				out = append(out, out[start+k])
			}
		}
	}

	return out, nil
}

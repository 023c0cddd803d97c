package lz11

import (
	"bytes"
	"encoding/binary"
)

const (
	hashBits  = 14
	hashSize  = 1 << hashBits
	maxChain  = 256
	noMatch   = -1
	niceMatch = 0x200
)

// matcher keeps hash chains of every 3-byte prefix seen so far.
type matcher struct {
	b    []byte
	head [hashSize]int32
	prev []int32
}

func newMatcher(b []byte) *matcher {
	m := &matcher{
		b:    b,
		prev: make([]int32, len(b)),
	}
	for i := range m.head {
		m.head[i] = noMatch
	}
	return m
}

func (m *matcher) hash(pos int) uint32 {
	v := uint32(m.b[pos])<<16 | uint32(m.b[pos+1])<<8 | uint32(m.b[pos+2])
	return (v * 2654435761) >> (32 - hashBits)
}

func (m *matcher) insert(pos int) {
	if pos+minMatch > len(m.b) {
		return
	}
	h := m.hash(pos)
	m.prev[pos] = m.head[h]
	m.head[h] = int32(pos)
}

// find returns the longest match for pos within the window, preferring the
// nearest candidate when two are the same length.
func (m *matcher) find(pos int) (int, int) {
	if pos+minMatch > len(m.b) {
		return 0, 0
	}

	limit := len(m.b) - pos
	if limit > maxMatch {
		limit = maxMatch
	}

	var bestLen, bestDisp int
	cand := m.head[m.hash(pos)]
	for chain := 0; cand != noMatch && chain < maxChain; chain++ {
		disp := pos - int(cand)
		if disp > windowSize {
			break
		}

		n := 0
		for n < limit && m.b[int(cand)+n] == m.b[pos+n] {
			n++
		}
		if n > bestLen {
			bestLen, bestDisp = n, disp
			if n == limit || n >= niceMatch {
				break
			}
		}

		cand = m.prev[cand]
	}

	if bestLen < minMatch {
		return 0, 0
	}
	return bestLen, bestDisp
}

func writeHeader(w *bytes.Buffer, size int) {
	if size > 0 && size <= maxSize24 {
		w.Write([]byte{typeByte, byte(size), byte(size >> 8), byte(size >> 16)})
		return
	}
	w.Write([]byte{typeByte, 0, 0, 0})
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(size))
	w.Write(tmp[:])
}

func writeReference(w *bytes.Buffer, length, disp int) {
	d := disp - 1
	switch {
	case length <= maxShort:
		w.Write([]byte{
			byte(length-1)<<4 | byte(d>>8),
			byte(d),
		})
	case length <= maxMedium:
		l := length - maxShort - 1
		w.Write([]byte{
			byte(l >> 4),
			byte(l<<4) | byte(d>>8),
			byte(d),
		})
	default:
		l := length - maxMedium - 1
		w.Write([]byte{
			0x10 | byte(l>>12),
			byte(l >> 4),
			byte(l<<4) | byte(d>>8),
			byte(d),
		})
	}
}

// Compress encodes b. The output only depends on the input; it is valid but
// not necessarily the smallest possible encoding.
func Compress(b []byte) []byte {
	w := new(bytes.Buffer)
	w.Grow(headerSize + 4 + len(b) + len(b)/8 + 1)

	writeHeader(w, len(b))

	m := newMatcher(b)
	for pos := 0; pos < len(b); {
		flagOffset := w.Len()
		w.WriteByte(0)

		var flags byte
		for bit := uint(0); bit < 8 && pos < len(b); bit++ {
			if length, disp := m.find(pos); length > 0 {
				flags |= 0x80 >> bit
				writeReference(w, length, disp)
				for end := pos + length; pos < end; pos++ {
					m.insert(pos)
				}
				continue
			}
			w.WriteByte(b[pos])
			m.insert(pos)
			pos++
		}

		w.Bytes()[flagOffset] = flags
	}

	return w.Bytes()
}

/*
Package archive implements the container that holds the sections of a
tileset. All values are big endian.

The header is 8 bytes:

	0x00: "PZTS"
	0x04: version, currently 1
	0x06: number of sections

Followed by a 16 byte entry for each section:

	0x00: 4 byte tag
	0x04: flags, bit 0 set if the payload is LZ11 compressed
	0x05: 3 reserved bytes, always zero
	0x08: offset of the payload from the start of the archive
	0x0c: length of the payload as stored

Each payload starts on a 32 byte boundary. The sections always appear in the
same order and only the last, the metadata section, may be left out.
*/
package archive

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bodgit/puzzle/atlas"
	"github.com/bodgit/puzzle/lz11"
	"github.com/bodgit/puzzle/rgb5a3"
)

// Section tags in the order they are stored.
const (
	Texture    = "TEX "
	Collision  = "CHK "
	Objects    = "UNT "
	ObjectHead = "UHD "
	Metadata   = "META"
)

const (
	version    = 1
	alignment  = 32
	compressed = 0x01
)

var (
	magic = [4]byte{'P', 'Z', 'T', 'S'}

	// ErrTruncated is returned when the archive is shorter than its
	// header says.
	ErrTruncated = errors.New("archive: truncated")
	// ErrUnknownLayout is returned when the archive doesn't follow the
	// expected section layout.
	ErrUnknownLayout = errors.New("archive: unknown section layout")
)

// TextureSize is the largest decompressed texture section Parse accepts.
var TextureSize = rgb5a3.TextureSize(atlas.Width, atlas.Height)

type schemaEntry struct {
	tag        string
	compressed bool
	optional   bool
	// limit caps the decompressed size of a compressed section
	limit int
}

var schema = []schemaEntry{
	{Texture, true, false, TextureSize},
	{Collision, false, false, 0},
	{Objects, false, false, 0},
	{ObjectHead, false, false, 0},
	{Metadata, false, true, 0},
}

type header struct {
	Magic   [4]byte
	Version uint16
	Count   uint16
}

type entry struct {
	Tag      [4]byte
	Flags    uint8
	Reserved [3]byte
	Offset   uint32
	Length   uint32
}

var (
	headerSize = binary.Size(header{})
	entrySize  = binary.Size(entry{})
)

// Section is a single named payload. Data is always uncompressed.
type Section struct {
	Name       string
	Compressed bool
	Data       []byte
}

func unknown(format string, a ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrUnknownLayout}, a...)...)
}

func required() int {
	n := 0
	for _, s := range schema {
		if !s.optional {
			n++
		}
	}
	return n
}

// Parse splits b into its sections, decompressing any that are compressed.
func Parse(b []byte) (map[string]Section, error) {
	r := bytes.NewReader(b)

	var h header
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, ErrTruncated
	}
	if h.Magic != magic {
		return nil, unknown("bad magic %q", h.Magic[:])
	}
	if h.Version != version {
		return nil, unknown("version %d", h.Version)
	}
	if int(h.Count) < required() || int(h.Count) > len(schema) {
		return nil, unknown("%d sections", h.Count)
	}

	entries := make([]entry, h.Count)
	if err := binary.Read(r, binary.BigEndian, entries); err != nil {
		return nil, ErrTruncated
	}

	end := uint64(headerSize + entrySize*len(entries))
	sections := make(map[string]Section, len(entries))
	for i, e := range entries {
		s := schema[i]
		switch {
		case string(e.Tag[:]) != s.tag:
			return nil, unknown("section %d is %q, expected %q", i, e.Tag[:], s.tag)
		case e.Flags&^compressed != 0 || e.Reserved != [3]byte{}:
			return nil, unknown("section %q has flags %#02x", s.tag, e.Flags)
		case (e.Flags&compressed != 0) != s.compressed:
			return nil, unknown("section %q compression flag", s.tag)
		}

		if uint64(e.Offset) < end || uint64(e.Offset)+uint64(e.Length) > uint64(len(b)) {
			return nil, fmt.Errorf("%w: section %q at %#x+%#x", ErrTruncated, s.tag, e.Offset, e.Length)
		}

		data := append([]byte(nil), b[e.Offset:e.Offset+e.Length]...)
		if s.compressed {
			var err error
			if data, err = lz11.DecompressLimit(data, s.limit); err != nil {
				return nil, fmt.Errorf("archive: section %q: %w", s.tag, err)
			}
		}

		sections[s.tag] = Section{
			Name:       s.tag,
			Compressed: s.compressed,
			Data:       data,
		}
	}

	return sections, nil
}

func pad(b *bytes.Buffer) {
	if n := b.Len() % alignment; n != 0 {
		b.Write(make([]byte, alignment-n))
	}
}

// Write packs the sections into an archive. Whether a section is compressed
// is fixed by its tag. Missing required sections are written empty.
func Write(sections map[string]Section) ([]byte, error) {
	known := make(map[string]bool, len(schema))
	for _, s := range schema {
		known[s.tag] = true
	}
	for name := range sections {
		if !known[name] {
			return nil, unknown("section %q", name)
		}
	}

	var (
		entries  []entry
		payloads [][]byte
	)
	for _, s := range schema {
		section, ok := sections[s.tag]
		if !ok && s.optional {
			continue
		}

		data := section.Data
		if s.compressed {
			data = lz11.Compress(data)
		}

		e := entry{Length: uint32(len(data))}
		copy(e.Tag[:], s.tag)
		if s.compressed {
			e.Flags = compressed
		}
		entries = append(entries, e)
		payloads = append(payloads, data)
	}

	b := new(bytes.Buffer)

	h := header{
		Magic:   magic,
		Version: version,
		Count:   uint16(len(entries)),
	}
	if err := binary.Write(b, binary.BigEndian, &h); err != nil {
		return nil, err
	}

	offset := headerSize + entrySize*len(entries)
	for i := range entries {
		if offset%alignment != 0 {
			offset += alignment - offset%alignment
		}
		entries[i].Offset = uint32(offset)
		offset += len(payloads[i])
	}

	if err := binary.Write(b, binary.BigEndian, entries); err != nil {
		return nil, err
	}

	for _, p := range payloads {
		pad(b)
		if _, err := b.Write(p); err != nil {
			return nil, err
		}
	}
	pad(b)

	return b.Bytes(), nil
}

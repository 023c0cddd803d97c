package object

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// IndexEntry locates a single object in the stream.
type IndexEntry struct {
	Offset uint16
	Width  uint8
	Height uint8
}

// Parse reads the object described by e from stream.
func Parse(stream []byte, e IndexEntry) (Definition, error) {
	d := Definition{
		Width:  int(e.Width),
		Height: int(e.Height),
	}

	start := int(e.Offset)
	sub := -1

	var row []TileRef
	i := start
	for done := false; !done; {
		if i >= len(stream) {
			return Definition{}, malformed("object at %#x has no end marker", start)
		}

		switch b := stream[i]; {
		case b == objectEnd:
			if len(row) > 0 {
				return Definition{}, malformed("unterminated row at %#x", i)
			}
			done = true
		case b == rowEnd:
			d.Rows = append(d.Rows, row)
			row = nil
		case b&markerBit != 0:
			switch {
			case i == start && b&^slopeMask == slopeMain:
				d.Slope = &Slope{Flags: SlopeFlags(b & slopeMask)}
			case b == slopeSub && d.Slope != nil && sub < 0 && len(row) == 0:
				sub = len(d.Rows)
			default:
				return Definition{}, malformed("unexpected marker %#02x at %#x", b, i)
			}
		default:
			if i+tokenSize > len(stream) {
				return Definition{}, malformed("truncated tile at %#x", i)
			}
			ref := TileRef{
				Role: Role(b),
				Tile: stream[i+1],
				Slot: stream[i+2] & slotMask,
				Item: stream[i+2] >> itemShift,
			}
			if err := ref.validate(); err != nil {
				return Definition{}, err
			}
			row = append(row, ref)
			i += tokenSize
			continue
		}
		i++
	}

	if d.Slope != nil {
		if sub < 0 {
			sub = len(d.Rows)
		}
		d.Slope.MainRows = sub
		if d.Slope.Flags&SlopeReversed != 0 {
			d.Rows = append(d.Rows[sub:len(d.Rows):len(d.Rows)], d.Rows[:sub]...)
		}
	}

	if err := d.Validate(); err != nil {
		return Definition{}, err
	}

	return d, nil
}

// Decode parses every object listed in index.
func Decode(stream, index []byte) ([]Definition, error) {
	if len(index)%entrySize != 0 {
		return nil, malformed("index is %d bytes", len(index))
	}
	if len(index)/entrySize > MaxObjects {
		return nil, malformed("%d objects", len(index)/entrySize)
	}

	r := bytes.NewReader(index)
	defs := make([]Definition, 0, len(index)/entrySize)
	for r.Len() > 0 {
		var e IndexEntry
		if err := binary.Read(r, binary.BigEndian, &e); err != nil {
			return nil, err
		}
		d, err := Parse(stream, e)
		if err != nil {
			return nil, malformedObject(len(defs), err)
		}
		defs = append(defs, d)
	}

	return defs, nil
}

func malformedObject(i int, err error) error {
	return fmt.Errorf("object %d: %w", i, err)
}

func appendRows(b []byte, rows [][]TileRef) []byte {
	for _, row := range rows {
		for _, ref := range row {
			b = append(b, byte(ref.Role), ref.Tile, ref.Item<<itemShift|ref.Slot)
		}
		b = append(b, rowEnd)
	}
	return b
}

// Flatten encodes d as it appears in the stream.
func Flatten(d Definition) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	b := make([]byte, 0, d.Width*d.Height*tokenSize+d.Height+3)
	if d.Slope == nil {
		b = appendRows(b, d.Rows)
	} else {
		b = append(b, slopeMain|byte(d.Slope.Flags))
		b = appendRows(b, d.mainBlock())
		if sub := d.subBlock(); len(sub) > 0 {
			b = append(b, slopeSub)
			b = appendRows(b, sub)
		}
	}

	return append(b, objectEnd), nil
}

// Encode flattens every definition, returning the stream and its index.
func Encode(defs []Definition) ([]byte, []byte, error) {
	if len(defs) > MaxObjects {
		return nil, nil, malformed("%d objects", len(defs))
	}

	stream := new(bytes.Buffer)
	index := new(bytes.Buffer)
	for i, d := range defs {
		b, err := Flatten(d)
		if err != nil {
			return nil, nil, malformedObject(i, err)
		}
		if stream.Len() > maxOffset {
			return nil, nil, malformed("object %d starts beyond %#x", i, maxOffset)
		}

		e := IndexEntry{
			Offset: uint16(stream.Len()),
			Width:  uint8(d.Width),
			Height: uint8(d.Height),
		}
		if err := binary.Write(index, binary.BigEndian, &e); err != nil {
			return nil, nil, err
		}
		stream.Write(b)
	}

	return stream.Bytes(), index.Bytes(), nil
}

/*
Package metadata implements the optional metadata section stored at the end
of a tileset archive.

	0x00: length of the name, n
	0x01: name, n bytes
	n+1:  category
	n+2:  tileset slot, 0 to 3
*/
package metadata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	maxName = 0xff
	// Slots is the number of tileset slots a level can load.
	Slots = 4
)

// ErrInvalid is returned when the metadata section can't be decoded.
var ErrInvalid = errors.New("metadata: invalid")

// Metadata describes a tileset. It implements the encoding.BinaryMarshaler
// and encoding.BinaryUnmarshaler interfaces.
type Metadata struct {
	Name     string
	Category Category
	Slot     uint8
}

// Validate checks every field can be encoded.
func (m *Metadata) Validate() error {
	switch {
	case len(m.Name) > maxName:
		return fmt.Errorf("%w: name is %d bytes", ErrInvalid, len(m.Name))
	case !m.Category.valid():
		return fmt.Errorf("%w: category %d", ErrInvalid, m.Category)
	case m.Slot >= Slots:
		return fmt.Errorf("%w: slot %d", ErrInvalid, m.Slot)
	}
	return nil
}

// MarshalBinary encodes the metadata into binary form and returns the result
func (m *Metadata) MarshalBinary() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	b := new(bytes.Buffer)
	b.WriteByte(uint8(len(m.Name)))
	b.WriteString(m.Name)

	fields := [2]uint8{uint8(m.Category), m.Slot}
	if err := binary.Write(b, binary.BigEndian, &fields); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the metadata from binary form
func (m *Metadata) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)

	n, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("%w: empty", ErrInvalid)
	}

	name := make([]byte, n)
	if _, err := io.ReadFull(r, name); err != nil {
		return fmt.Errorf("%w: short name", ErrInvalid)
	}

	var fields [2]uint8
	if err := binary.Read(r, binary.BigEndian, &fields); err != nil {
		return fmt.Errorf("%w: short record", ErrInvalid)
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrInvalid, r.Len())
	}

	v := Metadata{
		Name:     string(name),
		Category: Category(fields[0]),
		Slot:     fields[1],
	}
	if err := v.Validate(); err != nil {
		return err
	}
	*m = v

	return nil
}

/*
Package collision implements the per-tile behavior table of a tileset.

The table holds one 8 byte record for each of the 256 tile slots:

	0: category
	1: category parameter
	2: flags
	3: terrain
	4-7: reserved, always zero

Every byte is validated on decode; the game only understands a fixed set of
values so anything else is rejected rather than carried along.
*/
package collision

import (
	"errors"
	"fmt"
)

const (
	// Slots is the number of tile slots in a table.
	Slots = 256
	// RecordSize is the encoded size of a single descriptor.
	RecordSize = 8
	// Size is the encoded size of a table.
	Size = Slots * RecordSize
)

// ErrInvalidValue is returned for a descriptor or encoded byte outside of
// the known set of values.
var ErrInvalidValue = errors.New("collision: invalid value")

func invalid(format string, a ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidValue}, a...)...)
}

// Descriptor is the complete behavior of a single tile.
type Descriptor struct {
	// Behavior is nil or one of the types in this package; nil is
	// treated as None.
	Behavior Behavior
	Flags    Flags
	Terrain  Terrain
}

func (d Descriptor) normalize() Descriptor {
	if d.Behavior == nil {
		d.Behavior = None{}
	}
	return d
}

// Category returns the category of the descriptor's behavior.
func (d Descriptor) Category() Category {
	return d.normalize().Behavior.Category()
}

// Validate checks that every field holds a value the game understands.
func (d Descriptor) Validate() error {
	_, err := d.MarshalBinary()
	return err
}

// Equal reports whether d and d2 describe the same behavior.
func (d Descriptor) Equal(d2 Descriptor) bool {
	return d.normalize() == d2.normalize()
}

func (d Descriptor) String() string {
	d = d.normalize()
	return fmt.Sprintf("%s %+v flags=%#02x terrain=%d", d.Behavior.Category(), d.Behavior, uint8(d.Flags), d.Terrain)
}

// MarshalBinary encodes d as a single record.
func (d Descriptor) MarshalBinary() ([]byte, error) {
	d = d.normalize()

	p, err := d.Behavior.param()
	if err != nil {
		return nil, err
	}
	if d.Flags&^flagMask != 0 {
		return nil, invalid("flags %#02x", uint8(d.Flags))
	}
	if d.Terrain >= numTerrains {
		return nil, invalid("terrain %d", d.Terrain)
	}

	b := make([]byte, RecordSize)
	b[0] = byte(d.Behavior.Category())
	b[1] = p
	b[2] = byte(d.Flags)
	b[3] = byte(d.Terrain)

	return b, nil
}

// UnmarshalBinary decodes a single record.
func (d *Descriptor) UnmarshalBinary(b []byte) error {
	if len(b) != RecordSize {
		return invalid("record is %d bytes", len(b))
	}

	behavior, err := decodeBehavior(b[0], b[1])
	if err != nil {
		return err
	}
	if Flags(b[2])&^flagMask != 0 {
		return invalid("flags %#02x", b[2])
	}
	if Terrain(b[3]) >= numTerrains {
		return invalid("terrain %d", b[3])
	}
	for _, r := range b[4:] {
		if r != 0 {
			return invalid("reserved byte %#02x", r)
		}
	}

	*d = Descriptor{
		Behavior: behavior,
		Flags:    Flags(b[2]),
		Terrain:  Terrain(b[3]),
	}

	return nil
}

// Table maps each tile slot to its descriptor. The zero value has every
// slot set to None.
type Table struct {
	descriptors [Slots]Descriptor
}

// Get returns the descriptor for slot.
func (t *Table) Get(slot uint8) Descriptor {
	return t.descriptors[slot].normalize()
}

// Set replaces the descriptor for slot.
func (t *Table) Set(slot uint8, d Descriptor) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("slot %d: %w", slot, err)
	}
	t.descriptors[slot] = d.normalize()
	return nil
}

// Clear resets every slot to None.
func (t *Table) Clear() {
	t.descriptors = [Slots]Descriptor{}
}

// Equal reports whether both tables hold the same descriptors.
func (t *Table) Equal(t2 *Table) bool {
	for i := range t.descriptors {
		if !t.descriptors[i].Equal(t2.descriptors[i]) {
			return false
		}
	}
	return true
}

// MarshalBinary encodes the table.
func (t *Table) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, Size)
	for i, d := range t.descriptors {
		r, err := d.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		b = append(b, r...)
	}
	return b, nil
}

// UnmarshalBinary decodes the table. It is left untouched on error.
func (t *Table) UnmarshalBinary(b []byte) error {
	if len(b) != Size {
		return invalid("table is %d bytes, expected %d", len(b), Size)
	}

	var descriptors [Slots]Descriptor
	for i := range descriptors {
		if err := descriptors[i].UnmarshalBinary(b[i*RecordSize : (i+1)*RecordSize]); err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
	}
	t.descriptors = descriptors

	return nil
}

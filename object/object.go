/*
Package object implements the tileset object definitions: small patterns of
tiles that a level editor stamps out at any size.

Objects are stored as a stream of byte tokens plus an index of 4 byte
entries, one per object, holding the big endian offset of the object in the
stream followed by its width and height in tiles.

Each tile of an object is a 3 byte token:

	0: repeat role, always less than 0x80
	1: tile index within the tileset
	2: IIIIIISS, item code and tileset slot

A 0xFE byte ends a row and 0xFF ends the object. A byte of 0x90 to 0x93 at
the start of an object makes it a slope; the low two bits are the slope
flags and the rows that follow form the main block. An optional 0x84 byte
then introduces the sub block that fills the space beside the slope.
*/
package object

import (
	"errors"
	"fmt"
)

const (
	rowEnd     = 0xfe
	objectEnd  = 0xff
	markerBit  = 0x80
	slopeMain  = 0x90
	slopeSub   = 0x84
	slopeMask  = 0x03
	tokenSize  = 3
	entrySize  = 4
	slotMask   = 0x03
	itemShift  = 2
	maxItem    = 0x3f
	maxSlot    = 0x03
	maxOffset  = 0xffff
	maxTiles   = 0xff
	roleLimit  = Random
)

// MaxObjects is the most objects a tileset can hold.
const MaxObjects = 256

var (
	// ErrMalformed is returned for an object stream or definition that
	// breaks the grammar.
	ErrMalformed = errors.New("object: malformed definition")
	// ErrSizeTooSmall is returned when an object can't be stamped at the
	// requested size.
	ErrSizeTooSmall = errors.New("object: requested size too small")
)

func malformed(format string, a ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrMalformed}, a...)...)
}

// Role says how a tile behaves when the object is stretched.
type Role uint8

// Roles as encoded.
const (
	Fixed Role = iota
	RepeatX
	RepeatY
	RepeatXY
	// Random tiles are placed like Fixed ones and swapped for a random
	// tile from the same set by the game when drawn.
	Random
)

var roleNames = map[Role]string{
	Fixed:    "fixed",
	RepeatX:  "repeat-x",
	RepeatY:  "repeat-y",
	RepeatXY: "repeat-xy",
	Random:   "random",
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// ParseRole returns the role with the given name.
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if s == name {
			return r, nil
		}
	}
	return Fixed, fmt.Errorf("object: unknown role %q", s)
}

// RepeatsX reports whether the column holding the tile may be repeated.
func (r Role) RepeatsX() bool {
	return r == RepeatX || r == RepeatXY
}

// RepeatsY reports whether the row holding the tile may be repeated.
func (r Role) RepeatsY() bool {
	return r == RepeatY || r == RepeatXY
}

// TileRef is a single cell of an object.
type TileRef struct {
	Tile uint8
	Role Role
	// Slot is the tileset slot, 0 to 3, the tile is taken from.
	Slot uint8
	// Item is the item code used by question blocks and the like, 0 to 63.
	Item uint8
}

func (t TileRef) validate() error {
	switch {
	case t.Role > roleLimit:
		return malformed("role %d", t.Role)
	case t.Slot > maxSlot:
		return malformed("slot %d", t.Slot)
	case t.Item > maxItem:
		return malformed("item %d", t.Item)
	}
	return nil
}

// SlopeFlags control the direction of a slope.
type SlopeFlags uint8

// Slope flag bits as encoded.
const (
	// SlopeDescending slopes fall from left to right.
	SlopeDescending SlopeFlags = 1 << iota
	// SlopeReversed slopes hang upside down from a ceiling.
	SlopeReversed
)

// Slope marks a definition as a slope object.
type Slope struct {
	Flags SlopeFlags
	// MainRows is the height of the main block. The remaining rows are
	// the sub block.
	MainRows int
}

// Definition is a single object. Rows are always in display order, top to
// bottom; a reversed slope shows its sub block above the main block.
type Definition struct {
	Width  int
	Height int
	Rows   [][]TileRef
	Slope  *Slope
}

// New returns a width by height object with every tile set to ref.
func New(width, height int, ref TileRef) Definition {
	d := Definition{
		Width:  width,
		Height: height,
		Rows:   make([][]TileRef, height),
	}
	for y := range d.Rows {
		d.Rows[y] = make([]TileRef, width)
		for x := range d.Rows[y] {
			d.Rows[y][x] = ref
		}
	}
	return d
}

// Clone returns a deep copy of d.
func (d Definition) Clone() Definition {
	c := d
	c.Rows = make([][]TileRef, len(d.Rows))
	for y, row := range d.Rows {
		c.Rows[y] = append([]TileRef(nil), row...)
	}
	if d.Slope != nil {
		s := *d.Slope
		c.Slope = &s
	}
	return c
}

// Refs calls fn for every cell of d.
func (d Definition) Refs(fn func(x, y int, ref TileRef)) {
	for y, row := range d.Rows {
		for x, ref := range row {
			fn(x, y, ref)
		}
	}
}

// Validate checks d is complete and encodable.
func (d Definition) Validate() error {
	if d.Width < 1 || d.Width > maxTiles || d.Height < 1 || d.Height > maxTiles {
		return malformed("size %dx%d", d.Width, d.Height)
	}
	if len(d.Rows) != d.Height {
		return malformed("%d rows, expected %d", len(d.Rows), d.Height)
	}
	for y, row := range d.Rows {
		if len(row) != d.Width {
			return malformed("row %d has %d tiles, expected %d", y, len(row), d.Width)
		}
		for _, ref := range row {
			if err := ref.validate(); err != nil {
				return err
			}
		}
	}
	if d.Slope != nil {
		if d.Slope.Flags&^slopeMask != 0 {
			return malformed("slope flags %#02x", uint8(d.Slope.Flags))
		}
		if d.Slope.MainRows < 1 || d.Slope.MainRows > d.Height {
			return malformed("slope main block of %d rows", d.Slope.MainRows)
		}
	}
	return nil
}

// mainBlock and subBlock split the rows of a slope object.
func (d Definition) mainBlock() [][]TileRef {
	if d.Slope.Flags&SlopeReversed != 0 {
		return d.Rows[d.Height-d.Slope.MainRows:]
	}
	return d.Rows[:d.Slope.MainRows]
}

func (d Definition) subBlock() [][]TileRef {
	if d.Slope.Flags&SlopeReversed != 0 {
		return d.Rows[:d.Height-d.Slope.MainRows]
	}
	return d.Rows[d.Slope.MainRows:]
}

/*
Package puzzle is a library for editing console tileset archives: the tile
bitmap, per-tile collision behavior and the objects a level editor builds
from those tiles.
*/
package puzzle

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"reflect"

	"github.com/bodgit/puzzle/atlas"
	"github.com/bodgit/puzzle/collision"
	"github.com/bodgit/puzzle/metadata"
	"github.com/bodgit/puzzle/object"
	"github.com/bodgit/puzzle/rgb5a3"
)

var (
	// ErrInvalidReference is returned when an object uses a tile that
	// isn't present in the tileset.
	ErrInvalidReference = errors.New("puzzle: invalid tile reference")
	// ErrTooManyObjects is returned when adding an object to a full
	// tileset.
	ErrTooManyObjects = errors.New("puzzle: too many objects")
	// ErrNoObject is returned for an object index that is out of range.
	ErrNoObject = errors.New("puzzle: no such object")
)

// defaultSlot is used for an archive with neither metadata nor objects to
// infer the slot from.
const defaultSlot = 1

// Tileset is a single editable tileset. It is not safe for concurrent use.
type Tileset struct {
	// nil entries are absent tiles
	tiles      [atlas.Tiles]*image.NRGBA
	collisions collision.Table
	objects    []object.Definition
	meta       metadata.Metadata
}

// New returns an empty tileset with no tiles, no objects and every
// collision slot set to None.
func New() *Tileset {
	return &Tileset{
		meta: metadata.Metadata{Slot: defaultSlot},
	}
}

func newTile() *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, atlas.TileSize, atlas.TileSize))
}

func cloneTile(m *image.NRGBA) *image.NRGBA {
	c := newTile()
	copy(c.Pix, m.Pix)
	return c
}

// toTile converts m to a tile at native precision.
func toTile(m image.Image) (*image.NRGBA, error) {
	tiles, err := atlas.Split(m, atlas.TileSize)
	if err != nil {
		return nil, err
	}
	if len(tiles) != 1 {
		return nil, fmt.Errorf("%w: expected a single %dx%d tile", atlas.ErrSizeMismatch, atlas.TileSize, atlas.TileSize)
	}
	quantize(tiles[0])
	return tiles[0], nil
}

func quantize(m *image.NRGBA) {
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m.SetNRGBA(x, y, rgb5a3.Quantize(m.NRGBAAt(x, y)))
		}
	}
}

// Tile returns a copy of tile i and whether it is present. An absent tile
// is returned fully transparent.
func (t *Tileset) Tile(i uint8) (*image.NRGBA, bool) {
	if t.tiles[i] == nil {
		return newTile(), false
	}
	return cloneTile(t.tiles[i]), true
}

// HasTile reports whether tile i is present.
func (t *Tileset) HasTile(i uint8) bool {
	return t.tiles[i] != nil
}

// TileCount returns the number of present tiles.
func (t *Tileset) TileCount() int {
	n := 0
	for _, tile := range t.tiles {
		if tile != nil {
			n++
		}
	}
	return n
}

// SetTile copies m, which must be a single 16x16 tile, into slot i. Colors
// are reduced to the precision the archive can store.
func (t *Tileset) SetTile(i uint8, m image.Image) error {
	tile, err := toTile(m)
	if err != nil {
		return err
	}
	t.tiles[i] = tile
	return nil
}

// ClearTile removes tile i. It fails if an object still uses the tile.
func (t *Tileset) ClearTile(i uint8) error {
	for n, d := range t.objects {
		if t.uses(d, i) {
			return fmt.Errorf("%w: tile %d is used by object %d", ErrInvalidReference, i, n)
		}
	}
	t.tiles[i] = nil
	return nil
}

// Collision returns the descriptor for tile i.
func (t *Tileset) Collision(i uint8) collision.Descriptor {
	return t.collisions.Get(i)
}

// SetCollision sets the descriptor for tile i.
func (t *Tileset) SetCollision(i uint8, d collision.Descriptor) error {
	return t.collisions.Set(i, d)
}

// ClearCollisions resets every tile to None.
func (t *Tileset) ClearCollisions() {
	t.collisions.Clear()
}

// uses reports whether d draws tile i from this tileset.
func (t *Tileset) uses(d object.Definition, i uint8) (used bool) {
	d.Refs(func(_, _ int, ref object.TileRef) {
		if ref.Slot == t.meta.Slot && ref.Tile == i {
			used = true
		}
	})
	return
}

// validate checks d is well formed and every tile it draws from this
// tileset is present. Tiles drawn from other slots belong to other
// tilesets and can't be checked here.
func (t *Tileset) validate(d object.Definition) (err error) {
	if err := d.Validate(); err != nil {
		return err
	}
	d.Refs(func(x, y int, ref object.TileRef) {
		if err == nil && ref.Slot == t.meta.Slot && t.tiles[ref.Tile] == nil {
			err = fmt.Errorf("%w: tile %d at %d,%d", ErrInvalidReference, ref.Tile, x, y)
		}
	})
	return
}

// NumObjects returns the number of objects.
func (t *Tileset) NumObjects() int {
	return len(t.objects)
}

// Object returns a copy of object i.
func (t *Tileset) Object(i int) (object.Definition, error) {
	if i < 0 || i >= len(t.objects) {
		return object.Definition{}, fmt.Errorf("%w: %d", ErrNoObject, i)
	}
	return t.objects[i].Clone(), nil
}

// Objects returns a copy of every object.
func (t *Tileset) Objects() []object.Definition {
	defs := make([]object.Definition, len(t.objects))
	for i, d := range t.objects {
		defs[i] = d.Clone()
	}
	return defs
}

// AddObject appends a copy of d and returns its index.
func (t *Tileset) AddObject(d object.Definition) (int, error) {
	if len(t.objects) >= object.MaxObjects {
		return 0, ErrTooManyObjects
	}
	if err := t.validate(d); err != nil {
		return 0, err
	}
	t.objects = append(t.objects, d.Clone())
	return len(t.objects) - 1, nil
}

// SetObject replaces object i with a copy of d.
func (t *Tileset) SetObject(i int, d object.Definition) error {
	if i < 0 || i >= len(t.objects) {
		return fmt.Errorf("%w: %d", ErrNoObject, i)
	}
	if err := t.validate(d); err != nil {
		return err
	}
	t.objects[i] = d.Clone()
	return nil
}

// SetObjectTiling applies the tiling preset to object i.
func (t *Tileset) SetObjectTiling(i int, tiling object.Tiling) error {
	if i < 0 || i >= len(t.objects) {
		return fmt.Errorf("%w: %d", ErrNoObject, i)
	}
	d, err := object.ApplyTiling(t.objects[i], tiling)
	if err != nil {
		return err
	}
	if err := t.validate(d); err != nil {
		return err
	}
	t.objects[i] = d
	return nil
}

// RemoveObject deletes object i, moving every later object down by one.
func (t *Tileset) RemoveObject(i int) error {
	if i < 0 || i >= len(t.objects) {
		return fmt.Errorf("%w: %d", ErrNoObject, i)
	}
	t.objects = append(t.objects[:i], t.objects[i+1:]...)
	return nil
}

// ClearObjects deletes every object.
func (t *Tileset) ClearObjects() {
	t.objects = nil
}

// ReplaceObjects swaps every object for copies of defs. Nothing changes
// unless all of them are valid.
func (t *Tileset) ReplaceObjects(defs []object.Definition) error {
	if len(defs) > object.MaxObjects {
		return ErrTooManyObjects
	}
	objects := make([]object.Definition, len(defs))
	for i, d := range defs {
		if err := t.validate(d); err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
		objects[i] = d.Clone()
	}
	t.objects = objects
	return nil
}

// StampObject expands object i to width by height tiles.
func (t *Tileset) StampObject(i, width, height int) (object.Grid, error) {
	if i < 0 || i >= len(t.objects) {
		return nil, fmt.Errorf("%w: %d", ErrNoObject, i)
	}
	return object.Stamp(t.objects[i], width, height)
}

// Name returns the tileset name.
func (t *Tileset) Name() string {
	return t.meta.Name
}

// SetName sets the tileset name.
func (t *Tileset) SetName(name string) error {
	m := t.meta
	m.Name = name
	if err := m.Validate(); err != nil {
		return err
	}
	t.meta = m
	return nil
}

// Category returns the tileset category.
func (t *Tileset) Category() metadata.Category {
	return t.meta.Category
}

// SetCategory sets the tileset category.
func (t *Tileset) SetCategory(c metadata.Category) error {
	m := t.meta
	m.Category = c
	if err := m.Validate(); err != nil {
		return err
	}
	t.meta = m
	return nil
}

// Slot returns the tileset slot the level loads the tileset into.
func (t *Tileset) Slot() uint8 {
	return t.meta.Slot
}

// SetSlot moves the tileset to another slot. Every object tile is
// rewritten to draw from the new slot, including any that drew from
// another tileset; empty cells other than the first of each row are left
// alone.
func (t *Tileset) SetSlot(slot uint8) error {
	m := t.meta
	m.Slot = slot
	if err := m.Validate(); err != nil {
		return err
	}

	objects := t.Objects()
	for _, d := range objects {
		for _, row := range d.Rows {
			for x := range row {
				if x == 0 || row[x] != (object.TileRef{}) {
					row[x].Slot = slot
				}
			}
		}
	}

	n := *t
	n.meta = m
	for i, d := range objects {
		if err := n.validate(d); err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
	}

	t.meta = m
	t.objects = objects
	return nil
}

// Equal reports whether t and t2 hold the same tiles, collisions, objects
// and metadata. An absent tile equals a fully transparent black one, as
// that is how it is stored.
func (t *Tileset) Equal(t2 *Tileset) bool {
	for i := range t.tiles {
		a, _ := t.Tile(uint8(i))
		b, _ := t2.Tile(uint8(i))
		if !bytes.Equal(a.Pix, b.Pix) {
			return false
		}
	}
	if !t.collisions.Equal(&t2.collisions) {
		return false
	}
	if len(t.objects) != len(t2.objects) {
		return false
	}
	for i := range t.objects {
		if !reflect.DeepEqual(t.objects[i], t2.objects[i]) {
			return false
		}
	}
	return t.meta == t2.meta
}

package puzzle

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/bodgit/puzzle/atlas"
	"github.com/bodgit/puzzle/collision"
	"github.com/bodgit/puzzle/metadata"
	"github.com/bodgit/puzzle/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidTile(c color.NRGBA) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, atlas.TileSize, atlas.TileSize))
	for y := 0; y < atlas.TileSize; y++ {
		for x := 0; x < atlas.TileSize; x++ {
			m.SetNRGBA(x, y, c)
		}
	}
	return m
}

func ref(tile uint8, role object.Role) object.TileRef {
	return object.TileRef{Tile: tile, Role: role, Slot: defaultSlot}
}

func pillar() object.Definition {
	return object.Definition{
		Width:  1,
		Height: 3,
		Rows: [][]object.TileRef{
			{ref(1, object.Fixed)},
			{ref(2, object.RepeatY)},
			{ref(3, object.Fixed)},
		},
	}
}

func sampleTileset(t *testing.T) *Tileset {
	t.Helper()

	ts := New()
	for i := uint8(1); i <= 3; i++ {
		require.NoError(t, ts.SetTile(i, solidTile(color.NRGBA{i * 0x40, 0x80, 0xff - i*0x20, 0xff})))
	}
	require.NoError(t, ts.SetCollision(1, collision.Descriptor{Behavior: collision.Solid{}}))
	require.NoError(t, ts.SetCollision(2, collision.Descriptor{
		Behavior: collision.Pipe{Orientation: collision.PipeLeft},
		Flags:    collision.FlagBreakable,
	}))
	_, err := ts.AddObject(pillar())
	require.NoError(t, err)
	require.NoError(t, ts.SetName("Pa1_sample"))
	require.NoError(t, ts.SetCategory(metadata.CategoryForest))

	return ts
}

func TestNew(t *testing.T) {
	ts := New()
	assert.Zero(t, ts.TileCount())
	assert.Zero(t, ts.NumObjects())
	assert.Equal(t, uint8(defaultSlot), ts.Slot())

	tile, ok := ts.Tile(0)
	assert.False(t, ok)
	assert.Equal(t, make([]byte, len(tile.Pix)), tile.Pix)

	for i := 0; i < atlas.Tiles; i++ {
		assert.Equal(t, collision.CategoryNone, ts.Collision(uint8(i)).Category())
	}
}

func TestSetTile(t *testing.T) {
	ts := New()

	err := ts.SetTile(0, image.NewNRGBA(image.Rect(0, 0, 8, 8)))
	assert.ErrorIs(t, err, atlas.ErrSizeMismatch)
	err = ts.SetTile(0, image.NewNRGBA(image.Rect(0, 0, 32, 16)))
	assert.ErrorIs(t, err, atlas.ErrSizeMismatch)

	src := solidTile(color.NRGBA{0x12, 0x34, 0x56, 0x00})
	require.NoError(t, ts.SetTile(7, src))
	assert.True(t, ts.HasTile(7))
	assert.Equal(t, 1, ts.TileCount())

	// Stored at native precision with the color of transparent pixels kept
	tile, ok := ts.Tile(7)
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{0x11, 0x33, 0x55, 0x00}, tile.NRGBAAt(0, 0))

	// Neither the source nor the returned copy alias the tile
	src.SetNRGBA(0, 0, color.NRGBA{})
	tile.SetNRGBA(1, 1, color.NRGBA{})
	again, _ := ts.Tile(7)
	assert.Equal(t, color.NRGBA{0x11, 0x33, 0x55, 0x00}, again.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{0x11, 0x33, 0x55, 0x00}, again.NRGBAAt(1, 1))
}

func TestClearTile(t *testing.T) {
	ts := sampleTileset(t)

	assert.ErrorIs(t, ts.ClearTile(2), ErrInvalidReference)
	assert.True(t, ts.HasTile(2))

	require.NoError(t, ts.SetTile(9, solidTile(color.NRGBA{A: 0xff})))
	require.NoError(t, ts.ClearTile(9))
	assert.False(t, ts.HasTile(9))
}

func TestAddObject(t *testing.T) {
	ts := sampleTileset(t)

	d := pillar()
	d.Rows[1][0].Tile = 200
	_, err := ts.AddObject(d)
	assert.ErrorIs(t, err, ErrInvalidReference)

	// Tiles from another slot belong to another tileset
	d.Rows[1][0].Slot = 0
	i, err := ts.AddObject(d)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	d.Height = 4
	_, err = ts.AddObject(d)
	assert.ErrorIs(t, err, object.ErrMalformed)
	assert.Equal(t, 2, ts.NumObjects())
}

func TestObjectsAreCopies(t *testing.T) {
	ts := sampleTileset(t)

	d, err := ts.Object(0)
	require.NoError(t, err)
	d.Rows[0][0].Tile = 3
	ts.Objects()[0].Rows[1][0].Tile = 3

	got, err := ts.Object(0)
	require.NoError(t, err)
	assert.Equal(t, pillar(), got)

	_, err = ts.Object(1)
	assert.ErrorIs(t, err, ErrNoObject)
	_, err = ts.Object(-1)
	assert.ErrorIs(t, err, ErrNoObject)
}

func TestTooManyObjects(t *testing.T) {
	ts := sampleTileset(t)
	for ts.NumObjects() < object.MaxObjects {
		_, err := ts.AddObject(pillar())
		require.NoError(t, err)
	}

	_, err := ts.AddObject(pillar())
	assert.ErrorIs(t, err, ErrTooManyObjects)
	assert.Equal(t, object.MaxObjects, ts.NumObjects())
}

func TestSetRemoveObject(t *testing.T) {
	ts := sampleTileset(t)
	_, err := ts.AddObject(object.New(2, 2, ref(3, object.RepeatXY)))
	require.NoError(t, err)

	assert.ErrorIs(t, ts.SetObject(5, pillar()), ErrNoObject)
	assert.ErrorIs(t, ts.SetObject(0, object.New(1, 1, ref(99, object.Fixed))), ErrInvalidReference)

	require.NoError(t, ts.SetObject(0, object.New(1, 1, ref(1, object.Fixed))))
	require.NoError(t, ts.RemoveObject(0))
	assert.Equal(t, 1, ts.NumObjects())

	d, err := ts.Object(0)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Width)

	assert.ErrorIs(t, ts.RemoveObject(1), ErrNoObject)

	ts.ClearObjects()
	assert.Zero(t, ts.NumObjects())
}

func TestStampObject(t *testing.T) {
	ts := sampleTileset(t)

	g, err := ts.StampObject(0, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, object.Grid{{1}, {2}, {2}, {2}, {3}}, g)

	_, err = ts.StampObject(0, 2, 5)
	assert.ErrorIs(t, err, object.ErrSizeTooSmall)

	_, err = ts.StampObject(3, 1, 5)
	assert.ErrorIs(t, err, ErrNoObject)
}

func TestSetCollision(t *testing.T) {
	ts := sampleTileset(t)

	err := ts.SetCollision(4, collision.Descriptor{Terrain: 0xff})
	assert.ErrorIs(t, err, collision.ErrInvalidValue)

	assert.Equal(t, collision.CategorySolid, ts.Collision(1).Category())
	ts.ClearCollisions()
	assert.Equal(t, collision.CategoryNone, ts.Collision(1).Category())
}

func TestMetadata(t *testing.T) {
	ts := New()

	assert.ErrorIs(t, ts.SetName(strings.Repeat("x", 300)), metadata.ErrInvalid)
	assert.Empty(t, ts.Name())
	assert.ErrorIs(t, ts.SetCategory(metadata.Category(99)), metadata.ErrInvalid)
	assert.ErrorIs(t, ts.SetSlot(4), metadata.ErrInvalid)
	assert.Equal(t, uint8(defaultSlot), ts.Slot())
}

func TestSetSlot(t *testing.T) {
	ts := sampleTileset(t)

	d := object.Definition{
		Width:  3,
		Height: 1,
		Rows: [][]object.TileRef{{
			{},
			{},
			{Tile: 1, Slot: 0},
		}},
	}
	_, err := ts.AddObject(d)
	require.NoError(t, err)

	// The first cell of the row moves to slot 2, which has to supply tile 0
	assert.ErrorIs(t, ts.SetSlot(2), ErrInvalidReference)
	require.NoError(t, ts.SetTile(0, solidTile(color.NRGBA{})))

	require.NoError(t, ts.SetSlot(2))
	assert.Equal(t, uint8(2), ts.Slot())

	got, err := ts.Object(1)
	require.NoError(t, err)
	assert.Equal(t, []object.TileRef{
		{Slot: 2},
		{},
		{Tile: 1, Slot: 2},
	}, got.Rows[0])

	got, err = ts.Object(0)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), got.Rows[1][0].Slot)
}

func TestSetSlotMissingTile(t *testing.T) {
	ts := New()
	_, err := ts.AddObject(object.New(1, 1, object.TileRef{Tile: 5, Slot: 0}))
	require.NoError(t, err)

	// Tile 5 would have to come from this tileset after the move
	assert.ErrorIs(t, ts.SetSlot(0), ErrInvalidReference)
	assert.Equal(t, uint8(defaultSlot), ts.Slot())

	got, err := ts.Object(0)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), got.Rows[0][0].Slot)
}

func TestEqual(t *testing.T) {
	a, b := sampleTileset(t), sampleTileset(t)
	assert.True(t, a.Equal(b))

	require.NoError(t, b.SetCollision(200, collision.Descriptor{Behavior: collision.Climbable{}}))
	assert.False(t, a.Equal(b))

	b = sampleTileset(t)
	require.NoError(t, b.SetTile(1, solidTile(color.NRGBA{A: 0xff})))
	assert.False(t, a.Equal(b))

	b = sampleTileset(t)
	require.NoError(t, b.SetName("other"))
	assert.False(t, a.Equal(b))

	b = sampleTileset(t)
	b.ClearObjects()
	assert.False(t, a.Equal(b))

	// An absent tile is stored as transparent black
	b = sampleTileset(t)
	require.NoError(t, b.SetTile(100, solidTile(color.NRGBA{})))
	assert.True(t, a.Equal(b))
}

func TestSetObjectTiling(t *testing.T) {
	ts := sampleTileset(t)

	require.NoError(t, ts.SetObjectTiling(0, object.TilingStretchY))
	d, err := ts.Object(0)
	require.NoError(t, err)
	assert.Equal(t, []object.Role{object.Fixed, object.RepeatY, object.Fixed}, []object.Role{d.Rows[0][0].Role, d.Rows[1][0].Role, d.Rows[2][0].Role})

	g, err := ts.StampObject(0, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, object.Grid{{1}, {2}, {2}, {3}}, g)

	require.NoError(t, ts.SetObjectTiling(0, object.TilingUpwardReverseSlope))
	d, err = ts.Object(0)
	require.NoError(t, err)
	assert.Equal(t, &object.Slope{Flags: object.SlopeReversed, MainRows: 2}, d.Slope)

	assert.ErrorIs(t, ts.SetObjectTiling(0, object.TilingStretchX), object.ErrSizeTooSmall)
	assert.ErrorIs(t, ts.SetObjectTiling(1, object.TilingRepeat), ErrNoObject)

	// Failed presets leave the object alone
	again, err := ts.Object(0)
	require.NoError(t, err)
	assert.Equal(t, d, again)
}

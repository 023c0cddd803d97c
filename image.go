package puzzle

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/bodgit/puzzle/atlas"
	"github.com/bodgit/puzzle/rgb5a3"
)

// Image returns the tile atlas, 16 tiles per row. Absent tiles are fully
// transparent.
func (t *Tileset) Image() *image.NRGBA {
	tiles := make([]*image.NRGBA, len(t.tiles))
	for i, tile := range t.tiles {
		if tile == nil {
			tile = newTile()
		}
		tiles[i] = tile
	}

	// The tile count is a multiple of the wrap width so this can't fail
	m, _ := atlas.Join(tiles, atlas.WrapWidth)

	return m
}

// ImportImage replaces every tile with those cut from m, which must be a
// full 256x256 atlas. The color of fully transparent pixels is first
// adjusted according to p. Objects and collisions are kept.
func (t *Tileset) ImportImage(m image.Image, p rgb5a3.EdgePolicy) error {
	b := m.Bounds()
	if b.Dx() != atlas.Width || b.Dy() != atlas.Height {
		return fmt.Errorf("%w: atlas is %dx%d, expected %dx%d", atlas.ErrSizeMismatch, b.Dx(), b.Dy(), atlas.Width, atlas.Height)
	}

	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := m.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			copy(n.Pix[n.PixOffset(0, y):n.PixOffset(0, y+1)], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
		}
	} else {
		draw.Draw(n, n.Bounds(), m, b.Min, draw.Src)
	}

	rgb5a3.AdjustEdgeColors(n, p)
	quantize(n)

	tiles, err := atlas.Split(n, atlas.TileSize)
	if err != nil {
		return err
	}
	copy(t.tiles[:], tiles)

	return nil
}

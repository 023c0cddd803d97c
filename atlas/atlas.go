/*
Package atlas splits a tile atlas image into individual tiles and joins
tiles back into an atlas.

Tiles are laid out left to right, top to bottom. The number of tiles per row
is fixed by the archive format rather than by however the atlas happens to
be displayed; joining with any other wrap width moves every tile after the
first row.
*/
package atlas

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
)

const (
	// TileSize is the width and height of a tile in pixels.
	TileSize = 16
	// WrapWidth is the number of tiles per atlas row.
	WrapWidth = 16
	// Tiles is the number of tiles in a full atlas.
	Tiles = WrapWidth * WrapWidth
	// Width is the width of a full atlas in pixels.
	Width = WrapWidth * TileSize
	// Height is the height of a full atlas in pixels.
	Height = Tiles / WrapWidth * TileSize
)

// ErrSizeMismatch is returned when an image or a list of tiles doesn't fit
// the tile grid.
var ErrSizeMismatch = errors.New("atlas: size mismatch")

func mismatch(format string, a ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrSizeMismatch}, a...)...)
}

func copyTile(dst *image.NRGBA, src image.Image, sp image.Point) {
	r := dst.Bounds()
	if n, ok := src.(*image.NRGBA); ok {
		// Straight copy keeps the color of transparent pixels
		for y := 0; y < r.Dy(); y++ {
			s := n.PixOffset(sp.X, sp.Y+y)
			d := dst.PixOffset(r.Min.X, r.Min.Y+y)
			copy(dst.Pix[d:d+r.Dx()*4], n.Pix[s:s+r.Dx()*4])
		}
		return
	}
	draw.Draw(dst, r, src, sp, draw.Src)
}

// Split cuts m into tileSize by tileSize tiles, reading left to right, top
// to bottom. Every tile starts at (0, 0).
func Split(m image.Image, tileSize int) ([]*image.NRGBA, error) {
	b := m.Bounds()
	if tileSize <= 0 || b.Empty() || b.Dx()%tileSize != 0 || b.Dy()%tileSize != 0 {
		return nil, mismatch("%dx%d image is not a grid of %dx%d tiles", b.Dx(), b.Dy(), tileSize, tileSize)
	}

	columns, rows := b.Dx()/tileSize, b.Dy()/tileSize
	tiles := make([]*image.NRGBA, 0, columns*rows)
	for ty := 0; ty < rows; ty++ {
		for tx := 0; tx < columns; tx++ {
			t := image.NewNRGBA(image.Rect(0, 0, tileSize, tileSize))
			copyTile(t, m, image.Pt(b.Min.X+tx*tileSize, b.Min.Y+ty*tileSize))
			tiles = append(tiles, t)
		}
	}

	return tiles, nil
}

// Join lays out tiles wrapWidth to a row. All tiles must be the same square
// size and the number of tiles must fill every row.
func Join(tiles []*image.NRGBA, wrapWidth int) (*image.NRGBA, error) {
	if wrapWidth <= 0 || len(tiles) == 0 || len(tiles)%wrapWidth != 0 {
		return nil, mismatch("%d tiles don't fill rows of %d", len(tiles), wrapWidth)
	}

	tileSize := tiles[0].Bounds().Dx()
	for i, t := range tiles {
		if b := t.Bounds(); b.Dx() != tileSize || b.Dy() != tileSize || tileSize == 0 {
			return nil, mismatch("tile %d is %dx%d, expected %dx%d", i, b.Dx(), b.Dy(), tileSize, tileSize)
		}
	}

	m := image.NewNRGBA(image.Rect(0, 0, wrapWidth*tileSize, len(tiles)/wrapWidth*tileSize))
	for i, t := range tiles {
		x, y := i%wrapWidth*tileSize, i/wrapWidth*tileSize
		copyTile(m.SubImage(image.Rect(x, y, x+tileSize, y+tileSize)).(*image.NRGBA), t, t.Bounds().Min)
	}

	return m, nil
}

// Position returns the pixel offset of tile i in an atlas with the format's
// wrap width.
func Position(i int) image.Point {
	return image.Pt(i%WrapWidth*TileSize, i/WrapWidth*TileSize)
}

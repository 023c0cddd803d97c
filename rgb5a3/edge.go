package rgb5a3

import (
	"fmt"
	"image"
	"strings"
)

// EdgePolicy selects how AdjustEdgeColors treats fully transparent pixels.
type EdgePolicy int

const (
	// EdgeKeep leaves every pixel untouched.
	EdgeKeep EdgePolicy = iota
	// EdgeNeighbor gives each fully transparent pixel the average color
	// of its non-transparent neighbours anywhere in the image.
	EdgeNeighbor
	// EdgePerTile is EdgeNeighbor with neighbours confined to the same
	// 16x16 tile: adjustment is disabled across tile borders, not turned
	// off altogether, so no color bleeds from one tile into the next.
	EdgePerTile
)

// tileSize is the edge length of a tile for EdgePerTile.
const tileSize = 16

var edgePolicyNames = map[EdgePolicy]string{
	EdgeKeep:     "keep",
	EdgeNeighbor: "neighbor",
	EdgePerTile:  "tile",
}

func (p EdgePolicy) String() string {
	if s, ok := edgePolicyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("EdgePolicy(%d)", int(p))
}

// ParseEdgePolicy returns the policy with the given name.
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	for p, name := range edgePolicyNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return EdgeKeep, fmt.Errorf("rgb5a3: unknown edge policy %q", s)
}

var neighbors = [8]image.Point{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// adjust recolors the fully transparent pixels inside r. Only pixels with
// non-zero alpha are read as neighbours and only zero alpha pixels are
// written, so a single pass gives the same result in any order.
func adjust(m *image.NRGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := m.PixOffset(x, y)
			if m.Pix[i+3] != 0 {
				continue
			}

			var red, green, blue, n int
			for _, d := range neighbors {
				p := image.Pt(x+d.X, y+d.Y)
				if !p.In(r) {
					continue
				}
				j := m.PixOffset(p.X, p.Y)
				if m.Pix[j+3] == 0 {
					continue
				}
				red += int(m.Pix[j+0])
				green += int(m.Pix[j+1])
				blue += int(m.Pix[j+2])
				n++
			}

			if n > 0 {
				m.Pix[i+0] = uint8(red / n)
				m.Pix[i+1] = uint8(green / n)
				m.Pix[i+2] = uint8(blue / n)
			}
		}
	}
}

// AdjustEdgeColors rewrites the color of fully transparent pixels that
// border visible ones so filtering in the renderer doesn't pull in stray
// colors. Alpha is never changed. It is meant for imported images whose
// transparent pixels hold arbitrary color and should run before the
// pixels are converted to the native format.
func AdjustEdgeColors(m *image.NRGBA, p EdgePolicy) {
	b := m.Bounds()
	switch p {
	case EdgeNeighbor:
		adjust(m, b)
	case EdgePerTile:
		for y := b.Min.Y; y < b.Max.Y; y += tileSize {
			for x := b.Min.X; x < b.Max.X; x += tileSize {
				adjust(m, image.Rect(x, y, x+tileSize, y+tileSize).Intersect(b))
			}
		}
	}
}

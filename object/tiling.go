package object

import (
	"fmt"
	"strings"
)

// Tiling is a preset that sets the repeat roles of every cell of an object
// at once.
type Tiling uint8

// Tiling presets.
const (
	// TilingRepeat makes every cell fixed and removes any slope.
	TilingRepeat Tiling = iota
	// TilingStretchCenter keeps the corners fixed, repeats the top and
	// bottom edges horizontally, the left and right edges vertically and
	// the center both ways.
	TilingStretchCenter
	// TilingStretchX repeats every column but the first and last.
	TilingStretchX
	// TilingStretchY repeats every row but the first and last.
	TilingStretchY
	TilingRepeatBottom
	TilingRepeatTop
	TilingRepeatLeft
	TilingRepeatRight
	// The slope presets make every cell fixed. Normal slopes have a one
	// row main block, reversed ones a one row sub block.
	TilingUpwardSlope
	TilingDownwardSlope
	TilingUpwardReverseSlope
	TilingDownwardReverseSlope
	numTilings
)

var tilingNames = [numTilings]string{
	"repeat",
	"stretch-center",
	"stretch-x",
	"stretch-y",
	"repeat-bottom",
	"repeat-top",
	"repeat-left",
	"repeat-right",
	"upward-slope",
	"downward-slope",
	"upward-reverse-slope",
	"downward-reverse-slope",
}

func (t Tiling) String() string {
	if t < numTilings {
		return tilingNames[t]
	}
	return fmt.Sprintf("Tiling(%d)", uint8(t))
}

// ParseTiling returns the preset with the given name, ignoring case.
func ParseTiling(s string) (Tiling, error) {
	for i, name := range tilingNames {
		if strings.EqualFold(s, name) {
			return Tiling(i), nil
		}
	}
	return TilingRepeat, fmt.Errorf("object: unknown tiling %q", s)
}

// minimum width and height for each preset
var tilingMinimums = [numTilings][2]int{
	TilingRepeat:               {1, 1},
	TilingStretchCenter:        {3, 3},
	TilingStretchX:             {3, 1},
	TilingStretchY:             {1, 3},
	TilingRepeatBottom:         {1, 2},
	TilingRepeatTop:            {1, 2},
	TilingRepeatLeft:           {2, 1},
	TilingRepeatRight:          {2, 1},
	TilingUpwardSlope:          {1, 1},
	TilingDownwardSlope:        {1, 1},
	TilingUpwardReverseSlope:   {1, 2},
	TilingDownwardReverseSlope: {1, 2},
}

func (t Tiling) role(x, y, w, h int) Role {
	left, right := x == 0, x == w-1
	top, bottom := y == 0, y == h-1

	switch t {
	case TilingStretchCenter:
		switch {
		case (top || bottom) && (left || right):
			return Fixed
		case top || bottom:
			return RepeatX
		case left || right:
			return RepeatY
		}
		return RepeatXY
	case TilingStretchX:
		if left || right {
			return Fixed
		}
		return RepeatX
	case TilingStretchY:
		if top || bottom {
			return Fixed
		}
		return RepeatY
	case TilingRepeatBottom:
		if bottom {
			return RepeatY
		}
	case TilingRepeatTop:
		if top {
			return RepeatY
		}
	case TilingRepeatLeft:
		if left {
			return RepeatX
		}
	case TilingRepeatRight:
		if right {
			return RepeatX
		}
	}
	return Fixed
}

func (t Tiling) slope(h int) *Slope {
	switch t {
	case TilingUpwardSlope:
		return &Slope{MainRows: 1}
	case TilingDownwardSlope:
		return &Slope{Flags: SlopeDescending, MainRows: 1}
	case TilingUpwardReverseSlope:
		return &Slope{Flags: SlopeReversed, MainRows: h - 1}
	case TilingDownwardReverseSlope:
		return &Slope{Flags: SlopeReversed | SlopeDescending, MainRows: h - 1}
	}
	return nil
}

// ApplyTiling returns a copy of d with the roles and slope set by t. Tiles,
// slots and item codes are kept. It fails with ErrSizeTooSmall if d is
// too small for t.
func ApplyTiling(d Definition, t Tiling) (Definition, error) {
	if t >= numTilings {
		return Definition{}, malformed("tiling %d", uint8(t))
	}
	if err := d.Validate(); err != nil {
		return Definition{}, err
	}
	if m := tilingMinimums[t]; d.Width < m[0] || d.Height < m[1] {
		return Definition{}, fmt.Errorf("%w: %s needs at least %dx%d", ErrSizeTooSmall, t, m[0], m[1])
	}

	c := d.Clone()
	for y, row := range c.Rows {
		for x := range row {
			row[x].Role = t.role(x, y, c.Width, c.Height)
		}
	}
	c.Slope = t.slope(c.Height)

	return c, nil
}

package object

// Empty marks a grid cell that an object doesn't cover.
const Empty = -1

// Grid holds tile indices, indexed by row then column.
type Grid [][]int

func newGrid(width, height int) Grid {
	g := make(Grid, height)
	for y := range g {
		g[y] = make([]int, width)
		for x := range g[y] {
			g[y][x] = Empty
		}
	}
	return g
}

// Grid returns the tile indices of d at its declared size.
func (d Definition) Grid() Grid {
	g := newGrid(d.Width, d.Height)
	d.Refs(func(x, y int, ref TileRef) {
		g[y][x] = int(ref.Tile)
	})
	return g
}

// Stamp expands d to width by height tiles. Fixed rows and columns are
// placed once and repeating ones are cycled to fill the remaining space. d
// is not modified.
func Stamp(d Definition, width, height int) (Grid, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if width < d.Width || height < d.Height {
		return nil, ErrSizeTooSmall
	}

	if d.Slope != nil {
		return stampSlope(d, width, height), nil
	}

	cols := make([]bool, d.Width)
	rows := make([]bool, d.Height)
	d.Refs(func(x, y int, ref TileRef) {
		cols[x] = cols[x] || ref.Role.RepeatsX()
		rows[y] = rows[y] || ref.Role.RepeatsY()
	})

	xs, ok := expand(cols, width)
	if !ok {
		return nil, ErrSizeTooSmall
	}
	ys, ok := expand(rows, height)
	if !ok {
		return nil, ErrSizeTooSmall
	}

	g := newGrid(width, height)
	for y, sy := range ys {
		for x, sx := range xs {
			g[y][x] = int(d.Rows[sy][sx].Tile)
		}
	}

	return g, nil
}

// expand maps each of n output positions to a source position. Runs of
// repeatable positions share the extra space, earlier runs taking any
// remainder, and each is cycled through in order.
func expand(repeat []bool, n int) ([]int, bool) {
	type run struct{ start, length int }

	var runs []run
	for i := 0; i < len(repeat); i++ {
		if !repeat[i] {
			continue
		}
		r := run{start: i}
		for ; i < len(repeat) && repeat[i]; i++ {
			r.length++
		}
		runs = append(runs, r)
	}

	extra := n - len(repeat)
	if extra < 0 || (extra > 0 && len(runs) == 0) {
		return nil, false
	}

	out := make([]int, 0, n)
	for i, j := 0, 0; i < len(repeat); {
		if j >= len(runs) || i < runs[j].start {
			out = append(out, i)
			i++
			continue
		}

		r := runs[j]
		total := r.length + extra/len(runs)
		if j < extra%len(runs) {
			total++
		}
		for k := 0; k < total; k++ {
			out = append(out, r.start+k%r.length)
		}
		i += r.length
		j++
	}

	return out, true
}

// stampSlope places one copy of the main block per step, moving it down
// (or up) by its height each time, and fills the space below it with the
// sub block. Reversed slopes hang from the bottom edge and fill upwards.
func stampSlope(d Definition, width, height int) Grid {
	main, sub := d.mainBlock(), d.subBlock()
	bw, bh := d.Width, len(main)
	steps := (width + bw - 1) / bw
	reversed := d.Slope.Flags&SlopeReversed != 0

	g := newGrid(width, height)
	put := func(x, y int, ref TileRef) {
		if x < width && y >= 0 && y < height {
			g[y][x] = int(ref.Tile)
		}
	}

	for i := 0; i < steps; i++ {
		k := steps - 1 - i
		if d.Slope.Flags&SlopeDescending != 0 {
			k = i
		}
		top := k * bh
		left := i * bw

		for x := 0; x < bw; x++ {
			if !reversed {
				for y, row := range main {
					put(left+x, top+y, row[x])
				}
				for n, y := 0, top+bh; y < height && len(sub) > 0; n, y = n+1, y+1 {
					put(left+x, y, sub[n%len(sub)][x])
				}
				continue
			}

			base := height - top - bh
			for y, row := range main {
				put(left+x, base+y, row[x])
			}
			for n, y := 0, base-1; y >= 0 && len(sub) > 0; n, y = n+1, y-1 {
				put(left+x, y, sub[len(sub)-1-n%len(sub)][x])
			}
		}
	}

	return g
}

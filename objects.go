package puzzle

import (
	"fmt"
	"io"

	"github.com/bodgit/puzzle/object"
	"gopkg.in/yaml.v3"
)

type yamlRef struct {
	Tile uint8  `yaml:"tile"`
	Role string `yaml:"role,omitempty"`
	Slot uint8  `yaml:"slot,omitempty"`
	Item uint8  `yaml:"item,omitempty"`
}

type yamlSlope struct {
	Descending bool `yaml:"descending,omitempty"`
	Reversed   bool `yaml:"reversed,omitempty"`
	MainRows   int  `yaml:"main_rows"`
}

type yamlObject struct {
	Width  int         `yaml:"width"`
	Height int         `yaml:"height"`
	Slope  *yamlSlope  `yaml:"slope,omitempty"`
	Rows   [][]yamlRef `yaml:"rows,flow"`
}

func toYAML(d object.Definition) yamlObject {
	o := yamlObject{
		Width:  d.Width,
		Height: d.Height,
		Rows:   make([][]yamlRef, len(d.Rows)),
	}
	if d.Slope != nil {
		o.Slope = &yamlSlope{
			Descending: d.Slope.Flags&object.SlopeDescending != 0,
			Reversed:   d.Slope.Flags&object.SlopeReversed != 0,
			MainRows:   d.Slope.MainRows,
		}
	}
	for y, row := range d.Rows {
		o.Rows[y] = make([]yamlRef, len(row))
		for x, ref := range row {
			r := yamlRef{Tile: ref.Tile, Slot: ref.Slot, Item: ref.Item}
			if ref.Role != object.Fixed {
				r.Role = ref.Role.String()
			}
			o.Rows[y][x] = r
		}
	}
	return o
}

func fromYAML(o yamlObject) (object.Definition, error) {
	d := object.Definition{
		Width:  o.Width,
		Height: o.Height,
		Rows:   make([][]object.TileRef, len(o.Rows)),
	}
	if o.Slope != nil {
		d.Slope = &object.Slope{MainRows: o.Slope.MainRows}
		if o.Slope.Descending {
			d.Slope.Flags |= object.SlopeDescending
		}
		if o.Slope.Reversed {
			d.Slope.Flags |= object.SlopeReversed
		}
	}
	for y, row := range o.Rows {
		d.Rows[y] = make([]object.TileRef, len(row))
		for x, r := range row {
			role := object.Fixed
			if r.Role != "" {
				var err error
				if role, err = object.ParseRole(r.Role); err != nil {
					return object.Definition{}, err
				}
			}
			d.Rows[y][x] = object.TileRef{Tile: r.Tile, Role: role, Slot: r.Slot, Item: r.Item}
		}
	}
	return d, nil
}

// DumpObjects writes every object to w as YAML.
func (t *Tileset) DumpObjects(w io.Writer) error {
	objects := make([]yamlObject, len(t.objects))
	for i, d := range t.objects {
		objects[i] = toYAML(d)
	}

	e := yaml.NewEncoder(w)
	e.SetIndent(2)
	if err := e.Encode(objects); err != nil {
		return err
	}

	return e.Close()
}

// LoadObjects replaces every object with those read from r as YAML. The
// objects are left alone if any of them are invalid.
func (t *Tileset) LoadObjects(r io.Reader) error {
	var objects []yamlObject
	if err := yaml.NewDecoder(r).Decode(&objects); err != nil && err != io.EOF {
		return err
	}

	defs := make([]object.Definition, len(objects))
	for i, o := range objects {
		d, err := fromYAML(o)
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
		defs[i] = d
	}

	return t.ReplaceObjects(defs)
}

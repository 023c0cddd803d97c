package puzzle

import (
	"bytes"
	"fmt"

	"github.com/bodgit/puzzle/archive"
	"github.com/bodgit/puzzle/atlas"
	"github.com/bodgit/puzzle/metadata"
	"github.com/bodgit/puzzle/object"
	"github.com/bodgit/puzzle/rgb5a3"
)

// Load decodes a tileset archive. Every tile of a loaded tileset is
// present.
func Load(b []byte) (*Tileset, error) {
	sections, err := archive.Parse(b)
	if err != nil {
		return nil, err
	}

	t := New()

	m, err := rgb5a3.DecodeTexture(bytes.NewReader(sections[archive.Texture].Data), atlas.Width, atlas.Height)
	if err != nil {
		return nil, fmt.Errorf("puzzle: texture: %w", err)
	}
	tiles, err := atlas.Split(m, atlas.TileSize)
	if err != nil {
		return nil, err
	}
	copy(t.tiles[:], tiles)

	if err := t.collisions.UnmarshalBinary(sections[archive.Collision].Data); err != nil {
		return nil, err
	}

	objects, err := object.Decode(sections[archive.Objects].Data, sections[archive.ObjectHead].Data)
	if err != nil {
		return nil, err
	}

	if s, ok := sections[archive.Metadata]; ok {
		if err := t.meta.UnmarshalBinary(s.Data); err != nil {
			return nil, err
		}
	} else if len(objects) > 0 {
		// Without metadata the slot is whatever the first tile of the
		// first object draws from
		t.meta.Slot = objects[0].Rows[0][0].Slot
	}

	if err := t.ReplaceObjects(objects); err != nil {
		return nil, err
	}

	return t, nil
}

// Save encodes t as a tileset archive. Loading the result gives a tileset
// equal to t, and saving an unedited tileset gives the same bytes every
// time.
func (t *Tileset) Save() ([]byte, error) {
	for i, d := range t.objects {
		if err := t.validate(d); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
	}

	texture := new(bytes.Buffer)
	if err := rgb5a3.EncodeTexture(texture, t.Image()); err != nil {
		return nil, err
	}

	collisions, err := t.collisions.MarshalBinary()
	if err != nil {
		return nil, err
	}

	stream, index, err := object.Encode(t.objects)
	if err != nil {
		return nil, err
	}

	meta, err := t.meta.MarshalBinary()
	if err != nil {
		return nil, err
	}

	return archive.Write(map[string]archive.Section{
		archive.Texture:    {Data: texture.Bytes()},
		archive.Collision:  {Data: collisions},
		archive.Objects:    {Data: stream},
		archive.ObjectHead: {Data: index},
		archive.Metadata:   {Data: meta},
	})
}

// Metadata returns a copy of the tileset metadata.
func (t *Tileset) Metadata() metadata.Metadata {
	return t.meta
}

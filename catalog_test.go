package puzzle

import (
	"bytes"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/puzzle/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThumbnail(t *testing.T) {
	b, err := Thumbnail(sampleTileset(t))
	require.NoError(t, err)

	m, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, ThumbnailSize, m.Bounds().Dx())
	assert.Equal(t, ThumbnailSize, m.Bounds().Dy())
}

func TestCatalog(t *testing.T) {
	c, err := NewCatalog(filepath.Join(t.TempDir(), "puzzle.db"))
	require.NoError(t, err)
	defer c.Close()

	digest, err := c.Digest("/a.arc")
	require.NoError(t, err)
	assert.Empty(t, digest)

	ts := sampleTileset(t)
	require.NoError(t, c.Add("/b.arc", "beef", ts))
	require.NoError(t, c.Add("/a.arc", "beef", ts))
	require.NoError(t, c.Add("/a.arc", "cafe", New()))

	digest, err = c.Digest("/a.arc")
	require.NoError(t, err)
	assert.Equal(t, "cafe", digest)

	entries, err := c.Entries()
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Path: "/a.arc", Digest: "cafe", Slot: defaultSlot},
		{Path: "/b.arc", Digest: "beef", Name: "Pa1_sample", Category: metadata.CategoryForest, Slot: defaultSlot, Tiles: 3, Objects: 1},
	}, entries)

	thumbnail, err := c.FindThumbnail("/b.arc")
	require.NoError(t, err)
	assert.NotEmpty(t, thumbnail)

	require.NoError(t, c.Remove("/b.arc"))
	thumbnail, err = c.FindThumbnail("/b.arc")
	require.NoError(t, err)
	assert.Nil(t, thumbnail)
}

func writeArchive(t *testing.T, file string, ts *Tileset) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
	require.NoError(t, ts.SaveFile(file))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "tilesets")

	writeArchive(t, filepath.Join(root, "Pa1_sample.arc"), sampleTileset(t))
	writeArchive(t, filepath.Join(root, "sub", "Pa0_empty.ARC"), New())
	writeArchive(t, filepath.Join(root, ".hidden", "Pa2_hidden.arc"), New())
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.arc"), []byte("PZTS"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hello"), 0o644))

	logger := log.New(io.Discard, "", 0)
	p, err := Open(filepath.Join(dir, "puzzle.db"), logger)
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Scan(root))

	entries, err := p.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, filepath.Join(root, "Pa1_sample.arc"), entries[0].Path)
	assert.Equal(t, "Pa1_sample", entries[0].Name)
	assert.Equal(t, filepath.Join(root, "sub", "Pa0_empty.ARC"), entries[1].Path)
	assert.Equal(t, 0, entries[1].Objects)

	_, digest, err := ReadFile(entries[0].Path)
	require.NoError(t, err)
	assert.Equal(t, digest, entries[0].Digest)
	assert.Len(t, digest, 64)

	// A rescan of unchanged files changes nothing
	require.NoError(t, p.Scan(root))
	again, err := p.List()
	require.NoError(t, err)
	assert.Equal(t, entries, again)

	thumbnail, err := p.Thumbnail(entries[0].Path)
	require.NoError(t, err)
	assert.NotEmpty(t, thumbnail)
}

func TestScanMissing(t *testing.T) {
	p, err := Open(filepath.Join(t.TempDir(), "puzzle.db"), log.New(io.Discard, "", 0))
	require.NoError(t, err)
	defer p.Close()

	assert.Error(t, p.Scan(filepath.Join(t.TempDir(), "missing")))
}

package puzzle

import (
	"bytes"
	"database/sql"
	"fmt"
	"image"
	"image/png"

	"github.com/bodgit/puzzle/metadata"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/image/draw"
)

// ThumbnailSize is the width and height of a catalog thumbnail.
const ThumbnailSize = 64

// Catalog is an index of tileset archives on disk.
type Catalog struct {
	db *sql.DB
}

// Entry is a single cataloged tileset.
type Entry struct {
	Path     string
	Digest   string
	Name     string
	Category metadata.Category
	Slot     uint8
	Tiles    int
	Objects  int
}

// NewCatalog opens, creating if necessary, the catalog stored in file.
func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	// Scan workers write concurrently
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS thumbnail (id INTEGER PRIMARY KEY NOT NULL, digest TEXT NOT NULL UNIQUE, png BLOB NOT NULL)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS tileset (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, digest TEXT NOT NULL, name TEXT NOT NULL, category INTEGER NOT NULL, slot INTEGER NOT NULL, tiles INTEGER NOT NULL, objects INTEGER NOT NULL, thumbnail_id INTEGER NOT NULL, FOREIGN KEY(thumbnail_id) REFERENCES thumbnail(id))"); err != nil {
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Close closes the catalog.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Thumbnail scales the atlas of t down to a PNG of ThumbnailSize square.
func Thumbnail(t *Tileset) ([]byte, error) {
	m := t.Image()
	dst := image.NewNRGBA(image.Rect(0, 0, ThumbnailSize, ThumbnailSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), m, m.Bounds(), draw.Src, nil)

	b := new(bytes.Buffer)
	if err := png.Encode(b, dst); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

func (c *Catalog) addThumbnail(digest string, t *Tileset) (int64, error) {
	var id int64
	switch err := c.db.QueryRow("SELECT id FROM thumbnail WHERE digest = ?", digest).Scan(&id); err {
	case sql.ErrNoRows:
		b, err := Thumbnail(t)
		if err != nil {
			return 0, err
		}
		result, err := c.db.Exec("INSERT INTO thumbnail (digest, png) VALUES (?, ?)", digest, b)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Add records t as the contents of path. Archives with identical content
// share a thumbnail.
func (c *Catalog) Add(path, digest string, t *Tileset) error {
	thumbnail, err := c.addThumbnail(digest, t)
	if err != nil {
		return err
	}

	if _, err := c.db.Exec("INSERT OR REPLACE INTO tileset (path, digest, name, category, slot, tiles, objects, thumbnail_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", path, digest, t.Name(), int(t.Category()), int(t.Slot()), t.TileCount(), t.NumObjects(), thumbnail); err != nil {
		return err
	}

	return nil
}

// Digest returns the digest last recorded for path, or an empty string if
// path isn't cataloged.
func (c *Catalog) Digest(path string) (string, error) {
	var digest string
	switch err := c.db.QueryRow("SELECT digest FROM tileset WHERE path = ?", path).Scan(&digest); err {
	case sql.ErrNoRows:
		return "", nil
	case nil:
		return digest, nil
	default:
		return "", err
	}
}

// Remove forgets path.
func (c *Catalog) Remove(path string) error {
	if _, err := c.db.Exec("DELETE FROM tileset WHERE path = ?", path); err != nil {
		return err
	}
	return nil
}

// Entries returns every cataloged tileset ordered by path.
func (c *Catalog) Entries() ([]Entry, error) {
	rows, err := c.db.Query("SELECT path, digest, name, category, slot, tiles, objects FROM tileset ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.Digest, &e.Name, &e.Category, &e.Slot, &e.Tiles, &e.Objects); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// FindThumbnail returns the thumbnail of the tileset at path, or nil if
// path isn't cataloged.
func (c *Catalog) FindThumbnail(path string) ([]byte, error) {
	var b []byte
	switch err := c.db.QueryRow("SELECT th.png FROM tileset AS ts JOIN thumbnail AS th ON ts.thumbnail_id = th.id WHERE ts.path = ?", path).Scan(&b); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return b, nil
	default:
		return nil, err
	}
}

package puzzle

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/zeebo/blake3"
)

// Puzzle maintains a catalog of the tileset archives found on disk.
type Puzzle struct {
	catalog *Catalog
	logger  *log.Logger
}

// Open returns a Puzzle using the catalog stored in file.
func Open(file string, logger *log.Logger) (*Puzzle, error) {
	catalog, err := NewCatalog(file)
	if err != nil {
		return nil, err
	}

	return &Puzzle{
		catalog: catalog,
		logger:  logger,
	}, nil
}

// Close closes the catalog.
func (p *Puzzle) Close() error {
	return p.catalog.Close()
}

// List returns every cataloged tileset.
func (p *Puzzle) List() ([]Entry, error) {
	return p.catalog.Entries()
}

// Thumbnail returns the PNG thumbnail of the tileset at path.
func (p *Puzzle) Thumbnail(path string) ([]byte, error) {
	return p.catalog.FindThumbnail(path)
}

// ReadFile reads the archive at file, returning its contents and their
// BLAKE3 digest.
func ReadFile(file string) ([]byte, string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	h := blake3.New()
	b, err := io.ReadAll(io.TeeReader(f, h))
	if err != nil {
		return nil, "", err
	}

	return b, fmt.Sprintf("%x", h.Sum(nil)), nil
}

// LoadFile loads the archive at file.
func LoadFile(file string) (*Tileset, error) {
	b, _, err := ReadFile(file)
	if err != nil {
		return nil, err
	}
	return Load(b)
}

// SaveFile saves t to file.
func (t *Tileset) SaveFile(file string) error {
	b, err := t.Save()
	if err != nil {
		return err
	}
	return os.WriteFile(file, b, 0o644)
}

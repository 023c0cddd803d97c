package puzzle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	// Extension is the file extension of a tileset archive.
	Extension = ".arc"

	workers = 10
	maxSize = 16 << (10 * 2)
)

func (p *Puzzle) findArchives(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file of a sensible size
			if !info.Mode().IsRegular() || info.Size() > maxSize {
				return nil
			}

			if !strings.EqualFold(filepath.Ext(file), Extension) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (p *Puzzle) archiveWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			b, digest, err := ReadFile(file)
			if err != nil {
				errc <- err
				return
			}

			old, err := p.catalog.Digest(file)
			if err != nil {
				errc <- err
				return
			}
			if old == digest {
				p.logger.Printf("Skipping unchanged \"%s\"\n", file)
				continue
			}

			t, err := Load(b)
			if err != nil {
				// A broken archive shouldn't stop the scan
				p.logger.Printf("Unable to load \"%s\": %v\n", file, err)
				if err := p.catalog.Remove(file); err != nil {
					errc <- err
					return
				}
				continue
			}

			if err := p.catalog.Add(file, digest, t); err != nil {
				errc <- err
				return
			}
			p.logger.Printf("Added \"%s\" (%d tiles, %d objects)\n", file, t.TileCount(), t.NumObjects())
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path and catalogs every tileset archive found.
func (p *Puzzle) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := p.findArchives(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errc, err := p.archiveWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}

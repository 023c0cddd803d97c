package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/bodgit/puzzle"
	"github.com/bodgit/puzzle/collision"
	"github.com/bodgit/puzzle/metadata"
	"github.com/bodgit/puzzle/object"
	"github.com/bodgit/puzzle/rgb5a3"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/urfave/cli/v2"
)

const defaultDB = "puzzle.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func requireArgs(c *cli.Context, n int) {
	if c.NArg() < n {
		cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
	}
}

func info(c *cli.Context) error {
	requireArgs(c, 1)

	t, err := puzzle.LoadFile(c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 8, 1, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", t.Name())
	fmt.Fprintf(w, "Category:\t%s\n", t.Category())
	fmt.Fprintf(w, "Slot:\tPa%d\n", t.Slot())
	fmt.Fprintf(w, "Tiles:\t%d\n", t.TileCount())
	fmt.Fprintf(w, "Objects:\t%d\n", t.NumObjects())

	counts := make(map[collision.Category]int)
	for i := 0; i < collision.Slots; i++ {
		counts[t.Collision(uint8(i)).Category()]++
	}
	for cat := collision.CategorySolid; cat <= collision.CategoryConveyor; cat++ {
		if counts[cat] > 0 {
			fmt.Fprintf(w, "Collision %s:\t%d\n", cat, counts[cat])
		}
	}

	if c.Bool("objects") {
		for i, d := range t.Objects() {
			kind := "object"
			if d.Slope != nil {
				kind = "slope"
			}
			fmt.Fprintf(w, "Object %d:\t%dx%d %s\n", i, d.Width, d.Height, kind)
		}
	}

	return w.Flush()
}

func encodeGIF(w io.Writer, m image.Image) error {
	q := quantize.MedianCutQuantizer{}
	b := m.Bounds()
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, 256), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return gif.Encode(w, pm, nil)
}

func export(c *cli.Context) error {
	requireArgs(c, 2)

	t, err := puzzle.LoadFile(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err, 1)
	}

	var encode func(io.Writer, image.Image) error
	switch ext := strings.ToLower(filepath.Ext(c.Args().Get(1))); ext {
	case ".png":
		encode = png.Encode
	case ".gif":
		encode = encodeGIF
	default:
		return cli.Exit(fmt.Sprintf("unsupported image format %q", ext), 1)
	}

	f, err := os.Create(c.Args().Get(1))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer f.Close()

	if err := encode(f, t.Image()); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

// loadOrNew loads file, or returns an empty tileset if it doesn't exist.
func loadOrNew(file string) (*puzzle.Tileset, error) {
	t, err := puzzle.LoadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return puzzle.New(), nil
	}
	return t, err
}

func importImage(c *cli.Context) error {
	requireArgs(c, 2)

	policy, err := rgb5a3.ParseEdgePolicy(c.String("edge"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	t, err := loadOrNew(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err, 1)
	}

	f, err := os.Open(c.Args().Get(1))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer f.Close()

	m, err := png.Decode(f)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := t.ImportImage(m, policy); err != nil {
		return cli.Exit(err, 1)
	}

	if err := t.SaveFile(c.Args().Get(0)); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func newTileset(c *cli.Context) error {
	requireArgs(c, 1)

	t := puzzle.New()

	name := c.String("name")
	if name == "" {
		base := filepath.Base(c.Args().First())
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := t.SetName(name); err != nil {
		return cli.Exit(err, 1)
	}

	category, err := metadata.ParseCategory(c.String("category"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	if err := t.SetCategory(category); err != nil {
		return cli.Exit(err, 1)
	}

	if err := t.SetSlot(uint8(c.Uint("slot"))); err != nil {
		return cli.Exit(err, 1)
	}

	if _, err := os.Stat(c.Args().First()); err == nil && !c.Bool("force") {
		return cli.Exit(fmt.Sprintf("%s already exists", c.Args().First()), 1)
	}

	if err := t.SaveFile(c.Args().First()); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func dumpObjects(c *cli.Context) error {
	requireArgs(c, 1)

	t, err := puzzle.LoadFile(c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}

	w := c.App.Writer
	if c.NArg() > 1 {
		f, err := os.Create(c.Args().Get(1))
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer f.Close()
		w = f
	}

	if err := t.DumpObjects(w); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func loadObjects(c *cli.Context) error {
	requireArgs(c, 2)

	t, err := puzzle.LoadFile(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err, 1)
	}

	f, err := os.Open(c.Args().Get(1))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer f.Close()

	if err := t.LoadObjects(f); err != nil {
		return cli.Exit(err, 1)
	}

	if err := t.SaveFile(c.Args().Get(0)); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func objectTiling(c *cli.Context) error {
	requireArgs(c, 3)

	i, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return cli.Exit(err, 1)
	}

	tiling, err := object.ParseTiling(c.Args().Get(2))
	if err != nil {
		return cli.Exit(err, 1)
	}

	t, err := puzzle.LoadFile(c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := t.SetObjectTiling(i, tiling); err != nil {
		return cli.Exit(err, 1)
	}

	if err := t.SaveFile(c.Args().First()); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func stamp(c *cli.Context) error {
	requireArgs(c, 4)

	var n [3]int
	for i := range n {
		v, err := strconv.Atoi(c.Args().Get(i + 1))
		if err != nil {
			return cli.Exit(err, 1)
		}
		n[i] = v
	}

	t, err := puzzle.LoadFile(c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}

	g, err := t.StampObject(n[0], n[1], n[2])
	if err != nil {
		return cli.Exit(err, 1)
	}

	for _, row := range g {
		cells := make([]string, len(row))
		for x, tile := range row {
			if tile == object.Empty {
				cells[x] = "--"
			} else {
				cells[x] = fmt.Sprintf("%02x", tile)
			}
		}
		fmt.Fprintln(c.App.Writer, strings.Join(cells, " "))
	}

	return nil
}

func scan(c *cli.Context) error {
	requireArgs(c, 1)

	p, err := puzzle.Open(c.String("db"), newLogger(c))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer p.Close()

	if err := p.Scan(c.Args().First()); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func list(c *cli.Context) error {
	p, err := puzzle.Open(c.String("db"), newLogger(c))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer p.Close()

	entries, err := p.List()
	if err != nil {
		return cli.Exit(err, 1)
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 8, 1, ' ', 0)
	fmt.Fprintln(w, "PATH\tNAME\tCATEGORY\tSLOT\tTILES\tOBJECTS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\tPa%d\t%d\t%d\n", e.Path, e.Name, e.Category, e.Slot, e.Tiles, e.Objects)
	}

	return w.Flush()
}

func main() {
	app := cli.NewApp()

	app.Name = "puzzle"
	app.Usage = "Tileset archive editing utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"PUZZLE_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to catalog database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "info",
			Usage:     "Describe a tileset",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "objects",
					Usage: "list every object",
				},
			},
			Action: info,
		},
		{
			Name:      "export",
			Usage:     "Export the tile atlas as a PNG or GIF image",
			ArgsUsage: "FILE IMAGE",
			Action:    export,
		},
		{
			Name:      "import",
			Usage:     "Replace the tiles with a 256x256 PNG atlas",
			ArgsUsage: "FILE IMAGE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "edge",
					EnvVars: []string{"PUZZLE_EDGE"},
					Value:   rgb5a3.EdgeNeighbor.String(),
					Usage:   "color of transparent pixels: keep, neighbor or tile",
				},
			},
			Action: importImage,
		},
		{
			Name:      "new",
			Usage:     "Create an empty tileset",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "name",
					Usage: "tileset name, defaults to the file name",
				},
				&cli.StringFlag{
					Name:  "category",
					Value: metadata.CategoryNone.String(),
					Usage: "tileset category",
				},
				&cli.UintFlag{
					Name:  "slot",
					Value: 1,
					Usage: "tileset slot, 0 to 3",
				},
				&cli.BoolFlag{
					Name:  "force",
					Usage: "overwrite an existing file",
				},
			},
			Action: newTileset,
		},
		{
			Name:  "objects",
			Usage: "Edit tileset objects as YAML",
			Subcommands: []*cli.Command{
				{
					Name:      "dump",
					Usage:     "Write every object as YAML",
					ArgsUsage: "FILE [OUTPUT]",
					Action:    dumpObjects,
				},
				{
					Name:      "load",
					Usage:     "Replace every object with those read from YAML",
					ArgsUsage: "FILE INPUT",
					Action:    loadObjects,
				},
				{
					Name:      "tiling",
					Usage:     "Apply a tiling preset such as stretch-center or upward-slope to an object",
					ArgsUsage: "FILE OBJECT TILING",
					Action:    objectTiling,
				},
			},
		},
		{
			Name:      "stamp",
			Usage:     "Print an object expanded to the given size",
			ArgsUsage: "FILE OBJECT WIDTH HEIGHT",
			Action:    stamp,
		},
		{
			Name:      "scan",
			Usage:     "Scan filesystem and catalog tilesets",
			ArgsUsage: "DIRECTORY",
			Action:    scan,
		},
		{
			Name:   "list",
			Usage:  "List cataloged tilesets",
			Action: list,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

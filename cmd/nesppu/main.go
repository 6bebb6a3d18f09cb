package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/bodgit/nesppu"
	"github.com/bodgit/nesppu/archive"
	"github.com/bodgit/nesppu/chr"
	"github.com/bodgit/nesppu/ines"
	"github.com/bodgit/nesppu/layout"
	"github.com/bodgit/nesppu/palette"
	"github.com/bodgit/nesppu/screen"
	"github.com/urfave/cli/v2"
)

const defaultDB = "nesppu.db"

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

// loadPatterns returns the CHR data in file. iNES images are unpacked,
// anything else is treated as raw pattern data.
func loadPatterns(file string) ([]byte, *ines.Cartridge, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, nil, err
	}

	cart, err := ines.Parse(b)
	switch {
	case err == nil:
		return cart.CHR, cart, nil
	case errors.Is(err, ines.ErrSignature), errors.Is(err, ines.ErrTooSmall):
		return b, nil, nil
	default:
		return nil, nil, err
	}
}

func selectPalette(c *cli.Context) (palette.Palette, error) {
	p, ok := palette.Preset(c.String("palette"))
	if !ok {
		return p, fmt.Errorf("unknown palette %q", c.String("palette"))
	}
	return p, nil
}

var sceneFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "layout",
		Value: layout.KindWeave.String(),
		Usage: "background layout: weave, banded, bordered or random",
	},
	&cli.StringFlag{
		Name:  "theme",
		Value: layout.ThemeOverworld.String(),
		Usage: "banded layout theme: overworld or cavern",
	},
	&cli.IntFlag{
		Name:  "width",
		Value: 32,
		Usage: "name table width in tiles",
	},
	&cli.IntFlag{
		Name:  "height",
		Value: 30,
		Usage: "name table height in tiles",
	},
	&cli.StringFlag{
		Name:  "palette",
		Value: "neutral",
		Usage: "base palette preset",
	},
	&cli.StringFlag{
		Name:  "game",
		Usage: "use the four subpalettes of a game instead of rotating one palette",
	},
	&cli.IntFlag{
		Name:  "sprites",
		Value: 8,
		Usage: "number of sprites",
	},
	&cli.IntFlag{
		Name:  "scroll-x",
		Usage: "horizontal scroll per frame",
	},
	&cli.IntFlag{
		Name:  "scroll-y",
		Usage: "vertical scroll per frame",
	},
	&cli.IntFlag{
		Name:  "frames",
		Value: 60,
		Usage: "number of frames",
	},
	&cli.IntFlag{
		Name:  "workers",
		Value: 4,
		Usage: "number of concurrent frame writers",
	},
}

func newLab(c *cli.Context) (*nesppu.Lab, error) {
	data, _, err := loadPatterns(c.Args().First())
	if err != nil {
		return nil, err
	}

	cfg := nesppu.DefaultConfig()
	cfg.Width, cfg.Height = c.Int("width"), c.Int("height")
	cfg.Sprites = c.Int("sprites")
	cfg.Velocity = image.Pt(c.Int("scroll-x"), c.Int("scroll-y"))

	if cfg.Layout.Kind, err = layout.ParseKind(c.String("layout")); err != nil {
		return nil, err
	}
	if cfg.Layout.Theme, err = layout.ParseTheme(c.String("theme")); err != nil {
		return nil, err
	}
	cfg.Layout.Seed = c.Uint64("seed")

	if cfg.Palette, err = selectPalette(c); err != nil {
		return nil, err
	}

	if name := c.String("game"); name != "" {
		bank, ok := palette.GameBank(name)
		if !ok {
			return nil, fmt.Errorf("unknown game %q", name)
		}
		cfg.Mode = palette.Subpalettes
		for i := range cfg.Subpalettes {
			cfg.Subpalettes[i] = bank.For(uint8(i))
		}
	}

	return nesppu.New(data, cfg, newLogger(c))
}

func writePNG(file string, m image.Image) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, m); err != nil {
		return err
	}

	return f.Close()
}

func main() {
	app := cli.NewApp()

	app.Name = "nesppu"
	app.Usage = "NES tile graphics reconstruction utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	s := newStyles()

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"NESPPU_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to frame archive",
		},
		&cli.Uint64Flag{
			Name:    "seed",
			EnvVars: []string{"NESPPU_SEED"},
			Value:   1,
			Usage:   "seed for sprite motion and random layouts",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "info",
			Usage:       "Describe a ROM or raw pattern file",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				data, cart, err := loadPatterns(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				fmt.Println(s.heading.Render(filepath.Base(c.Args().First())))
				if cart != nil {
					fmt.Println(s.field("PRG ROM", fmt.Sprintf("%d bytes", len(cart.PRG))))
					fmt.Println(s.field("CHR ROM", fmt.Sprintf("%d bytes", len(cart.CHR))))
					fmt.Println(s.field("Mapper", cart.Mapper))
					fmt.Println(s.field("Mirroring", cart.Mirroring))
					fmt.Println(s.field("CRC32", cart.CRC))
					if cart.Trainer {
						fmt.Println(s.field("Trainer", "yes"))
					}
					if cart.Truncated() {
						fmt.Println(s.warning.Render("file is shorter than its header declares"))
					}
				}

				ts := chr.DecodeBytes(data)
				fmt.Println(s.field("Tiles", ts.Len()))
				if n := chr.Trailing(data); n > 0 {
					fmt.Println(s.field("Trailing", fmt.Sprintf("%d bytes", n)))
				}
				if ts.Len() == 0 || ts.Placeholder() {
					fmt.Println(s.warning.Render("no pattern data, placeholder tiles will be used"))
				}

				return nil
			},
		},
		{
			Name:        "palettes",
			Usage:       "List palette presets and game palettes",
			Description: "",
			Action: func(c *cli.Context) error {
				fmt.Println(s.heading.Render("Presets"))
				for _, name := range palette.Presets() {
					p, _ := palette.Preset(name)
					fmt.Println(s.label.Render(name) + swatch(p))
				}

				fmt.Println(s.heading.Render("Games"))
				for _, name := range palette.Games() {
					sections, _ := palette.Game(name)
					for _, section := range sections {
						fmt.Println(s.label.Render(name) + swatch(section.Palette) + " " + section.Name)
					}
				}

				return nil
			},
		},
		{
			Name:        "tiles",
			Usage:       "Write every tile to a PNG sheet",
			Description: "",
			ArgsUsage:   "FILE OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "per-row",
					Value: 16,
					Usage: "tiles per row",
				},
				&cli.StringFlag{
					Name:  "palette",
					Value: "neutral",
					Usage: "palette preset",
				},
				&cli.IntFlag{
					Name:  "scale",
					Value: 1,
					Usage: "scale factor",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				data, _, err := loadPatterns(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				p, err := selectPalette(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				ts := chr.DecodeBytes(data)
				if ts.Len() == 0 {
					ts = chr.Placeholder()
				}

				m := screen.Scale(chr.Sheet(ts, c.Int("per-row"), p.Colors()), c.Int("scale"))
				if err := writePNG(c.Args().Get(1), m); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "tile",
			Usage:       "Show a single tile in the terminal",
			Description: "",
			ArgsUsage:   "FILE ID",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "palette",
					Value: "neutral",
					Usage: "palette preset",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				data, _, err := loadPatterns(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				id, err := strconv.Atoi(c.Args().Get(1))
				if err != nil {
					return cli.Exit(err, 1)
				}

				p, err := selectPalette(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				ts := chr.DecodeBytes(data)
				if ts.Len() == 0 {
					ts = chr.Placeholder()
				}

				fmt.Println(s.field("Tile", fmt.Sprintf("%d of %d", ts.Index(id), ts.Len())))
				fmt.Println(tile(ts.Tile(id), p))

				return nil
			},
		},
		{
			Name:        "render",
			Usage:       "Render frames to a directory of PNG files",
			Description: "",
			ArgsUsage:   "FILE DIRECTORY",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  "scale",
					Value: 1,
					Usage: "scale factor",
				},
				&cli.BoolFlag{
					Name:  "crt",
					Usage: "apply a CRT effect",
				},
			}, sceneFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				l, err := newLab(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				w, err := nesppu.NewPNGWriter(c.Args().Get(1))
				if err != nil {
					return cli.Exit(err, 1)
				}
				w.Scale = c.Int("scale")
				if c.Bool("crt") {
					crt := screen.DefaultCRT()
					w.CRT = &crt
				}

				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()

				if err := l.Record(ctx, l.NewSession(c.Uint64("seed")), c.Int("frames"), c.Int("workers"), w); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "record",
			Usage:       "Render frames into the frame archive",
			Description: "",
			ArgsUsage:   "FILE SESSION",
			Flags:       sceneFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				l, err := newLab(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				db, err := archive.Open(c.String("db"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				w, err := l.NewArchiveWriter(db, c.Args().Get(1), c.Uint64("seed"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()

				if err := l.Record(ctx, l.NewSession(c.Uint64("seed")), c.Int("frames"), c.Int("workers"), w); err != nil {
					return cli.Exit(err, 1)
				}

				n, err := db.Frames()
				if err != nil {
					return cli.Exit(err, 1)
				}
				fmt.Println(s.field("Stored", fmt.Sprintf("%d distinct frames", n)))

				return nil
			},
		},
		{
			Name:        "frame",
			Usage:       "Extract a recorded frame from the archive",
			Description: "",
			ArgsUsage:   "SESSION NUMBER OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 3 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				n, err := strconv.Atoi(c.Args().Get(1))
				if err != nil {
					return cli.Exit(err, 1)
				}

				db, err := archive.Open(c.String("db"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				session, err := db.FindSession(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				m, err := db.FindFrame(session.ID, n)
				if err != nil {
					return cli.Exit(err, 1)
				}
				if m == nil {
					return cli.Exit(fmt.Sprintf("no frame %d in session %q", n, session.Name), 1)
				}

				if err := writePNG(c.Args().Get(2), m); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "encode",
			Usage:       "Convert an image into pattern data",
			Description: "",
			ArgsUsage:   "IMAGE OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				f, err := os.Open(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer f.Close()

				m, _, err := image.Decode(f)
				if err != nil {
					return cli.Exit(err, 1)
				}

				out, err := os.Create(c.Args().Get(1))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer out.Close()

				if err := chr.Encode(out, m); err != nil {
					return cli.Exit(err, 1)
				}

				if err := out.Close(); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

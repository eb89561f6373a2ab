package main

import (
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	"io"
	"log"
	"os"

	"github.com/benjihan/pngtopi1"
	"github.com/benjihan/pngtopi1/stcolor"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func fillPolicy(s string) (stcolor.Fill, error) {
	switch s {
	case "zero":
		return stcolor.FillZero, nil
	case "left":
		return stcolor.FillLeft, nil
	case "full":
		return stcolor.FillFull, nil
	}
	return 0, fmt.Errorf("invalid --rgb mode %q (want zero, left or full)", s)
}

func main() {
	app := cli.NewApp()

	app.Name = "pngtopi1"
	app.Usage = "PNG to Atari ST Degas image converter (and reverse)"
	app.ArgsUsage = "INPUT [OUTPUT]"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "ste",
			Aliases: []string{"e"},
			Usage:   "use STe color quantization (4 bits per component)",
		},
		&cli.StringFlag{
			Name:    "rgb",
			EnvVars: []string{"PNGTOPI1_RGB"},
			Value:   "left",
			Usage:   "4-bit to 8-bit expansion policy: zero, left or full",
		},
		&cli.BoolFlag{
			Name:    "compress",
			Aliases: []string{"z"},
			Usage:   "force image compression (pc1, pc2 or pc3)",
		},
		&cli.BoolFlag{
			Name:    "raw",
			Aliases: []string{"r"},
			Usage:   "force raw image (pi1, pi2 or pi3)",
		},
		&cli.BoolFlag{
			Name:    "same-dir",
			Aliases: []string{"d"},
			Usage:   "automatic save path includes source path",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "print more messages",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "print less messages",
		},
	}

	app.Action = func(c *cli.Context) error {
		if c.NArg() < 1 || c.NArg() > 2 {
			cli.ShowAppHelpAndExit(c, 1)
		}

		fill, err := fillPolicy(c.String("rgb"))
		if err != nil {
			return cli.Exit(err, 1)
		}

		info := log.New(os.Stdout, "", 0)
		if c.Bool("quiet") {
			info.SetOutput(io.Discard)
		}
		debug := log.New(io.Discard, "", 0)
		if c.Bool("verbose") {
			debug.SetOutput(os.Stdout)
		}

		comp := pngtopi1.CompressAuto
		switch {
		case c.Bool("compress"):
			comp = pngtopi1.CompressRLE
		case c.Bool("raw"):
			comp = pngtopi1.CompressRaw
		}

		conv := pngtopi1.New(stcolor.Mode{STE: c.Bool("ste"), Fill: fill}, info, debug)
		if err := conv.Convert(c.Args().Get(0), c.Args().Get(1), comp, c.Bool("same-dir")); err != nil {
			return cli.Exit(err, 1)
		}

		return nil
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

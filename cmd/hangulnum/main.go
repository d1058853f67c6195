package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
	"hangulnum.local/internal/app/hangulnum"
	"hangulnum.local/internal/app/hangulnum/console"
	"hangulnum.local/internal/platform/logging"
)

var version = "dev"

func newApp(in io.Reader, out io.Writer, codec *hangulnum.Codec) *cli.App {
	return &cli.App{
		Name:      "hangulnum",
		Usage:     "Encode numbers as Hangul syllables (base-128, seeded) and back",
		Version:   version,
		Reader:    in,
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug | info | warn | error",
				Value: "warn",
			},
		},
		Before: func(c *cli.Context) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(c.String("log-level"))); err != nil {
				return cli.Exit(fmt.Sprintf("invalid --log-level %q", c.String("log-level")), 2)
			}
			logging.Setup(os.Stderr, level, "text", "hangulnum")
			return nil
		},
		// 不带子命令时进入交互模式
		Action: func(c *cli.Context) error {
			return console.RunREPL(c.App.Reader, c.App.Writer, codec)
		},
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "Encode a number (random seed unless --seed is given)",
				ArgsUsage: "NUMBER",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "seed", Aliases: []string{"s"}, Usage: "seed 0-127"},
				},
				Action: func(c *cli.Context) error {
					num, err := numberArg(c)
					if err != nil {
						return err
					}
					if !c.IsSet("seed") {
						fmt.Fprintln(c.App.Writer, codec.Encode(num))
						return nil
					}
					text, err := codec.EncodeWithSeed(num, c.Int("seed"))
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					fmt.Fprintln(c.App.Writer, text)
					return nil
				},
			},
			{
				Name:      "decode",
				Usage:     "Decode Hangul text back to a number",
				ArgsUsage: "TEXT",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("decode expects exactly one TEXT argument", 2)
					}
					num, seed, err := codec.DecodeSeed(c.Args().First())
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					slog.Debug("decoded", "seed", seed, "number", num)
					fmt.Fprintln(c.App.Writer, hangulnum.FormatNumber(num))
					return nil
				},
			},
			{
				Name:      "all",
				Usage:     "Print all 128 encodings of a number with round-trip checks",
				ArgsUsage: "NUMBER",
				Action: func(c *cli.Context) error {
					num, err := numberArg(c)
					if err != nil {
						return err
					}
					console.RenderTable(c.App.Writer, num, codec.Variants(num))
					return nil
				},
			},
			{
				Name:  "repl",
				Usage: "Interactive mode (default)",
				Action: func(c *cli.Context) error {
					return console.RunREPL(c.App.Reader, c.App.Writer, codec)
				},
			},
		},
	}
}

func numberArg(c *cli.Context) (uint64, error) {
	if c.NArg() != 1 {
		return 0, cli.Exit(c.Command.Name+" expects exactly one NUMBER argument", 2)
	}
	num, err := hangulnum.ParseNumber(c.Args().First())
	if err != nil {
		return 0, cli.Exit(err.Error(), 1)
	}
	return num, nil
}

func main() {
	if err := newApp(os.Stdin, os.Stdout, hangulnum.Default()).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

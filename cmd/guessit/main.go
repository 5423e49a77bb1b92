package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/shapedtime/guessit/internal/config"
	"github.com/shapedtime/guessit/internal/guess"
	"github.com/shapedtime/guessit/internal/logging"
	"github.com/shapedtime/guessit/internal/torrentinfo"
)

const (
	configFlag       = "config"
	jsonFlag         = "json"
	yamlFlag         = "yaml"
	showPropertyFlag = "show-property"
	singleValueFlag  = "single-value"
	enforceListFlag  = "enforce-list"
	advancedFlag     = "advanced"
	inputStringFlag  = "output-input-string"
	propertiesFlag   = "properties"
	valuesFlag       = "values"
	verboseFlag      = "verbose"
	inputFileFlag    = "input-file"
)

var version = "dev"

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Error().Err(err).Msg("guessit failed")
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "guessit",
		Usage:     "extract as much information as possible from a video filename",
		ArgsUsage: "[filename...]",
		Version:   version,
		Writer:    out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Value:   "./guessit.yaml",
				EnvVars: []string{"GUESSIT_CONFIG"},
				Usage:   "YAML configuration file",
			},
			&cli.BoolFlag{Name: jsonFlag, Aliases: []string{"j"}, Usage: "print results as JSON"},
			&cli.BoolFlag{Name: yamlFlag, Aliases: []string{"y"}, Usage: "print results as YAML"},
			&cli.StringFlag{Name: showPropertyFlag, Aliases: []string{"P"}, Usage: "print only the value of `PROPERTY`"},
			&cli.BoolFlag{Name: singleValueFlag, Aliases: []string{"s"}, Usage: "keep only the first value of each property"},
			&cli.BoolFlag{Name: enforceListFlag, Aliases: []string{"l"}, Usage: "report every property as a list"},
			&cli.BoolFlag{Name: advancedFlag, Aliases: []string{"a"}, Usage: "report spans, raw text and tags"},
			&cli.BoolFlag{Name: inputStringFlag, Aliases: []string{"i"}, Usage: "add the input string to the result"},
			&cli.BoolFlag{Name: propertiesFlag, Aliases: []string{"p"}, Usage: "list the properties that can be guessed"},
			&cli.BoolFlag{Name: valuesFlag, Aliases: []string{"V"}, Usage: "with --properties, list the known values"},
			&cli.BoolFlag{Name: verboseFlag, Aliases: []string{"v"}, Usage: "log at debug level"},
			&cli.StringFlag{Name: inputFileFlag, Aliases: []string{"f"}, Usage: "read filenames from `FILE`, one per line"},
		},
		Action: guessAction,
		Commands: []*cli.Command{
			serveCommand(),
			torrentCommand(),
		},
	}
}

// setup loads the configuration and the logger, then builds the guess API.
// Unless verbose, quiet runs log errors only.
func setup(c *cli.Context, quiet bool) (*config.Config, *guess.API, error) {
	cfg, err := config.Load(c.String(configFlag))
	if err != nil {
		return nil, nil, err
	}

	if c.Bool(verboseFlag) {
		cfg.Log.Debug = true
	}
	logging.Load(cfg.Log)
	if quiet && !c.Bool(verboseFlag) {
		logging.Quiet()
	}

	g, err := guess.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, g, nil
}

// options reads the per-call options, falling back to the configuration.
func options(c *cli.Context, g *guess.API) guess.Options {
	o := g.DefaultOptions()
	o.SingleValue = o.SingleValue || c.Bool(singleValueFlag)
	o.EnforceList = o.EnforceList || c.Bool(enforceListFlag)
	o.Advanced = o.Advanced || c.Bool(advancedFlag)
	o.OutputInputString = o.OutputInputString || c.Bool(inputStringFlag)
	return o
}

func guessAction(c *cli.Context) error {
	_, g, err := setup(c, true)
	if err != nil {
		return err
	}

	p := newPrinter(c)

	if c.Bool(propertiesFlag) {
		return p.properties(g.Properties(c.Bool(valuesFlag)), c.Bool(valuesFlag))
	}

	filenames := c.Args().Slice()
	if path := c.String(inputFileFlag); path != "" {
		fromFile, err := readLines(path)
		if err != nil {
			return err
		}
		filenames = append(filenames, fromFile...)
	}
	if len(filenames) == 0 {
		return cli.ShowAppHelp(c)
	}

	o := options(c, g)
	for _, name := range filenames {
		res, err := g.Guess(name, o)
		if err != nil {
			return err
		}
		if err := p.result(name, res); err != nil {
			return err
		}
	}
	return nil
}

func torrentCommand() *cli.Command {
	return &cli.Command{
		Name:      "torrent",
		Usage:     "guess every file of a .torrent file or magnet link",
		ArgsUsage: "<path|magnet>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: configFlag, Aliases: []string{"c"}, Value: "./guessit.yaml", Usage: "YAML configuration file"},
			&cli.BoolFlag{Name: jsonFlag, Aliases: []string{"j"}, Usage: "print results as JSON"},
			&cli.BoolFlag{Name: yamlFlag, Aliases: []string{"y"}, Usage: "print results as YAML"},
			&cli.StringFlag{Name: showPropertyFlag, Aliases: []string{"P"}, Usage: "print only the value of `PROPERTY`"},
			&cli.BoolFlag{Name: singleValueFlag, Aliases: []string{"s"}},
			&cli.BoolFlag{Name: enforceListFlag, Aliases: []string{"l"}},
			&cli.BoolFlag{Name: advancedFlag, Aliases: []string{"a"}},
			&cli.BoolFlag{Name: inputStringFlag, Aliases: []string{"i"}},
			&cli.BoolFlag{Name: verboseFlag, Aliases: []string{"v"}},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("torrent takes exactly one path or magnet link", 2)
			}

			_, g, err := setup(c, true)
			if err != nil {
				return err
			}

			files, err := torrentinfo.Files(c.Args().First())
			if err != nil {
				return err
			}

			p := newPrinter(c)
			o := options(c, g)
			for _, f := range files {
				res, err := g.Guess(f.Path, o)
				if err != nil {
					return err
				}
				if err := p.result(f.Path, res); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	var out []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		if line := strings.TrimSpace(s.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out, s.Err()
}

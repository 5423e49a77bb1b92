package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/goccy/go-yaml"
	"github.com/urfave/cli/v2"

	"github.com/shapedtime/guessit/internal/guess"
)

type format int

const (
	formatText format = iota
	formatJSON
	formatYAML
)

type printer struct {
	w        io.Writer
	format   format
	property string
}

func newPrinter(c *cli.Context) *printer {
	p := &printer{
		w:        c.App.Writer,
		property: c.String(showPropertyFlag),
	}
	switch {
	case c.Bool(yamlFlag):
		p.format = formatYAML
	case c.Bool(jsonFlag):
		p.format = formatJSON
	}
	return p
}

// result prints the guess of one filename.
func (p *printer) result(name string, res guess.Result) error {
	if p.property != "" {
		v, ok := res[p.property]
		if !ok {
			return nil
		}
		if p.format == formatText {
			_, err := fmt.Fprintln(p.w, v)
			return err
		}
		return p.encode(v)
	}

	if p.format == formatText {
		if _, err := fmt.Fprintf(p.w, "For: %s\nGuessIt found: ", name); err != nil {
			return err
		}
		return p.encodeJSON(res)
	}
	return p.encode(res)
}

// properties prints the property list, optionally with known values.
func (p *printer) properties(props map[string][]string, values bool) error {
	if p.format != formatText {
		return p.encode(props)
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := fmt.Fprintf(p.w, "%s\n", name); err != nil {
			return err
		}
		if !values {
			continue
		}
		for _, v := range props[name] {
			if _, err := fmt.Fprintf(p.w, "  [+] %s\n", v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *printer) encode(v any) error {
	if p.format == formatYAML {
		b, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(p.w, "%s---\n", b)
		return err
	}
	return p.encodeJSON(v)
}

func (p *printer) encodeJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}

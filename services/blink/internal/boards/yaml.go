//go:build !tinygo

package boards

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type boardFile struct {
	Boards []Board `yaml:"boards"`
}

// LoadYAML parses a board file and registers every board in it.
//
//	boards:
//	  - name: my-f28379d
//	    family: f2837xd
//	    gpio_max: 168
//	    led1: 31
//	    led2: 34
//	    clock: {source: xtal, osc_hz: 10000000, imult: 40, sysdiv: 2}
func LoadYAML(r io.Reader) ([]Board, error) {
	var f boardFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode boards: %w", err)
	}
	for _, b := range f.Boards {
		if err := Register(b); err != nil {
			return nil, err
		}
	}
	return f.Boards, nil
}

// LoadFile is LoadYAML on a path.
func LoadFile(path string) ([]Board, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read boards file %s: %w", path, err)
	}
	defer fh.Close()
	return LoadYAML(fh)
}

// Package config reads aggregator configuration files and hands each
// option to the plugin hooks.
//
// Two formats are understood. The line format has one option per line:
//
//	# comment
//	imgstrip link
//	maxarticles 200
//
// The YAML format is a single mapping with the same names:
//
//	imgstrip: none
//	maxarticles: 200
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Option is one name/value pair and where it was read from.
type Option struct {
	Name   string
	Value  string
	Source string
	Line   int
}

func (o Option) location() string {
	if o.Source == "" {
		return fmt.Sprintf("line %d", o.Line)
	}
	return fmt.Sprintf("%s:%d", o.Source, o.Line)
}

// Parse reads the line format. Names are lower-cased; the value is the
// rest of the line with surrounding space removed.
func Parse(r io.Reader) ([]Option, error) {
	var opts []Option
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		name, value := text, ""
		if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
			name, value = text[:i], text[i:]
		}
		opts = append(opts, Option{
			Name:  strings.ToLower(name),
			Value: strings.TrimSpace(value),
			Line:  line,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("config line %d: %w", line+1, err)
	}
	return opts, nil
}

// ParseYAML reads the YAML format, keeping document order.
func ParseYAML(r io.Reader) ([]Option, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config line %d: expected a mapping of options", root.Line)
	}
	opts := make([]Option, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("config line %d: option %q must have a scalar value", val.Line, key.Value)
		}
		opts = append(opts, Option{
			Name:  strings.ToLower(key.Value),
			Value: strings.TrimSpace(val.Value),
			Line:  key.Line,
		})
	}
	return opts, nil
}

// Load reads path, choosing the YAML format for .yaml and .yml files.
func Load(path string) ([]Option, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var opts []Option
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		opts, err = ParseYAML(f)
	default:
		opts, err = Parse(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i := range opts {
		opts[i].Source = path
	}
	return opts, nil
}

// Apply hands every option to fn in order. Options fn lets through
// (returns true for) are returned as unhandled. The first error stops
// the pass.
func Apply(opts []Option, fn func(name, value string) (bool, error)) ([]Option, error) {
	var unhandled []Option
	for _, o := range opts {
		cont, err := fn(o.Name, o.Value)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", o.location(), err)
		}
		if cont {
			unhandled = append(unhandled, o)
		}
	}
	return unhandled, nil
}

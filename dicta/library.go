package dicta

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Comcast/temple/core"
	"github.com/Comcast/temple/match"

	"github.com/jsccast/yaml"
)

// Library is a named, ordered collection of Dicta.
//
// Order matters: a Serial driver tries Dicta in order.
type Library struct {
	Name  string    `json:"name,omitempty" yaml:",omitempty"`
	Doc   string    `json:"doc,omitempty" yaml:",omitempty"`
	Dicta []*Dictum `json:"dicta"`
}

// ParseLibrary reads a Library from YAML (or JSON).
func ParseLibrary(src []byte) (*Library, error) {
	var l Library
	if err := yaml.Unmarshal(src, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// ReadLibrary reads a Library from a file.
func ReadLibrary(filename string) (*Library, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseLibraryFile(filename, bs)
}

// ParseLibraryFile parses a Library that was read from the given
// file.
//
// A Library without a name gets the file's base name (without its
// extension).  Each Dictum's Source is the filename.
func ParseLibraryFile(filename string, bs []byte) (*Library, error) {
	l, err := ParseLibrary(bs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if l.Name == "" {
		base := filepath.Base(filename)
		l.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	for _, d := range l.Dicta {
		if d != nil {
			d.Source = filename
		}
	}
	return l, nil
}

// Compile compiles every Dictum.
func (l *Library) Compile(ctx context.Context, interpreters InterpretersMap, r *match.Registry) error {
	for i, d := range l.Dicta {
		if d == nil {
			return fmt.Errorf("library %s: dictum %d is empty", l.Name, i)
		}
		if d.Name == "" {
			d.Name = fmt.Sprintf("%s/%d", l.Name, i)
		}
		if err := d.Compile(ctx, interpreters, r); err != nil {
			return fmt.Errorf("library %s: %w", l.Name, err)
		}
	}
	return nil
}

// Find returns the Dictum with the given name or nil.
func (l *Library) Find(name string) *Dictum {
	for _, d := range l.Dicta {
		if d != nil && d.Name == name {
			return d
		}
	}
	return nil
}

// Core returns the Dicta as core.Dicta.
func (l *Library) Core() []core.Dictum {
	acc := make([]core.Dictum, 0, len(l.Dicta))
	for _, d := range l.Dicta {
		if d != nil {
			acc = append(acc, d)
		}
	}
	return acc
}

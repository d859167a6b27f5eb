// Package taxonomy reads taxonomy definition files and seeds them into backends.
//
// A definition is a forest of named nodes, written as nested YAML (or JSON):
//
//	taxa:
//	  - name: Endopterygota
//	    children:
//	      - name: Coleoptera
//	      - name: Diptera
//
// Child order in the file is the order lookups report.
package taxonomy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/taxaquery/pkg/grammar"
	"github.com/aretw0/taxaquery/pkg/ports"
	"gopkg.in/yaml.v3"
)

// Node is one taxon of a definition file.
type Node struct {
	Name     string `yaml:"name" json:"name"`
	Children []Node `yaml:"children,omitempty" json:"children,omitempty"`
}

// File represents the structure of a taxonomy definition file.
type File struct {
	Taxa []Node `yaml:"taxa" json:"taxa"`
}

// Load reads a definition file (YAML or JSON, chosen by extension).
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	format := "yaml"
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		format = "json"
	}
	return Parse(data, format)
}

// Parse decodes a definition in the given format ("yaml" or "json") and validates it.
func Parse(data []byte, format string) (*File, error) {
	var f File
	switch format {
	case "json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse taxonomy json: %w", err)
		}
	case "yaml", "yml", "":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse taxonomy yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported taxonomy format %q", format)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks that every name is queryable and unique.
func (f *File) Validate() error {
	seen := make(map[string]bool)
	var walk func(nodes []Node) error
	walk = func(nodes []Node) error {
		for _, n := range nodes {
			if err := grammar.ValidName(n.Name); err != nil {
				return fmt.Errorf("invalid taxonomy: %w", err)
			}
			if seen[n.Name] {
				return fmt.Errorf("invalid taxonomy: duplicate taxon %q", n.Name)
			}
			seen[n.Name] = true
			if err := walk(n.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(f.Taxa)
}

// Edge is a (name, parent) pair; an empty Parent marks a root.
type Edge struct {
	Name   string
	Parent string
}

// Edges flattens the forest into pre-order edges, so every parent precedes its children.
func (f *File) Edges() []Edge {
	var edges []Edge
	var walk func(parent string, nodes []Node)
	walk = func(parent string, nodes []Node) {
		for _, n := range nodes {
			edges = append(edges, Edge{Name: n.Name, Parent: parent})
			walk(n.Name, n.Children)
		}
	}
	walk("", f.Taxa)
	return edges
}

// Seed registers every taxon of f in w, parents first. It returns the number of taxa written.
func Seed(ctx context.Context, w ports.TaxonomyWriter, f *File) (int, error) {
	edges := f.Edges()
	for i, e := range edges {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := w.AddTaxon(ctx, e.Name, e.Parent); err != nil {
			return i, fmt.Errorf("failed to seed %q: %w", e.Name, err)
		}
	}
	return len(edges), nil
}

// Package importer loads workspace seed files: WBS nodes, pricing classes
// and location factors described in JSON or YAML.
package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a seed file.
type ImportSchema struct {
	Nodes          []NodeImport     `json:"nodes" yaml:"nodes"`
	PricingClasses []ClassImport    `json:"pricing_classes,omitempty" yaml:"pricing_classes,omitempty"`
	Locations      []LocationImport `json:"locations,omitempty" yaml:"locations,omitempty"`
}

// NodeImport is one WBS node. A root names either a catalog discipline or a
// custom code; a child names its parent by ref and gets its code allocated.
type NodeImport struct {
	Ref         string  `json:"ref" yaml:"ref"`
	ParentRef   *string `json:"parent_ref,omitempty" yaml:"parent_ref,omitempty"`
	Discipline  string  `json:"discipline,omitempty" yaml:"discipline,omitempty"`
	Code        string  `json:"code,omitempty" yaml:"code,omitempty"`
	Name        string  `json:"name,omitempty" yaml:"name,omitempty"`
	NameID      string  `json:"name_id,omitempty" yaml:"name_id,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// ClassImport is a pricing class with its costs. Cost keys are node refs
// from the same file or codes of nodes already in the workspace.
type ClassImport struct {
	Code   string             `json:"code" yaml:"code"`
	Finish string             `json:"finish,omitempty" yaml:"finish,omitempty"`
	Costs  map[string]float64 `json:"costs,omitempty" yaml:"costs,omitempty"`
}

// LocationImport is one location factor row. Omitted factors default to 1.
type LocationImport struct {
	Code       string   `json:"code,omitempty" yaml:"code,omitempty"`
	Province   string   `json:"province" yaml:"province"`
	City       *string  `json:"city,omitempty" yaml:"city,omitempty"`
	Regional   *float64 `json:"regional_factor,omitempty" yaml:"regional_factor,omitempty"`
	Difficulty *float64 `json:"difficulty_factor,omitempty" yaml:"difficulty_factor,omitempty"`
}

// LoadImportSchema reads a seed file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ImportSchema
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &schema)
	default:
		err = json.Unmarshal(data, &schema)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}

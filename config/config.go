// Package config loads declarative machine definitions from YAML and
// compiles them into engine components. Definitions use string tags
// throughout; the compiled machine is string-keyed as well.
//
// A definition looks like:
//
//	name: tristate
//	variants: [off, low, high]
//	initial: off
//	cycle: [off, low, high]
//	transitions:
//	  - {on: toggle, from: off, to: low}
//	classify:
//	  default: weird
//	  ranges:
//	    - {lo: 0, hi: 1000, variant: small}
//	describe:
//	  off: "power off"
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/comalice/variantx/internal/ranges"
)

// RangeDef maps the half-open interval [Lo, Hi) to a variant name.
type RangeDef struct {
	Lo      int64  `json:"lo" yaml:"lo"`
	Hi      int64  `json:"hi" yaml:"hi"`
	Variant string `json:"variant" yaml:"variant"`
}

// ClassifyDef declares a classifier: ordered ranges plus the catch-all
// default variant.
type ClassifyDef struct {
	Default string     `json:"default" yaml:"default"`
	Ranges  []RangeDef `json:"ranges" yaml:"ranges"`
}

// TransitionDef declares one event transition.
type TransitionDef struct {
	On   string `json:"on" yaml:"on"`
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Definition is the complete declarative form of a variant machine.
type Definition struct {
	Name        string            `json:"name" yaml:"name"`
	Variants    []string          `json:"variants" yaml:"variants"`
	Initial     string            `json:"initial,omitempty" yaml:"initial,omitempty"`
	Cycle       []string          `json:"cycle,omitempty" yaml:"cycle,omitempty"`
	Transitions []TransitionDef   `json:"transitions,omitempty" yaml:"transitions,omitempty"`
	Classify    *ClassifyDef      `json:"classify,omitempty" yaml:"classify,omitempty"`
	Describe    map[string]string `json:"describe,omitempty" yaml:"describe,omitempty"`
}

// Load reads and parses a definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes a YAML definition and validates it.
func Parse(data []byte) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate validates the entire definition:
//   - Non-empty Name and Variants, no duplicate variant names
//   - Initial (when set), Cycle members, and transition endpoints all declared
//   - Transition event names non-empty
//   - Classify ranges non-empty, within declared variants, non-overlapping
//   - Describe (when set) exhaustive over Variants with no stray entries
func (d *Definition) Validate() error {
	if d.Name == "" {
		return errors.New("machine name is required")
	}
	if len(d.Variants) == 0 {
		return errors.New("variants list is required and cannot be empty")
	}

	declared := make(map[string]bool, len(d.Variants))
	for _, v := range d.Variants {
		if v == "" {
			return errors.New("variant name cannot be empty")
		}
		if declared[v] {
			return fmt.Errorf("duplicate variant %q", v)
		}
		declared[v] = true
	}

	if d.Initial != "" && !declared[d.Initial] {
		return fmt.Errorf("initial variant %q not declared", d.Initial)
	}

	for i, v := range d.Cycle {
		if !declared[v] {
			return fmt.Errorf("cycle member %d (%q) not declared", i, v)
		}
	}

	for i, tr := range d.Transitions {
		if tr.On == "" {
			return fmt.Errorf("transition %d: event name is required", i)
		}
		if !declared[tr.From] {
			return fmt.Errorf("transition %d: from %q not declared", i, tr.From)
		}
		if !declared[tr.To] {
			return fmt.Errorf("transition %d: to %q not declared", i, tr.To)
		}
	}

	if d.Classify != nil {
		if err := d.Classify.validate(declared); err != nil {
			return err
		}
	}

	if d.Describe != nil {
		for _, v := range d.Variants {
			if _, ok := d.Describe[v]; !ok {
				return fmt.Errorf("describe is missing variant %q", v)
			}
		}
		for k := range d.Describe {
			if !declared[k] {
				return fmt.Errorf("describe entry %q not declared", k)
			}
		}
	}

	return nil
}

func (c *ClassifyDef) validate(declared map[string]bool) error {
	if c.Default == "" {
		return errors.New("classify default is required")
	}
	if !declared[c.Default] {
		return fmt.Errorf("classify default %q not declared", c.Default)
	}

	spans := make([]ranges.Span[int64], len(c.Ranges))
	for i, r := range c.Ranges {
		if !declared[r.Variant] {
			return fmt.Errorf("classify range %d: variant %q not declared", i, r.Variant)
		}
		span := ranges.Span[int64]{Lo: r.Lo, Hi: r.Hi}
		if !span.Valid() {
			return fmt.Errorf("classify range %d: [%d, %d) is empty", i, r.Lo, r.Hi)
		}
		spans[i] = span
	}
	if i, j, overlap := ranges.FirstOverlap(spans); overlap {
		return fmt.Errorf("classify ranges %d and %d overlap", i, j)
	}
	return nil
}

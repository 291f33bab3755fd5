package config

import (
	"fmt"

	"github.com/comalice/variantx"
)

// Chart bundles the compiled engine components of a Definition. Classifier
// and Describe are nil when the definition omits the corresponding section.
type Chart struct {
	Name       string
	Set        *variantx.Set[string]
	Table      *variantx.Table[string, string]
	Classifier *variantx.Classifier[int64, string]
	Describe   *variantx.Dispatcher[string, string]
	Machine    *variantx.Machine[string, string, any]
}

// Compile builds the engine components from a validated definition.
// Constraints already checked by Validate are not re-reported here; the core
// builders enforce them again as a backstop.
func (d *Definition) Compile() (*Chart, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	sb := variantx.NewSet[string]()
	for _, v := range d.Variants {
		sb.Add(v, v)
	}
	set, err := sb.Build()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", d.Name, err)
	}

	tb := variantx.NewTable[string, string](set)
	if len(d.Cycle) > 0 {
		tb.Ring(d.Cycle...)
		if len(d.Cycle) == len(d.Variants) {
			tb.RequireCycle()
		}
	}
	for _, tr := range d.Transitions {
		tb.On(tr.On, tr.From, tr.To)
	}
	table, err := tb.Build()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", d.Name, err)
	}

	chart := &Chart{Name: d.Name, Set: set, Table: table}

	if d.Classify != nil {
		cb := variantx.NewClassifier[int64](set, d.Classify.Default)
		for _, r := range d.Classify.Ranges {
			cb.Range(r.Lo, r.Hi, r.Variant)
		}
		chart.Classifier, err = cb.Build()
		if err != nil {
			return nil, fmt.Errorf("compile %s classifier: %w", d.Name, err)
		}
	}

	if d.Describe != nil {
		db := variantx.NewDispatcher[string, string](set)
		for _, v := range d.Variants {
			db.Case(v, d.Describe[v])
		}
		chart.Describe, err = db.Build()
		if err != nil {
			return nil, fmt.Errorf("compile %s describe: %w", d.Name, err)
		}
	}

	initial := d.Initial
	if initial == "" {
		initial = d.Variants[0]
	}
	m, err := variantx.NewMachine[string, string, any](set, variantx.NewValue[string, any](initial))
	if err != nil {
		return nil, fmt.Errorf("compile %s machine: %w", d.Name, err)
	}
	chart.Machine = m.WithTable(table)

	return chart, nil
}

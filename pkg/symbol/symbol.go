// Package symbol provides the symbol table shared by every frame of a render.
// It supports:
// - Knob entries holding a scalar animation parameter
// - Constants entries holding material reflectance coefficients
// - Per-frame views that overlay knob values on an unchanged base table
package symbol

import (
	"fmt"
	"sort"
	"sync"
)

// Kind identifies what a symbol holds.
type Kind string

const (
	KindKnob      Kind = "knob"
	KindConstants Kind = "constants"
)

// Reflectance holds the ambient, diffuse and specular coefficients of one
// color channel.
type Reflectance struct {
	Ambient  float64
	Diffuse  float64
	Specular float64
}

// Constants is a material: one Reflectance per color channel.
type Constants struct {
	Red   Reflectance
	Green Reflectance
	Blue  Reflectance
}

// White is the material used by geometry commands that name none.
var White = Constants{
	Red:   Reflectance{Ambient: 0.2, Diffuse: 0.5, Specular: 0.5},
	Green: Reflectance{Ambient: 0.2, Diffuse: 0.5, Specular: 0.5},
	Blue:  Reflectance{Ambient: 0.2, Diffuse: 0.5, Specular: 0.5},
}

// Symbol is a single entry of the table. Value is meaningful for knobs,
// Constants for materials.
type Symbol struct {
	Kind      Kind
	Value     float64
	Constants Constants
}

// Lookup resolves knob values and materials by name.
// Table and View both implement it.
type Lookup interface {
	Knob(name string) (float64, bool)
	Constants(name string) (Constants, bool)
}

// Table is the base symbol table. It is filled while the command list is
// loaded and only read while frames render.
type Table struct {
	symbols map[string]Symbol
	mu      sync.RWMutex
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		symbols: make(map[string]Symbol),
	}
}

// SetKnob defines or updates a knob.
// It fails if name is already bound to a material.
func (t *Table) SetKnob(name string, value float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.symbols[name]; ok && s.Kind != KindKnob {
		return fmt.Errorf("symbol %q is %s, not a knob", name, s.Kind)
	}
	t.symbols[name] = Symbol{Kind: KindKnob, Value: value}
	return nil
}

// SetConstants defines a material. A material cannot be redefined.
func (t *Table) SetConstants(name string, c Constants) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.symbols[name]; ok {
		return fmt.Errorf("symbol %q already defined as %s", name, s.Kind)
	}
	t.symbols[name] = Symbol{Kind: KindConstants, Constants: c}
	return nil
}

// Get returns the symbol bound to name.
func (t *Table) Get(name string) (Symbol, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.symbols[name]
	return s, ok
}

// Has reports whether name is bound.
func (t *Table) Has(name string) bool {
	_, ok := t.Get(name)
	return ok
}

// Knob returns the static value of a knob.
func (t *Table) Knob(name string) (float64, bool) {
	s, ok := t.Get(name)
	if !ok || s.Kind != KindKnob {
		return 0, false
	}
	return s.Value, true
}

// Constants returns the material bound to name.
func (t *Table) Constants(name string) (Constants, bool) {
	s, ok := t.Get(name)
	if !ok || s.Kind != KindConstants {
		return Constants{}, false
	}
	return s.Constants, true
}

// Names returns the bound names in sorted order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.symbols))
	for name := range t.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bound names.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.symbols)
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() *Table {
	t.mu.RLock()
	defer t.mu.RUnlock()

	c := NewTable()
	for name, s := range t.symbols {
		c.symbols[name] = s
	}
	return c
}

package symbol

// View is a read-only frame snapshot: knob values from the overlay take
// precedence, everything else comes from the base table.
type View struct {
	base    *Table
	overlay map[string]float64
}

// NewView creates a view of base with the given knob values on top.
// The overlay is copied, so later changes by the caller are not observed.
func NewView(base *Table, overlay map[string]float64) *View {
	o := make(map[string]float64, len(overlay))
	for name, v := range overlay {
		o[name] = v
	}
	return &View{base: base, overlay: o}
}

// Knob returns the overlay value for name, or the base value if the frame
// does not set it. A name bound to a material in the base is never a knob,
// even when the overlay carries a value for it.
func (v *View) Knob(name string) (float64, bool) {
	if s, ok := v.base.Get(name); ok && s.Kind != KindKnob {
		return 0, false
	}
	if value, ok := v.overlay[name]; ok {
		return value, true
	}
	return v.base.Knob(name)
}

// Constants returns the material bound to name in the base table.
func (v *View) Constants(name string) (Constants, bool) {
	return v.base.Constants(name)
}

// Base returns the table the view reads through to.
func (v *View) Base() *Table {
	return v.base
}

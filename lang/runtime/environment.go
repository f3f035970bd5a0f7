package runtime

// A slot is the shared mutable box behind Shared value cells. It outlives
// every cell that references it.
type slot struct {
	v Value
}

// ValueCell is the storage discipline of a binding. An Owned cell holds its
// value directly and is replaced on assignment; a Shared cell references a
// mutable slot shared with other cells, so that assignments through any of
// them are observed by all.
type ValueCell struct {
	owned  Value
	shared *slot
}

// NewCell returns an Owned cell holding v.
func NewCell(v Value) ValueCell { return ValueCell{owned: v} }

// NewSharedCell returns a Shared cell around a fresh slot holding v.
func NewSharedCell(v Value) ValueCell { return ValueCell{shared: &slot{v: v}} }

// IsShared reports whether the cell is Shared.
func (c ValueCell) IsShared() bool { return c.shared != nil }

// Value returns the current value of the cell.
func (c ValueCell) Value() Value {
	if c.shared != nil {
		return c.shared.v
	}
	return c.owned
}

// An Environment maps names to value cells.
type Environment struct {
	vars map[string]ValueCell
}

// NewEnvironment returns an empty environment.
func NewEnvironment() Environment {
	return Environment{vars: make(map[string]ValueCell)}
}

// Get returns the cell bound to name.
func (e Environment) Get(name string) (ValueCell, bool) {
	c, ok := e.vars[name]
	return c, ok
}

// Has reports whether name is bound.
func (e Environment) Has(name string) bool {
	_, ok := e.vars[name]
	return ok
}

// Set binds name. If the name is already bound to a Shared cell, the
// shared slot is overwritten so every referencing cell observes the new
// value; otherwise the binding is replaced.
func (e Environment) Set(name string, c ValueCell) {
	if cur, ok := e.vars[name]; ok && cur.shared != nil {
		cur.shared.v = c.Value()
		return
	}
	e.vars[name] = c
}

// Define binds name to c unconditionally, replacing any existing cell
// without writing through shared slots. Used when building fresh
// environments (captured snapshots, parameter binding).
func (e Environment) Define(name string, c ValueCell) {
	e.vars[name] = c
}

// Each calls fn for every binding of the environment.
func (e Environment) Each(fn func(name string, c ValueCell)) {
	for name, c := range e.vars {
		fn(name, c)
	}
}

// Clone returns a copy of the environment. Shared cells keep referencing
// the same slots.
func (e Environment) Clone() Environment {
	cp := Environment{vars: make(map[string]ValueCell, len(e.vars))}
	for name, c := range e.vars {
		cp.vars[name] = c
	}
	return cp
}

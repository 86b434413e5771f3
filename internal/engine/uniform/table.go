// Package uniform resolves shader uniform names to stable integer IDs.
//
// A Table is built once at startup and handed to every pipeline component,
// so components never re-hash names per frame and hold no global state.
package uniform

// ID identifies a uniform in a Table. The zero ID is never assigned.
type ID int32

// Table maps uniform names to IDs and back.
type Table struct {
	ids   map[string]ID
	names []string
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		ids:   make(map[string]ID),
		names: []string{""},
	}
}

// Resolve returns the ID for name, assigning a new one on first use.
func (t *Table) Resolve(name string) ID {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := ID(len(t.names))
	t.ids[name] = id
	t.names = append(t.names, name)
	return id
}

// Lookup returns the ID for name without assigning one.
func (t *Table) Lookup(name string) (ID, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// Name returns the name registered for id, or "" if unknown.
func (t *Table) Name(id ID) string {
	if id <= 0 || int(id) >= len(t.names) {
		return ""
	}
	return t.names[id]
}

// Len returns the number of registered names.
func (t *Table) Len() int {
	return len(t.names) - 1
}

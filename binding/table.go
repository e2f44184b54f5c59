package binding

const maxTableSize = 1 << 28

// Table hands out dense uint32 handles for native values lent across the
// boundary. Freed slots are reused. Index 0 is never handed out so guests
// can treat it as a null handle.
type Table[T any] struct {
	entries []tableEntry[T]
	free    []uint32
}

type tableEntry[T any] struct {
	value T
	set   bool
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{
		entries: []tableEntry[T]{
			{set: false},
		},
	}
}

func (t *Table[T]) Add(entry T) uint32 {
	if len(t.free) > 0 {
		idx := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.entries[idx] = tableEntry[T]{value: entry, set: true}
		return idx
	}
	idx := uint32(len(t.entries))
	if idx >= maxTableSize {
		panic("table size exceeded")
	}
	t.entries = append(t.entries, tableEntry[T]{value: entry, set: true})
	return idx
}

func (t *Table[T]) Get(idx uint32) (T, bool) {
	var zero T
	if idx >= uint32(len(t.entries)) {
		return zero, false
	}
	entry := t.entries[idx]
	if !entry.set {
		return zero, false
	}
	return entry.value, true
}

func (t *Table[T]) Remove(idx uint32) (T, bool) {
	var zero T
	if idx >= uint32(len(t.entries)) {
		return zero, false
	}
	entry := t.entries[idx]
	if !entry.set {
		return zero, false
	}
	t.entries[idx] = tableEntry[T]{}
	t.free = append(t.free, idx)
	return entry.value, true
}

// Len reports the number of live entries.
func (t *Table[T]) Len() int {
	n := 0
	for _, e := range t.entries {
		if e.set {
			n++
		}
	}
	return n
}

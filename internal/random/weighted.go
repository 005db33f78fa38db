package random

// WeightedEntry pairs a value with a relative weight. Weights do not need to
// sum to anything in particular; fractional weights are fine.
type WeightedEntry[T any] struct {
	Value  T
	Weight float64
}

// WeightedTable draws values with probability proportional to their weight.
type WeightedTable[T any] struct {
	entries []WeightedEntry[T]
	total   float64
}

// NewWeightedTable builds a table from the given entries. Entries with
// non-positive weight are skipped.
func NewWeightedTable[T any](entries []WeightedEntry[T]) *WeightedTable[T] {
	t := &WeightedTable[T]{}
	for _, e := range entries {
		if e.Weight <= 0 {
			continue
		}
		t.entries = append(t.entries, e)
		t.total += e.Weight
	}
	return t
}

// Draw picks one entry. It scales a uniform roll by the total weight and
// walks the entries subtracting weights until the roll is spent, so rare
// entries with tiny weights keep their exact share.
func (t *WeightedTable[T]) Draw(r Roller) T {
	roll := r.Float64() * t.total
	for _, e := range t.entries {
		roll -= e.Weight
		if roll < 0 {
			return e.Value
		}
	}
	// Float rounding can leave roll at ~0 past the last entry.
	return t.entries[len(t.entries)-1].Value
}

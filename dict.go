package mist

// Dictionary is a finite multimap of name -> value pairs, iterated in
// whatever order the caller's backing store determines. The engine does
// not tie itself to any specific map implementation — it only needs
// this one iteration method.
type Dictionary interface {
	// Each calls fn once per (name, value) pair, in iteration order.
	Each(fn func(name, value string))
}

type dictPair struct{ name, value string }

// OrderedDict is an order-preserving Dictionary: a flat, append-only
// list of (name, value) pairs, as produced by the config-file loader
// and by directly-authored test fixtures.
type OrderedDict struct {
	pairs []dictPair
}

// Add appends one (name, value) pair, preserving insertion order even
// across repeated names.
func (d *OrderedDict) Add(name, value string) {
	d.pairs = append(d.pairs, dictPair{name, value})
}

// Each implements Dictionary.
func (d *OrderedDict) Each(fn func(name, value string)) {
	for _, p := range d.pairs {
		fn(p.name, p.value)
	}
}

// Len reports the number of (name, value) pairs in d.
func (d *OrderedDict) Len() int { return len(d.pairs) }

package emissions

// MaterialTable is an immutable ID index over material factors.
type MaterialTable struct {
	entries []MaterialFactor
	byID    map[string]int
}

// NewMaterialTable indexes factors by ID. The first entry wins when IDs
// repeat. The input slice is copied.
func NewMaterialTable(factors []MaterialFactor) *MaterialTable {
	t := &MaterialTable{
		entries: make([]MaterialFactor, 0, len(factors)),
		byID:    make(map[string]int, len(factors)),
	}
	for _, f := range factors {
		if _, dup := t.byID[f.ID]; dup {
			continue
		}
		t.byID[f.ID] = len(t.entries)
		t.entries = append(t.entries, f)
	}
	return t
}

// Lookup returns the factor with the given ID.
func (t *MaterialTable) Lookup(id string) (MaterialFactor, bool) {
	if t == nil {
		return MaterialFactor{}, false
	}
	i, ok := t.byID[id]
	if !ok {
		return MaterialFactor{}, false
	}
	return t.entries[i], true
}

// Factor returns the emission factor for id, or 0 when it is unknown.
func (t *MaterialTable) Factor(id string) float64 {
	f, _ := t.Lookup(id)
	return finite(f.Factor)
}

// All returns a copy of the entries in insertion order.
func (t *MaterialTable) All() []MaterialFactor {
	if t == nil {
		return nil
	}
	out := make([]MaterialFactor, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of distinct entries.
func (t *MaterialTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// TransportTable is an immutable ID index over vehicle factors.
type TransportTable struct {
	entries []TransportFactor
	byID    map[string]int
}

// NewTransportTable indexes factors by ID; first entry wins on duplicates.
func NewTransportTable(factors []TransportFactor) *TransportTable {
	t := &TransportTable{
		entries: make([]TransportFactor, 0, len(factors)),
		byID:    make(map[string]int, len(factors)),
	}
	for _, f := range factors {
		if _, dup := t.byID[f.ID]; dup {
			continue
		}
		t.byID[f.ID] = len(t.entries)
		t.entries = append(t.entries, f)
	}
	return t
}

// Lookup returns the vehicle factor with the given ID.
func (t *TransportTable) Lookup(id string) (TransportFactor, bool) {
	if t == nil {
		return TransportFactor{}, false
	}
	i, ok := t.byID[id]
	if !ok {
		return TransportFactor{}, false
	}
	return t.entries[i], true
}

// Factor returns the kgCO2e per tonne-km for id, or 0 when it is unknown.
func (t *TransportTable) Factor(id string) float64 {
	f, _ := t.Lookup(id)
	return finite(f.Factor)
}

// All returns a copy of the entries in insertion order.
func (t *TransportTable) All() []TransportFactor {
	if t == nil {
		return nil
	}
	out := make([]TransportFactor, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of distinct entries.
func (t *TransportTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

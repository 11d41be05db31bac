package domain

// Value is a single cell value. Concrete dynamic types are string, the
// numeric families (int, int64, float64), or nil.
type Value = interface{}

// Record is one row of a Table: attribute values indexed by column name.
type Record map[string]Value

// Table is an ordered sequence of records sharing a schema, plus the name of
// the column that uniquely identifies each record.
type Table struct {
	Columns []string
	Rows    []Record
	Key     string
}

// Column reports whether name is one of the table's declared columns.
func (t *Table) Column(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AttrPair is one entry of an attribute correspondence: a left-table column
// paired with the right-table column it corresponds to.
type AttrPair struct {
	Left  string
	Right string
}

// Correspondence is an ordered list of attribute pairs relating ltable's
// schema to rtable's schema. The correspondence returned by align.Align
// always includes the key pair; a user-supplied one need not.
type Correspondence []AttrPair

// CandidatePair is one entry of the input candidate set, expressed as the
// left/right record keys produced by an upstream blocker.
type CandidatePair struct {
	LeftKey  Value
	RightKey Value
}

// IndexPair is a candidate pair translated into positional indices into
// ltable.Rows and rtable.Rows respectively.
type IndexPair struct {
	Left  int
	Right int
}

// ScoredPair is one emitted result: a candidate pair excluded by the
// upstream blocker, scored by token-set Jaccard similarity.
type ScoredPair struct {
	Similarity float64
	Left       int
	Right      int
}

// Package models defines the data shapes shared across marketdash
package models

// Row is a single record destined for a tabular sink. Values are carried as
// text uniformly; the relational sink stores every column as a text type.
type Row map[string]string

// RetentionPolicy caps the number of rows kept per partition value, trimmed
// by recency according to a sort column. The policy is only enforceable when
// both MaxRowsPerPartition and SortColumn are set.
type RetentionPolicy struct {
	MaxRowsPerPartition int
	SortColumn          string
	PartitionColumn     string
}

// Enforceable reports whether the policy is complete enough to trim rows.
func (p *RetentionPolicy) Enforceable() bool {
	return p != nil && p.MaxRowsPerPartition > 0 && p.SortColumn != ""
}

// TableSpec declares a relational table up front: its name, the full ordered
// column list, the composite primary key, and an optional retention policy.
// Declaring the schema here, rather than inferring it from whichever batch
// happens to arrive first, is what lets the store reject schema drift.
type TableSpec struct {
	Name       string
	Columns    []string
	PrimaryKey []string
	Retention  *RetentionPolicy
}

// HasColumn reports whether the spec declares the named column.
func (s *TableSpec) HasColumn(name string) bool {
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// NonKeyColumns returns the declared columns that are not part of the
// primary key, in declaration order.
func (s *TableSpec) NonKeyColumns() []string {
	keys := make(map[string]bool, len(s.PrimaryKey))
	for _, k := range s.PrimaryKey {
		keys[k] = true
	}
	var cols []string
	for _, c := range s.Columns {
		if !keys[c] {
			cols = append(cols, c)
		}
	}
	return cols
}

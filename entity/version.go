package entity

import "github.com/fastnate-go/seedgen/registry"

// Version behaves exactly like Primitive on insert; it additionally knows
// how to render its own optimistic-lock bump for UPDATE statements (spec
// §4.5: "identical to Primitive for insert; participates in UPDATE
// statements as col = col + 1 semantics").
type Version struct {
	*Primitive
}

// NewVersion builds a Version property around the same descriptor shape a
// Primitive uses.
func NewVersion(desc *Primitive) *Version {
	return &Version{Primitive: desc}
}

var _ Property = (*Version)(nil)

// UpdateExpression returns the "col = col + 1" fragment for this version
// column, quoted per dialect.
func (v *Version) UpdateExpression(columnQuoter func(string) string) string {
	col := columnQuoter(v.column.Name)
	return col + " = " + col + " + 1"
}

// Column exposes the canonicalized column for callers building UPDATEs.
func (v *Version) Column() *registry.Column { return v.column }

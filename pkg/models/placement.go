package models

// ForeignKeyPlacement is the schema directive derived from a reconciled
// recommendation. Exactly one of the simple-FK fields or JunctionTable is set.
// Serialized field names are part of the stable output contract.
type ForeignKeyPlacement struct {
	ForeignKeyTable  string `json:"foreignKeyTable,omitempty"`
	ForeignKeyColumn string `json:"foreignKeyColumn,omitempty"`
	ReferencesTable  string `json:"referencesTable,omitempty"`
	ReferencesColumn string `json:"referencesColumn,omitempty"`

	JunctionTable *JunctionTable `json:"junctionTable,omitempty"`
}

// IsJunction reports whether the directive synthesizes a junction table.
func (p *ForeignKeyPlacement) IsJunction() bool {
	return p.JunctionTable != nil
}

// JunctionTable defines a synthetic table representing a many-to-many
// relationship. Its columns form a composite primary key.
type JunctionTable struct {
	Name    string           `json:"name"`
	Columns []JunctionColumn `json:"columns"`
}

// JunctionColumn is one foreign-key column of a junction table.
type JunctionColumn struct {
	Name             string `json:"name"`
	ReferencesTable  string `json:"referencesTable"`
	ReferencesColumn string `json:"referencesColumn"`
}

package inventory

import "strings"

// Record is one warehouse entry: where it is, what it is, and a free-text note.
// Records carry no identity; duplicates are allowed and the store is append-only.
type Record struct {
	Location    string `json:"location"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Field names a record attribute eligible for substring matching.
type Field string

const (
	FieldLocation    Field = "location"
	FieldName        Field = "name"
	FieldDescription Field = "description"
)

// SearchFields is the default searchable-field set for lookups.
var SearchFields = []Field{FieldName, FieldDescription}

// NewRecord builds a record with surrounding whitespace trimmed from every field.
func NewRecord(location, name, description string) Record {
	return Record{
		Location:    strings.TrimSpace(location),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
}

// field returns the value of the named field.
func (r Record) field(f Field) string {
	switch f {
	case FieldLocation:
		return r.Location
	case FieldName:
		return r.Name
	case FieldDescription:
		return r.Description
	}
	return ""
}

// Matches reports whether the lowercased query is a substring of the
// lowercased value of at least one of the given fields.
func (r Record) Matches(query string, fields []Field) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(r.field(f)), q) {
			return true
		}
	}
	return false
}

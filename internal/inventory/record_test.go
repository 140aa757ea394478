package inventory

import (
	"context"
	"testing"
)

func TestNewRecordTrimsFields(t *testing.T) {
	rec := NewRecord("  A1_001 ", " Болт М8\t", " запасной ")

	if rec.Location != "A1_001" {
		t.Errorf("expected trimmed location, got %q", rec.Location)
	}
	if rec.Name != "Болт М8" {
		t.Errorf("expected trimmed name, got %q", rec.Name)
	}
	if rec.Description != "запасной" {
		t.Errorf("expected trimmed description, got %q", rec.Description)
	}
}

func TestMatches(t *testing.T) {
	rec := NewRecord("A1_001", "Болт М8", "запасной крепёж")

	tests := []struct {
		name     string
		query    string
		fields   []Field
		expected bool
	}{
		{
			name:     "exact name",
			query:    "Болт М8",
			fields:   SearchFields,
			expected: true,
		},
		{
			name:     "case insensitive substring",
			query:    "болт",
			fields:   SearchFields,
			expected: true,
		},
		{
			name:     "description substring",
			query:    "крепёж",
			fields:   SearchFields,
			expected: true,
		},
		{
			name:     "location not searchable by default",
			query:    "A1_001",
			fields:   SearchFields,
			expected: false,
		},
		{
			name:     "location searchable when requested",
			query:    "a1_001",
			fields:   []Field{FieldLocation},
			expected: true,
		},
		{
			name:     "no match",
			query:    "гайка",
			fields:   SearchFields,
			expected: false,
		},
		{
			name:     "empty query never matches",
			query:    "   ",
			fields:   SearchFields,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rec.Matches(tt.query, tt.fields); got != tt.expected {
				t.Errorf("Matches(%q) = %v, want %v", tt.query, got, tt.expected)
			}
		})
	}
}

func TestMemStorePreservesOrder(t *testing.T) {
	store := NewMemStore(
		NewRecord("A1", "первый", ""),
		NewRecord("B2", "второй", ""),
	)

	if err := store.Append(context.Background(), NewRecord("C3", "третий", "")); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	records, err := store.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	want := []string{"первый", "второй", "третий"}
	for i, name := range want {
		if records[i].Name != name {
			t.Errorf("record %d: expected %q, got %q", i, name, records[i].Name)
		}
	}
}

func TestRowsToRecords(t *testing.T) {
	rows := [][]interface{}{
		{" A1 ", " Болт ", " крепёж "},
		{"B2", "Гайка"},
		{"", "", ""},
		{"C3"},
	}

	records := rowsToRecords(rows)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	if records[0].Location != "A1" || records[0].Name != "Болт" || records[0].Description != "крепёж" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].Description != "" {
		t.Errorf("short row should pad description, got %q", records[1].Description)
	}
	if records[2].Name != "" || records[2].Location != "C3" {
		t.Errorf("unexpected third record: %+v", records[2])
	}
}

package models

import "testing"

func TestMonthKeyNavigation(t *testing.T) {
	tests := []struct {
		name string
		from MonthKey
		prev MonthKey
		next MonthKey
	}{
		{"mid-year", MonthKey{2024, 6}, MonthKey{2024, 5}, MonthKey{2024, 7}},
		{"january rolls back", MonthKey{2024, 1}, MonthKey{2023, 12}, MonthKey{2024, 2}},
		{"december rolls forward", MonthKey{2024, 12}, MonthKey{2024, 11}, MonthKey{2025, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.Prev(); got != tt.prev {
				t.Errorf("Prev() = %v, want %v", got, tt.prev)
			}
			if got := tt.from.Next(); got != tt.next {
				t.Errorf("Next() = %v, want %v", got, tt.next)
			}
		})
	}
}

func TestMonthKeyString(t *testing.T) {
	if got := (MonthKey{2024, 3}).String(); got != "2024-03" {
		t.Errorf("String() = %q, want %q", got, "2024-03")
	}
	if got := (MonthKey{987, 12}).String(); got != "0987-12" {
		t.Errorf("String() = %q, want %q", got, "0987-12")
	}
}

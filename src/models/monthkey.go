package models

import "fmt"

// MonthKey addresses one calendar month of trade data.
type MonthKey struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 1-12
}

// Prev returns the preceding month, rolling the year back at January.
func (k MonthKey) Prev() MonthKey {
	if k.Month == 1 {
		return MonthKey{Year: k.Year - 1, Month: 12}
	}
	return MonthKey{Year: k.Year, Month: k.Month - 1}
}

// Next returns the following month, rolling the year forward at December.
func (k MonthKey) Next() MonthKey {
	if k.Month == 12 {
		return MonthKey{Year: k.Year + 1, Month: 1}
	}
	return MonthKey{Year: k.Year, Month: k.Month + 1}
}

// String renders the key as YYYY-MM, usable as a cache or dedup key.
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
}

package refnum

import (
	"fmt"
	"strconv"
	"strings"
)

// Reference numbers look like "2025-01-0042": year, month, and a
// per-month sequence. They are unique across the ledger (enforced by
// the store) and sortable within a month.

// Format returns a reference number like "2025-01-0042".
func Format(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%04d", year, month, seq)
}

// Parse splits a reference number into year, month and sequence.
func Parse(ref string) (year, month, seq int, err error) {
	parts := strings.SplitN(ref, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid reference format: %q", ref)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in reference %q: %w", ref, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in reference %q: %w", ref, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("month out of range in reference %q", ref)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in reference %q: %w", ref, err)
	}

	return year, month, seq, nil
}

// MonthPrefix returns the "2025-01-" prefix for a year and month,
// usable in range queries for the month's references.
func MonthPrefix(year, month int) string {
	return fmt.Sprintf("%04d-%02d-", year, month)
}

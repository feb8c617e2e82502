package report

import (
	"fmt"
	"time"
)

// Granularity selects the period length for periodized reports.
type Granularity string

const (
	Monthly   Granularity = "monthly"
	Quarterly Granularity = "quarterly"
	Yearly    Granularity = "yearly"
)

func (g Granularity) months() (int, error) {
	switch g {
	case Monthly:
		return 1, nil
	case Quarterly:
		return 3, nil
	case Yearly:
		return 12, nil
	default:
		return 0, fmt.Errorf("unknown granularity %q", g)
	}
}

// Period is a closed date interval within a periodized report.
type Period struct {
	Start time.Time
	End   time.Time
}

// Periods partitions [start, end] into consecutive non-overlapping
// periods anchored at start. Each period spans the granularity's
// number of months, the last is clipped so its end equals end, and the
// periods tile the range with no gaps or overlaps.
func Periods(start, end time.Time, g Granularity) ([]Period, error) {
	months, err := g.months()
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("invalid range: end %s before start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	var periods []Period
	cursor := start
	for !cursor.After(end) {
		next := cursor.AddDate(0, months, 0)
		periodEnd := next.AddDate(0, 0, -1)
		if periodEnd.After(end) {
			periodEnd = end
		}
		periods = append(periods, Period{Start: cursor, End: periodEnd})
		cursor = periodEnd.AddDate(0, 0, 1)
	}
	return periods, nil
}

package pipeline

import (
	"fmt"
	"time"
)

// Period specifiers accepted by batch analysis and digest creation.
const (
	PeriodLatest     = "latest" // most recent episode per podcast
	PeriodDay        = "day"
	PeriodWeek       = "week"
	PeriodTwoWeeks   = "2weeks"
	PeriodThreeWeeks = "3weeks"
	PeriodMonth      = "month"
	PeriodCustom     = "custom"
)

// PeriodName maps a specifier to its display prefix for digest titles.
var PeriodName = map[string]string{
	PeriodLatest:     "Latest",
	PeriodDay:        "Daily",
	PeriodWeek:       "Weekly",
	PeriodTwoWeeks:   "Fortnightly",
	PeriodThreeWeeks: "3-Week",
	PeriodMonth:      "Monthly",
	PeriodCustom:     "Custom",
}

// ResolvePeriod turns a period specifier into a date window. For "latest"
// both bounds are nil and latest is true: the caller selects the single
// newest episode per podcast instead of a window.
func ResolvePeriod(period string, startDate, endDate *time.Time) (start, end *time.Time, latest bool, err error) {
	now := time.Now().UTC()

	switch period {
	case PeriodLatest:
		return nil, nil, true, nil
	case PeriodCustom:
		end := now
		if endDate != nil {
			end = *endDate
		}
		return startDate, &end, false, nil
	case PeriodDay:
		s := now.AddDate(0, 0, -1)
		return &s, &now, false, nil
	case PeriodWeek:
		s := now.AddDate(0, 0, -7)
		return &s, &now, false, nil
	case PeriodTwoWeeks:
		s := now.AddDate(0, 0, -14)
		return &s, &now, false, nil
	case PeriodThreeWeeks:
		s := now.AddDate(0, 0, -21)
		return &s, &now, false, nil
	case PeriodMonth:
		s := now.AddDate(0, 0, -30)
		return &s, &now, false, nil
	default:
		return nil, nil, false, fmt.Errorf("unknown period %q", period)
	}
}

// ResolveDigestPeriod is the digest variant: "latest" means the last 24
// hours and a custom window defaults to the last week.
func ResolveDigestPeriod(period string, startDate, endDate *time.Time) (time.Time, time.Time) {
	now := time.Now().UTC()

	switch period {
	case PeriodCustom:
		start := now.AddDate(0, 0, -7)
		if startDate != nil {
			start = *startDate
		}
		end := now
		if endDate != nil {
			end = *endDate
		}
		return start, end
	case PeriodLatest, PeriodDay:
		return now.AddDate(0, 0, -1), now
	case PeriodWeek:
		return now.AddDate(0, 0, -7), now
	case PeriodTwoWeeks:
		return now.AddDate(0, 0, -14), now
	case PeriodThreeWeeks:
		return now.AddDate(0, 0, -21), now
	case PeriodMonth:
		return now.AddDate(0, 0, -30), now
	default:
		return now.AddDate(0, 0, -7), now
	}
}

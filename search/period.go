package search

import (
	"fmt"
	"strings"
	"time"

	"cvedex/core"
)

// Period is a timeline bucket granularity
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod parses a period name. Empty input selects month.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodMonth, nil
	case PeriodDay, PeriodWeek, PeriodMonth:
		return p, nil
	default:
		return "", core.InvalidArgumentf("period must be one of day, week, month")
	}
}

// Bucket is one group of vulnerabilities sharing a calendar key. Only the
// key parts of the bucket's period are set; week buckets use the ISO
// week-numbering year in Year. AvgScore is nil when no member has a score.
type Bucket struct {
	Year     int      `json:"year" bson:"year"`
	Month    int      `json:"month,omitempty" bson:"month,omitempty"`
	Day      int      `json:"day,omitempty" bson:"day,omitempty"`
	Week     int      `json:"week,omitempty" bson:"week,omitempty"`
	Count    int      `json:"count" bson:"count"`
	AvgScore *float64 `json:"avgScore" bson:"avgScore"`
}

// BucketKey returns the zero-count bucket t falls into, in UTC.
func BucketKey(t time.Time, p Period) Bucket {
	t = t.UTC()
	switch p {
	case PeriodDay:
		return Bucket{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
	case PeriodWeek:
		y, w := t.ISOWeek()
		return Bucket{Year: y, Week: w}
	default:
		return Bucket{Year: t.Year(), Month: int(t.Month())}
	}
}

// Label formats a bucket key: 2006-01-02 for days, 2006-W01 for weeks and
// 2006-01 for months.
func (b Bucket) Label(p Period) string {
	switch p {
	case PeriodDay:
		return fmt.Sprintf("%04d-%02d-%02d", b.Year, b.Month, b.Day)
	case PeriodWeek:
		return fmt.Sprintf("%04d-W%02d", b.Year, b.Week)
	default:
		return fmt.Sprintf("%04d-%02d", b.Year, b.Month)
	}
}

// Less orders buckets chronologically by (year, month, day, week).
func (b Bucket) Less(o Bucket) bool {
	if b.Year != o.Year {
		return b.Year < o.Year
	}
	if b.Month != o.Month {
		return b.Month < o.Month
	}
	if b.Day != o.Day {
		return b.Day < o.Day
	}
	return b.Week < o.Week
}

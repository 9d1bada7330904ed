package service

import (
	"encoding/json"
	"strconv"
	"time"

	"cvedex/core"
)

// statsMonths is the fixed length of a per-entity timeline
const statsMonths = 12

// SeverityDistribution counts records per severity band. Every band is
// always present.
type SeverityDistribution struct {
	Critical int `json:"CRITICAL"`
	High     int `json:"HIGH"`
	Medium   int `json:"MEDIUM"`
	Low      int `json:"LOW"`
	None     int `json:"NONE"`
}

// Add counts one record in band s
func (d *SeverityDistribution) Add(s core.Severity) {
	switch s {
	case core.SeverityCritical:
		d.Critical++
	case core.SeverityHigh:
		d.High++
	case core.SeverityMedium:
		d.Medium++
	case core.SeverityLow:
		d.Low++
	default:
		d.None++
	}
}

// AvgScore is a mean score that serializes as a two-decimal string, or as
// the number 0 when no record carried a score.
type AvgScore struct {
	Value float64
	Valid bool
}

// String formats the score with two decimals, or "0".
func (a AvgScore) String() string {
	if !a.Valid {
		return "0"
	}
	return strconv.FormatFloat(a.Value, 'f', 2, 64)
}

// MarshalJSON implements json.Marshaler
func (a AvgScore) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("0"), nil
	}
	return json.Marshal(a.String())
}

// MonthCount is one month of a per-entity timeline.
type MonthCount struct {
	Month string `json:"month" example:"2024-03"`
	Count int    `json:"count"`
}

// VersionStats summarizes a product's own version list.
type VersionStats struct {
	Affected    int `json:"affected"`
	NotAffected int `json:"notAffected"`
	Total       int `json:"total"`
}

// EntityStats is the recomputed statistics view of one vendor or product.
// CachedCount is the entity's stored counter, reported as is next to the
// recomputed distribution.
type EntityStats struct {
	Name                 string               `json:"name"`
	Vendor               string               `json:"vendor,omitempty"`
	CachedCount          int                  `json:"cachedCount"`
	ProductCount         *int                 `json:"productCount,omitempty"`
	FirstSeen            *time.Time           `json:"firstSeen"`
	LastSeen             *time.Time           `json:"lastSeen"`
	SeverityDistribution SeverityDistribution `json:"severityDistribution"`
	AvgScore             AvgScore             `json:"avgScore" swaggertype:"string" example:"8.50"`
	Timeline             []MonthCount         `json:"timeline"`
	VersionStats         *VersionStats        `json:"versionStats,omitempty"`
}

// computeEntityStats fills the distribution, average and monthly timeline
// from the associated records. Only score and published date are read.
func computeEntityStats(stats *EntityStats, vulns []core.Vulnerability, now time.Time) {
	var (
		sum    float64
		scored int
	)
	for i := range vulns {
		score := vulns[i].CVSSScore
		stats.SeverityDistribution.Add(core.Classify(score))
		if score != nil && *score > 0 {
			sum += *score
			scored++
		}
	}
	if scored > 0 {
		stats.AvgScore = AvgScore{Value: sum / float64(scored), Valid: true}
	}
	stats.Timeline = monthlyTimeline(vulns, now)
}

// monthlyTimeline always returns statsMonths entries, starting at the
// calendar month one year before now. Months without records count zero.
func monthlyTimeline(vulns []core.Vulnerability, now time.Time) []MonthCount {
	now = now.UTC()
	start := time.Date(now.Year()-1, now.Month(), 1, 0, 0, 0, 0, time.UTC)

	out := make([]MonthCount, statsMonths)
	for i := range out {
		from := start.AddDate(0, i, 0)
		to := from.AddDate(0, 1, 0)
		out[i].Month = from.Format("2006-01")
		for j := range vulns {
			p := vulns[j].PublishedDate
			if p != nil && !p.Before(from) && p.Before(to) {
				out[i].Count++
			}
		}
	}
	return out
}

func versionStats(versions []core.VersionStatus) *VersionStats {
	vs := &VersionStats{Total: len(versions)}
	for _, v := range versions {
		if v.Affected {
			vs.Affected++
		} else {
			vs.NotAffected++
		}
	}
	return vs
}

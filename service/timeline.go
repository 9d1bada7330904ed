package service

import (
	"math"
	"sort"

	"cvedex/search"
)

const (
	// DefaultTimelineLimit is the bucket count returned when none is given
	DefaultTimelineLimit = 12
	// MaxTimelineLimit caps the bucket count
	MaxTimelineLimit = 60
)

// TimelinePoint is one populated period of the global timeline.
type TimelinePoint struct {
	Period   string   `json:"period" example:"2024-03"`
	Count    int      `json:"count" example:"42"`
	AvgScore *float64 `json:"avgScore" example:"6.73"`
}

// mostRecentBuckets selects the limit latest populated buckets and returns
// them oldest first. Empty periods are never synthesized: a period with no
// records is simply absent.
func mostRecentBuckets(buckets []search.Bucket, period search.Period, limit int) []TimelinePoint {
	if limit <= 0 {
		limit = DefaultTimelineLimit
	}

	sorted := make([]search.Bucket, 0, len(buckets))
	for _, b := range buckets {
		if b.Count > 0 {
			sorted = append(sorted, b)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].Less(sorted[i])
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]TimelinePoint, len(sorted))
	for i, b := range sorted {
		p := TimelinePoint{Period: b.Label(period), Count: b.Count}
		if b.AvgScore != nil {
			avg := round2(*b.AvgScore)
			p.AvgScore = &avg
		}
		out[len(sorted)-1-i] = p
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

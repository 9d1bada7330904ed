package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"cvedex/core"
)

// Number is a score bound that accepts either a JSON number or a numeric
// string.
type Number float64

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		if math.IsNaN(f) {
			// no bound, same as an empty string
			f = 0
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Criteria is the sparse input of an advanced search. Only non-empty
// fields contribute to the compiled predicate.
type Criteria struct {
	CVEID       *string `json:"cveId,omitempty" example:"CVE-2021"`
	Description *string `json:"description,omitempty" example:"remote code execution"`
	Vendor      *string `json:"vendor,omitempty" example:"Apache"`
	Product     *string `json:"product,omitempty" example:"log4j"`
	Severity    *string `json:"severity,omitempty" example:"HIGH"`
	MinCVSS     *Number `json:"minCvss,omitempty" swaggertype:"number" example:"8"`
	MaxCVSS     *Number `json:"maxCvss,omitempty" swaggertype:"number" example:"10"`
	MinScore    *Number `json:"minScore,omitempty" swaggertype:"number"`
	MaxScore    *Number `json:"maxScore,omitempty" swaggertype:"number"`
	StartDate   *string `json:"startDate,omitempty" example:"2021-01-01"`
	EndDate     *string `json:"endDate,omitempty" example:"2021-12-31"`
	CWEID       *string `json:"cweId,omitempty" example:"CWE-502"`
}

// IsEmpty reports whether no key was supplied at all.
func (c Criteria) IsEmpty() bool {
	return c.CVEID == nil && c.Description == nil && c.Vendor == nil && c.Product == nil &&
		c.Severity == nil && c.MinCVSS == nil && c.MaxCVSS == nil && c.MinScore == nil && c.MaxScore == nil &&
		c.StartDate == nil && c.EndDate == nil && c.CWEID == nil
}

// Compile turns criteria into one AND-composed vulnerability predicate.
// Substring keys become case-insensitive contains conditions. The score
// bound is assembled from the severity band, then minCvss replaces its
// lower inclusive slot and maxCvss its upper inclusive slot. Criteria whose
// supplied keys are all blank compile to nil, which matches everything.
func Compile(c Criteria) (*ASTNode, error) {
	if c.IsEmpty() {
		return nil, core.InvalidArgumentf("search criteria must not be empty")
	}

	var conds []*ASTNode
	addContains := func(field string, v *string) {
		if s := str(v); s != "" {
			conds = append(conds, Cond(field, OpContains, s))
		}
	}

	addContains(FieldCVEID, c.CVEID)
	addContains(FieldDescription, c.Description)
	addContains(FieldAffectedVendorNm, c.Vendor)
	addContains(FieldAffectedProdNm, c.Product)

	conds = append(conds, scoreConditions(c)...)

	if s := str(c.StartDate); s != "" {
		t, err := ParseDate(s)
		if err != nil {
			return nil, core.InvalidArgumentf("startDate: %v", err)
		}
		conds = append(conds, Cond(FieldPublishedDate, OpGTE, t))
	}
	if s := str(c.EndDate); s != "" {
		t, err := ParseDate(s)
		if err != nil {
			return nil, core.InvalidArgumentf("endDate: %v", err)
		}
		conds = append(conds, Cond(FieldPublishedDate, OpLTE, t))
	}

	addContains(FieldCWEID, c.CWEID)

	return And(conds...), nil
}

func scoreConditions(c Criteria) []*ASTNode {
	var r core.ScoreRange
	if s := str(c.Severity); s != "" {
		if band, ok := core.LabelToRange(s); ok {
			r = band
		}
	}
	if lo := firstNonZero(c.MinCVSS, c.MinScore); lo != nil {
		r.GTE = lo
	}
	if hi := firstNonZero(c.MaxCVSS, c.MaxScore); hi != nil {
		r.LTE = hi
	}
	return ScoreRangeConditions(r)
}

// ScoreRangeConditions emits one score condition per set slot.
func ScoreRangeConditions(r core.ScoreRange) []*ASTNode {
	var conds []*ASTNode
	if r.GT != nil {
		conds = append(conds, Cond(FieldCVSSScore, OpGT, *r.GT))
	}
	if r.GTE != nil {
		conds = append(conds, Cond(FieldCVSSScore, OpGTE, *r.GTE))
	}
	if r.LT != nil {
		conds = append(conds, Cond(FieldCVSSScore, OpLT, *r.LT))
	}
	if r.LTE != nil {
		conds = append(conds, Cond(FieldCVSSScore, OpLTE, *r.LTE))
	}
	return conds
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate accepts RFC 3339 timestamps or plain calendar dates, read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// firstNonZero returns the first supplied non-zero bound. minScore and
// maxScore are aliases of minCvss and maxCvss.
func firstNonZero(nums ...*Number) *float64 {
	for _, n := range nums {
		if n != nil && *n != 0 {
			return core.Float(float64(*n))
		}
	}
	return nil
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

package cmd

import (
	"fmt"
	"io"
	"strings"

	"cvedex/core"
	"cvedex/search"
	"cvedex/service"

	"github.com/fatih/color"
)

const tableWidth = 100

// renderGlobalSearch displays the three result lists of a global search
func renderGlobalSearch(w io.Writer, term string, res *service.GlobalSearchResult) {
	headerColor.Fprintf(w, "SEARCH %q\n", term)
	headerColor.Fprintln(w, strings.Repeat("=", tableWidth))
	fmt.Fprintf(w, "Matches: %d vulnerabilities, %d vendors, %d products (page %d of %d)\n\n",
		res.Counts.Vulnerabilities, res.Counts.Vendors, res.Counts.Products,
		res.Pagination.Page, res.Pagination.TotalPages)

	if res.Counts.Total == 0 {
		warningColor.Fprintln(w, "No matches")
		return
	}

	if len(res.Results.Vulnerabilities) > 0 {
		infoColor.Fprintln(w, "Vulnerabilities")
		renderVulnerabilityRows(w, res.Results.Vulnerabilities)
		fmt.Fprintln(w)
	}
	if len(res.Results.Vendors) > 0 {
		infoColor.Fprintln(w, "Vendors")
		fmt.Fprintf(w, "%-26s %-40s %-8s %-8s\n", "ID", "Name", "CVEs", "Products")
		fmt.Fprintln(w, strings.Repeat("-", tableWidth))
		for _, v := range res.Results.Vendors {
			fmt.Fprintf(w, "%-26s %-40s %-8d %-8d\n", v.ID, truncate(v.Name, 40), v.CVECount, v.ProductCount)
		}
		fmt.Fprintln(w)
	}
	if len(res.Results.Products) > 0 {
		infoColor.Fprintln(w, "Products")
		fmt.Fprintf(w, "%-26s %-34s %-28s %-8s\n", "ID", "Name", "Vendor", "CVEs")
		fmt.Fprintln(w, strings.Repeat("-", tableWidth))
		for _, p := range res.Results.Products {
			fmt.Fprintf(w, "%-26s %-34s %-28s %-8d\n", p.ID, truncate(p.Name, 34), truncate(p.Vendor.Name, 28), p.CVECount)
		}
	}
}

// renderVulnerabilityPage displays one page of vulnerabilities
func renderVulnerabilityPage(w io.Writer, page *service.Page[core.Vulnerability]) {
	if len(page.Items) == 0 {
		warningColor.Fprintln(w, "No vulnerabilities match")
		return
	}
	headerColor.Fprintln(w, "VULNERABILITIES")
	headerColor.Fprintln(w, strings.Repeat("=", tableWidth))
	renderVulnerabilityRows(w, page.Items)
	fmt.Fprintf(w, "\nPage %d of %d, %d total\n", page.Pagination.Page, page.Pagination.TotalPages, page.Pagination.Total)
}

func renderVulnerabilityRows(w io.Writer, vs []core.Vulnerability) {
	fmt.Fprintf(w, "%-18s %-10s %-6s %-12s %s\n", "CVE", "Severity", "Score", "Published", "Description")
	fmt.Fprintln(w, strings.Repeat("-", tableWidth))
	for _, v := range vs {
		fmt.Fprintf(w, "%-18s %-10s %-6s %-12s %s\n",
			v.CVEID, formatSeverity(v.Severity), formatScore(v.CVSSScore), formatDate(v), truncate(v.Description, 48))
	}
}

// renderVulnerability displays one vulnerability with its affected products
func renderVulnerability(w io.Writer, v *core.Vulnerability) {
	headerColor.Fprintln(w, v.CVEID)
	headerColor.Fprintln(w, strings.Repeat("=", tableWidth))
	fmt.Fprintf(w, "Severity:   %s (%s)\n", formatSeverity(v.Severity), formatScore(v.CVSSScore))
	fmt.Fprintf(w, "Published:  %s\n", formatDate(*v))
	if v.CVSSVector != "" {
		fmt.Fprintf(w, "Vector:     %s\n", v.CVSSVector)
	}
	fmt.Fprintf(w, "\n%s\n", v.Description)

	if len(v.AffectedProducts) == 0 {
		return
	}
	fmt.Fprintln(w)
	infoColor.Fprintln(w, "Affected products")
	for _, ap := range v.AffectedProducts {
		fmt.Fprintf(w, "  - %s / %s\n", ap.VendorName, ap.ProductName)
	}
}

// renderSuggestions displays each requested suggestion kind
func renderSuggestions(w io.Writer, s *service.Suggestions) {
	if s.Vulnerabilities != nil {
		infoColor.Fprintln(w, "CVEs")
		for _, v := range *s.Vulnerabilities {
			fmt.Fprintf(w, "  %s\n", v.CVEID)
		}
	}
	if s.Vendors != nil {
		infoColor.Fprintln(w, "Vendors")
		for _, v := range *s.Vendors {
			fmt.Fprintf(w, "  %-40s %s\n", v.Name, v.ID)
		}
	}
	if s.Products != nil {
		infoColor.Fprintln(w, "Products")
		for _, p := range *s.Products {
			fmt.Fprintf(w, "  %-40s %-28s %s\n", p.Name, p.VendorName, p.ID)
		}
	}
}

// renderTimeline draws one bar per bucket scaled to the largest count
func renderTimeline(w io.Writer, period search.Period, points []service.TimelinePoint) {
	if len(points) == 0 {
		warningColor.Fprintln(w, "No published vulnerabilities")
		return
	}

	headerColor.Fprintf(w, "TIMELINE (%s)\n", period)
	headerColor.Fprintln(w, strings.Repeat("=", tableWidth))

	maxCount := 0
	for _, p := range points {
		if p.Count > maxCount {
			maxCount = p.Count
		}
	}
	const barWidth = 50
	for _, p := range points {
		n := p.Count * barWidth / maxCount
		if n == 0 {
			n = 1
		}
		fmt.Fprintf(w, "%-10s %6d  avg %-5s %s\n", p.Period, p.Count, formatScore(p.AvgScore), successColor.Sprint(strings.Repeat("█", n)))
	}
}

// renderEntityStats displays the per-entity statistics block
func renderEntityStats(w io.Writer, kind string, s *service.EntityStats) {
	title := s.Name
	if s.Vendor != "" {
		title = s.Vendor + " / " + s.Name
	}
	headerColor.Fprintf(w, "%s %s\n", kind, title)
	headerColor.Fprintln(w, strings.Repeat("=", tableWidth))

	fmt.Fprintf(w, "CVEs (cached):  %d\n", s.CachedCount)
	if s.ProductCount != nil {
		fmt.Fprintf(w, "Products:       %d\n", *s.ProductCount)
	}
	fmt.Fprintf(w, "Average score:  %s\n", s.AvgScore)
	if s.FirstSeen != nil {
		fmt.Fprintf(w, "First seen:     %s\n", s.FirstSeen.Format("2006-01-02"))
	}
	if s.LastSeen != nil {
		fmt.Fprintf(w, "Last seen:      %s\n", s.LastSeen.Format("2006-01-02"))
	}

	fmt.Fprintln(w)
	infoColor.Fprintln(w, "Severity distribution")
	d := s.SeverityDistribution
	for _, row := range []struct {
		sev core.Severity
		n   int
	}{
		{core.SeverityCritical, d.Critical},
		{core.SeverityHigh, d.High},
		{core.SeverityMedium, d.Medium},
		{core.SeverityLow, d.Low},
		{core.SeverityNone, d.None},
	} {
		fmt.Fprintf(w, "  %-10s %d\n", formatSeverity(row.sev), row.n)
	}

	if s.VersionStats != nil {
		fmt.Fprintln(w)
		infoColor.Fprintln(w, "Versions")
		fmt.Fprintf(w, "  %d affected, %d not affected, %d total\n",
			s.VersionStats.Affected, s.VersionStats.NotAffected, s.VersionStats.Total)
	}

	fmt.Fprintln(w)
	infoColor.Fprintln(w, "Last 12 months")
	for _, m := range s.Timeline {
		fmt.Fprintf(w, "  %s  %d\n", m.Month, m.Count)
	}
}

// formatSeverity colors a severity label
func formatSeverity(s core.Severity) string {
	switch s {
	case core.SeverityCritical:
		return color.New(color.FgRed, color.Bold).Sprint(s)
	case core.SeverityHigh:
		return color.New(color.FgRed).Sprint(s)
	case core.SeverityMedium:
		return color.New(color.FgYellow).Sprint(s)
	case core.SeverityLow:
		return color.New(color.FgGreen).Sprint(s)
	default:
		return string(s)
	}
}

func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *score)
}

func formatDate(v core.Vulnerability) string {
	if v.PublishedDate == nil {
		return "-"
	}
	return v.PublishedDate.Format("2006-01-02")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

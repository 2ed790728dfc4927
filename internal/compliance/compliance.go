// Package compliance computes impervious coverage of a site from the
// session's shapes.
package compliance

import (
	"fmt"
	"math"

	"github.com/mdi/siteplan/internal/shape"
)

// DefaultMaxAllowedPercent is used when no valid threshold is configured.
const DefaultMaxAllowedPercent = 40.0

// Status is the pass/fail verdict against the threshold.
type Status string

const (
	StatusOK      Status = "OK"
	StatusExceeds Status = "Exceeds"
)

// Summary is the full coverage report. Areas are in square real-world units.
type Summary struct {
	SiteArea          float64 `json:"siteArea"`
	ImperviousArea    float64 `json:"imperviousArea"`
	CoveragePercent   float64 `json:"coveragePercent"`
	MaxAllowedPercent float64 `json:"maxAllowedPercent"`
	Status            Status  `json:"status"`
}

// Compute sums site and impervious areas and compares coverage with
// maxAllowedPercent. Equality passes. With no site area coverage is 0.
func Compute(shapes []*shape.Shape, maxAllowedPercent float64) Summary {
	var site, impervious float64
	for _, s := range shapes {
		switch s.Category.Class() {
		case shape.ClassSite:
			site += s.Area()
		case shape.ClassImpervious:
			impervious += s.Area()
		}
	}

	var percent float64
	if site > 0 {
		percent = impervious / site * 100
	}

	status := StatusOK
	if percent > maxAllowedPercent {
		status = StatusExceeds
	}

	return Summary{
		SiteArea:          site,
		ImperviousArea:    impervious,
		CoveragePercent:   percent,
		MaxAllowedPercent: maxAllowedPercent,
		Status:            status,
	}
}

// SiteAreaText is the rounded site area, e.g. "1000".
func (s Summary) SiteAreaText() string {
	return fmt.Sprintf("%d", int64(math.Round(s.SiteArea)))
}

// ImperviousAreaText is the rounded impervious area.
func (s Summary) ImperviousAreaText() string {
	return fmt.Sprintf("%d", int64(math.Round(s.ImperviousArea)))
}

// PercentText is the coverage with one decimal, e.g. "45.0%".
func (s Summary) PercentText() string {
	return fmt.Sprintf("%.1f%%", s.CoveragePercent)
}

package domain

import (
	"strings"
	"time"
)

// CycleStats holds statistics about one discovery-and-qualification cycle.
type CycleStats struct {
	CycleID     string
	StartedAt   time.Time
	Keywords    int
	Discovered  int
	Unique      int
	Stored      int
	Duplicates  int
	StoreErrors int
	Tenants     []TenantStats
	Duration    time.Duration
}

// TenantStats holds per-tenant results of a cycle.
type TenantStats struct {
	TenantID    int64
	TenantName  string
	Unprocessed int
	Matched     int
	Analyzed    int
	Qualified   int
	Failed      bool
}

// Qualified sums qualified leads across tenants.
func (s *CycleStats) Qualified() int {
	total := 0
	for _, t := range s.Tenants {
		total += t.Qualified
	}
	return total
}

// FailedTenants counts tenants whose processing was aborted.
func (s *CycleStats) FailedTenants() int {
	n := 0
	for _, t := range s.Tenants {
		if t.Failed {
			n++
		}
	}
	return n
}

// NormalizeKeyword trims and lower-cases a keyword; keywords shorter than two characters normalize to "".
func NormalizeKeyword(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if len([]rune(s)) < 2 {
		return ""
	}
	return s
}

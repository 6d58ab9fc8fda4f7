package builder

import (
	"sort"
	"strings"
	"time"

	"github.com/resumeforge/resumeforge/internal/resume"
)

type Filter string

const (
	FilterAll    Filter = "all"
	FilterRecent Filter = "recent"
	FilterOldest Filter = "oldest"
)

// RecentWindow is how far back "recent" looks at updated_at.
const RecentWindow = 7 * 24 * time.Hour

// ParseFilter maps a query value to a Filter; unknown values mean all.
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterRecent:
		return FilterRecent
	case FilterOldest:
		return FilterOldest
	}
	return FilterAll
}

// Stats backs the dashboard cards.
type Stats struct {
	Total          int `json:"total"`
	WithEducation  int `json:"with_education"`
	WithExperience int `json:"with_experience"`
}

func statsOf(recs []*resume.Record) Stats {
	st := Stats{Total: len(recs)}
	for _, r := range recs {
		if len(r.Education) > 0 {
			st.WithEducation++
		}
		if len(r.Experience) > 0 {
			st.WithExperience++
		}
	}
	return st
}

type DashboardView struct {
	Resumes []*resume.Record
	Stats   Stats
}

type DashboardQuery struct {
	Search string
	Filter Filter
}

// apply filters recs, which arrive newest created first, without modifying
// the input slice.
func (q DashboardQuery) apply(recs []*resume.Record, now time.Time) []*resume.Record {
	term := strings.ToLower(q.Search)
	cutoff := now.Add(-RecentWindow)
	out := make([]*resume.Record, 0, len(recs))
	for _, r := range recs {
		if !strings.Contains(strings.ToLower(r.PersonalInfo.FullName), term) {
			continue
		}
		if q.Filter == FilterRecent && !r.UpdatedAt.After(cutoff) {
			continue
		}
		out = append(out, r)
	}
	if q.Filter == FilterOldest {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	}
	return out
}

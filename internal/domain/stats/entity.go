package stats

// Growth compares a window against the preceding window of equal length.
type Growth struct {
	Current  int     `json:"current"`
	Previous int     `json:"previous"`
	Rate     float64 `json:"rate"`
}

// GrowthRate returns the percentage change from prev to cur. A previous
// window of zero yields 100 when anything was added and 0 otherwise.
func GrowthRate(cur, prev int) float64 {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	return float64(cur-prev) / float64(prev) * 100
}

func NewGrowth(cur, prev int) Growth {
	return Growth{Current: cur, Previous: prev, Rate: GrowthRate(cur, prev)}
}

type Totals struct {
	Users            int            `json:"users"`
	UsersByRole      map[string]int `json:"users_by_role"`
	Profiles         int            `json:"profiles"`
	Jobs             int            `json:"jobs"`
	JobsByState      map[string]int `json:"jobs_by_state"`
	Requests         int            `json:"requests"`
	RequestsByStatus map[string]int `json:"requests_by_status"`
	Ratings          int            `json:"ratings"`
	Messages         int            `json:"messages"`
	AverageRating    float64        `json:"average_rating"`
}

type Admin struct {
	Totals       Totals `json:"totals"`
	UserGrowth7  Growth `json:"user_growth_7d"`
	UserGrowth30 Growth `json:"user_growth_30d"`
	JobGrowth7   Growth `json:"job_growth_7d"`
	JobGrowth30  Growth `json:"job_growth_30d"`
}

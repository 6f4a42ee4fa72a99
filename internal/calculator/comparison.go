package calculator

import (
	"sort"

	"github.com/mmynk/duitraya/internal/models"
)

// YearTotal is the budget of a single planning year.
type YearTotal struct {
	Year             int
	TotalBudget      int64
	TotalDistributed int64
}

// CompareYears groups eligible receivers by year and sums their budget and
// distributed amounts. Years are returned in ascending order. A year only
// appears if at least one eligible receiver falls in it.
func CompareYears(receivers []*models.Receiver) []YearTotal {
	totals := make(map[int]*YearTotal)

	for _, r := range receivers {
		if !r.Eligible {
			continue
		}

		total, exists := totals[r.Year]
		if !exists {
			total = &YearTotal{Year: r.Year}
			totals[r.Year] = total
		}

		amount := r.TotalAmount()
		total.TotalBudget += amount
		if r.Received {
			total.TotalDistributed += amount
		}
	}

	years := make([]YearTotal, 0, len(totals))
	for _, total := range totals {
		years = append(years, *total)
	}
	sort.Slice(years, func(i, j int) bool {
		return years[i].Year < years[j].Year
	})

	return years
}

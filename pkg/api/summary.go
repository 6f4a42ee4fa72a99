package api

// NoteCount is the number of cash notes of one denomination needed for the
// planned packets. Counts can be fractional when a packet amount is not a
// multiple of its denomination.
type NoteCount struct {
	Denomination   int     `json:"denomination"`
	TotalNotes     float64 `json:"totalNotes"`
	RemainingNotes float64 `json:"remainingNotes"`
}

type GetSummaryRequest struct {
	Year *int `json:"year,omitempty"`
}

type GetSummaryResponse struct {
	TotalPlanned     int64        `json:"totalPlanned"`
	TotalDistributed int64        `json:"totalDistributed"`
	Balance          int64        `json:"balance"`
	NotesBreakdown   []*NoteCount `json:"notesBreakdown"`
}

// YearTotal is one row of the yearly comparison.
type YearTotal struct {
	Year             int   `json:"year"`
	TotalBudget      int64 `json:"totalBudget"`
	TotalDistributed int64 `json:"totalDistributed"`
}

type GetYearlyComparisonRequest struct{}

type GetYearlyComparisonResponse struct {
	Years []*YearTotal `json:"years"`
}

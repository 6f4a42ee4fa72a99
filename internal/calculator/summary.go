package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/duitraya/internal/models"
)

// NoteCount is how many notes of one denomination the plan needs.
type NoteCount struct {
	Denomination   int
	TotalNotes     float64 // Notes needed for every eligible receiver
	RemainingNotes float64 // Notes still needed for receivers not yet handed out
}

// Summary is the aggregate view of a set of receivers.
type Summary struct {
	TotalPlanned     int64
	TotalDistributed int64
	Balance          int64 // TotalPlanned - TotalDistributed
	NotesBreakdown   []NoteCount
}

type noteTally struct {
	total     decimal.Decimal
	remaining decimal.Decimal
}

// Summarize reduces receivers into planned/distributed totals and a
// per-denomination note breakdown.
//
// Algorithm:
// - Skip ineligible receivers entirely
// - amount = recipient_count × amount_per_packet, added to planned, and to distributed if received
// - notes = recipient_count × (amount_per_packet / denomination), added to the denomination's total,
//   and to its remaining count if not received
// - Breakdown sorted by denomination ascending
//
// Note counts are not rounded. A packet amount that doesn't divide evenly by
// its denomination yields a fractional count (RM15 in RM10 notes is 1.5 notes
// per packet). Sums are kept in decimal so those fractions don't drift.
//
// The input is not modified.
func Summarize(receivers []*models.Receiver) Summary {
	var summary Summary
	tallies := make(map[int]*noteTally)

	for _, r := range receivers {
		if !r.Eligible {
			continue
		}

		amount := r.TotalAmount()
		summary.TotalPlanned += amount
		if r.Received {
			summary.TotalDistributed += amount
		}

		tally, exists := tallies[r.Denomination]
		if !exists {
			tally = &noteTally{}
			tallies[r.Denomination] = tally
		}

		notes := NotesFor(r)
		tally.total = tally.total.Add(notes)
		if !r.Received {
			tally.remaining = tally.remaining.Add(notes)
		}
	}

	summary.Balance = summary.TotalPlanned - summary.TotalDistributed

	summary.NotesBreakdown = make([]NoteCount, 0, len(tallies))
	for denomination, tally := range tallies {
		summary.NotesBreakdown = append(summary.NotesBreakdown, NoteCount{
			Denomination:   denomination,
			TotalNotes:     tally.total.InexactFloat64(),
			RemainingNotes: tally.remaining.InexactFloat64(),
		})
	}
	sort.Slice(summary.NotesBreakdown, func(i, j int) bool {
		return summary.NotesBreakdown[i].Denomination < summary.NotesBreakdown[j].Denomination
	})

	return summary
}

// NotesFor returns the number of notes needed to fill every packet of r.
// A receiver with a non-positive denomination needs no notes; such rows can
// only come from data written outside this service.
func NotesFor(r *models.Receiver) decimal.Decimal {
	if r.Denomination <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(r.TotalAmount()).Div(decimal.NewFromInt(int64(r.Denomination)))
}

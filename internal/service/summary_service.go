package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/duitraya/internal/calculator"
	"github.com/mmynk/duitraya/internal/storage"
	"github.com/mmynk/duitraya/pkg/api"
)

// SummaryService implements the SummaryService RPC interface.
type SummaryService struct {
	store  storage.ReceiverStore
	logger *slog.Logger
}

// NewSummaryService creates a summary service.
func NewSummaryService(store storage.ReceiverStore, logger *slog.Logger) *SummaryService {
	return &SummaryService{store: store, logger: logger}
}

// GetSummary totals the caller's eligible receivers, optionally for one year.
func (s *SummaryService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	receivers, err := s.store.ListReceivers(ctx, storage.ReceiverFilter{
		OwnerID:      userID,
		Year:         req.Msg.Year,
		EligibleOnly: true,
	})
	if err != nil {
		s.logger.Error("GetSummary failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	summary := calculator.Summarize(receivers)

	breakdown := make([]*api.NoteCount, len(summary.NotesBreakdown))
	for i, n := range summary.NotesBreakdown {
		breakdown[i] = &api.NoteCount{
			Denomination:   n.Denomination,
			TotalNotes:     n.TotalNotes,
			RemainingNotes: n.RemainingNotes,
		}
	}

	return connect.NewResponse(&api.GetSummaryResponse{
		TotalPlanned:     summary.TotalPlanned,
		TotalDistributed: summary.TotalDistributed,
		Balance:          summary.Balance,
		NotesBreakdown:   breakdown,
	}), nil
}

// GetYearlyComparison returns budget and distributed totals per year.
func (s *SummaryService) GetYearlyComparison(ctx context.Context, req *connect.Request[api.GetYearlyComparisonRequest]) (*connect.Response[api.GetYearlyComparisonResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	receivers, err := s.store.ListReceivers(ctx, storage.ReceiverFilter{
		OwnerID:      userID,
		EligibleOnly: true,
	})
	if err != nil {
		s.logger.Error("GetYearlyComparison failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	totals := calculator.CompareYears(receivers)
	years := make([]*api.YearTotal, len(totals))
	for i, t := range totals {
		years[i] = &api.YearTotal{
			Year:             t.Year,
			TotalBudget:      t.TotalBudget,
			TotalDistributed: t.TotalDistributed,
		}
	}

	return connect.NewResponse(&api.GetYearlyComparisonResponse{Years: years}), nil
}

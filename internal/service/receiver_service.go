package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/duitraya/internal/events"
	"github.com/mmynk/duitraya/internal/models"
	"github.com/mmynk/duitraya/internal/storage"
	"github.com/mmynk/duitraya/pkg/api"
)

// ErrReceiverNotFound is returned for missing receivers and for receivers
// owned by someone else alike.
var ErrReceiverNotFound = errors.New("receiver not found")

// ReceiverService implements the ReceiverService RPC interface.
type ReceiverService struct {
	store       storage.ReceiverStore
	emitter     *events.Emitter
	defaultYear int
	logger      *slog.Logger
}

// NewReceiverService creates a receiver service. New receivers without an
// explicit year are planned for defaultYear.
func NewReceiverService(store storage.ReceiverStore, emitter *events.Emitter, defaultYear int, logger *slog.Logger) *ReceiverService {
	if emitter == nil {
		emitter = events.NewEmitter(nil, nil, logger)
	}
	return &ReceiverService{
		store:       store,
		emitter:     emitter,
		defaultYear: defaultYear,
		logger:      logger,
	}
}

// CreateReceiver adds a receiver for the caller, filling unset fields with
// the defaults.
func (s *ReceiverService) CreateReceiver(ctx context.Context, req *connect.Request[api.CreateReceiverRequest]) (*connect.Response[api.CreateReceiverResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateReceiver request received", "user_id", userID, "name", req.Msg.Name)

	receiver := models.NewReceiver(userID, req.Msg.Name, s.defaultYear)
	patch := models.ReceiverPatch{
		RecipientCount:  req.Msg.RecipientCount,
		AmountPerPacket: req.Msg.AmountPerPacket,
		Denomination:    req.Msg.Denomination,
		Eligible:        req.Msg.Eligible,
		Received:        req.Msg.Received,
		Year:            req.Msg.Year,
	}
	if req.Msg.Kind != nil {
		kind := models.Kind(*req.Msg.Kind)
		patch.Kind = &kind
	}
	patch.Apply(receiver)
	receiver.Normalize()

	if err := receiver.Validate(); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.store.CreateReceiver(ctx, receiver); err != nil {
		s.logger.Error("CreateReceiver failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.emitter.Emit(ctx, events.NewReceiverEvent(events.ReceiverCreated, receiver))
	s.logger.Info("Receiver created", "receiver_id", receiver.ID, "year", receiver.Year)

	return connect.NewResponse(&api.CreateReceiverResponse{
		Receiver: toAPIReceiver(receiver),
		Warnings: receiver.Warnings(),
	}), nil
}

// GetReceiver returns one of the caller's receivers.
func (s *ReceiverService) GetReceiver(ctx context.Context, req *connect.Request[api.GetReceiverRequest]) (*connect.Response[api.GetReceiverResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	receiver, err := s.getOwned(ctx, userID, req.Msg.ID)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.GetReceiverResponse{Receiver: toAPIReceiver(receiver)}), nil
}

// ListReceivers returns the caller's receivers, newest first, optionally
// for one year.
func (s *ReceiverService) ListReceivers(ctx context.Context, req *connect.Request[api.ListReceiversRequest]) (*connect.Response[api.ListReceiversResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	receivers, err := s.store.ListReceivers(ctx, storage.ReceiverFilter{
		OwnerID: userID,
		Year:    req.Msg.Year,
	})
	if err != nil {
		s.logger.Error("ListReceivers failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Receiver, len(receivers))
	for i, r := range receivers {
		out[i] = toAPIReceiver(r)
	}

	return connect.NewResponse(&api.ListReceiversResponse{Receivers: out}), nil
}

// UpdateReceiver applies a partial update to one of the caller's receivers.
func (s *ReceiverService) UpdateReceiver(ctx context.Context, req *connect.Request[api.UpdateReceiverRequest]) (*connect.Response[api.UpdateReceiverResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("UpdateReceiver request received", "user_id", userID, "receiver_id", req.Msg.ID)

	current, err := s.getOwned(ctx, userID, req.Msg.ID)
	if err != nil {
		return nil, err
	}

	patch := patchFromUpdate(req.Msg)
	if patch.IsEmpty() {
		return connect.NewResponse(&api.UpdateReceiverResponse{
			Receiver: toAPIReceiver(current),
			Warnings: current.Warnings(),
		}), nil
	}

	merged := *current
	patch.Apply(&merged)
	merged.Normalize()
	if err := merged.Validate(); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	patch.Reconcile(current, &merged)

	affected, err := s.store.UpdateReceiver(ctx, userID, req.Msg.ID, patch)
	if err != nil {
		s.logger.Error("UpdateReceiver failed", "receiver_id", req.Msg.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if affected == 0 {
		// Deleted between the read and the write.
		return nil, connect.NewError(connect.CodeNotFound, ErrReceiverNotFound)
	}

	s.emitter.Emit(ctx, events.NewReceiverEvent(events.ReceiverUpdated, &merged))
	if merged.Received && !current.Received {
		s.emitter.Emit(ctx, events.NewReceiverEvent(events.ReceiverDistributed, &merged))
	}
	s.logger.Info("Receiver updated", "receiver_id", merged.ID)

	return connect.NewResponse(&api.UpdateReceiverResponse{
		Receiver: toAPIReceiver(&merged),
		Warnings: merged.Warnings(),
	}), nil
}

// DeleteReceiver permanently removes one of the caller's receivers.
func (s *ReceiverService) DeleteReceiver(ctx context.Context, req *connect.Request[api.DeleteReceiverRequest]) (*connect.Response[api.DeleteReceiverResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("DeleteReceiver request received", "user_id", userID, "receiver_id", req.Msg.ID)

	// Read first so the event can carry the receiver's year and amount.
	receiver, err := s.getOwned(ctx, userID, req.Msg.ID)
	if err != nil {
		return nil, err
	}

	affected, err := s.store.DeleteReceiver(ctx, userID, req.Msg.ID)
	if err != nil {
		s.logger.Error("DeleteReceiver failed", "receiver_id", req.Msg.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if affected == 0 {
		return nil, connect.NewError(connect.CodeNotFound, ErrReceiverNotFound)
	}

	s.emitter.Emit(ctx, events.NewReceiverEvent(events.ReceiverDeleted, receiver))
	s.logger.Info("Receiver deleted", "receiver_id", req.Msg.ID)

	return connect.NewResponse(&api.DeleteReceiverResponse{}), nil
}

// ListYears returns the years the caller has planned receivers for.
func (s *ReceiverService) ListYears(ctx context.Context, req *connect.Request[api.ListYearsRequest]) (*connect.Response[api.ListYearsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	years, err := s.store.ListYears(ctx, userID)
	if err != nil {
		s.logger.Error("ListYears failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.ListYearsResponse{Years: years}), nil
}

func (s *ReceiverService) getOwned(ctx context.Context, userID string, id int64) (*models.Receiver, error) {
	receiver, err := s.store.GetReceiver(ctx, userID, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, ErrReceiverNotFound)
	}
	if err != nil {
		s.logger.Error("GetReceiver failed", "receiver_id", id, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return receiver, nil
}

func patchFromUpdate(msg *api.UpdateReceiverRequest) models.ReceiverPatch {
	patch := models.ReceiverPatch{
		Name:            msg.Name,
		RecipientCount:  msg.RecipientCount,
		AmountPerPacket: msg.AmountPerPacket,
		Denomination:    msg.Denomination,
		Eligible:        msg.Eligible,
		Received:        msg.Received,
		Year:            msg.Year,
	}
	if msg.Kind != nil {
		kind := models.Kind(*msg.Kind)
		patch.Kind = &kind
	}
	return patch
}

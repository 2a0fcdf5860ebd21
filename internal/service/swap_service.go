package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/skillswap-service/internal/access"
	"github.com/spec-kit/skillswap-service/internal/config"
	"github.com/spec-kit/skillswap-service/internal/domain"
	"github.com/spec-kit/skillswap-service/internal/events"
	"github.com/spec-kit/skillswap-service/internal/repository"
	apperrors "github.com/spec-kit/skillswap-service/pkg/util/errorutil"
)

// SwapService coordinates the swap-request lifecycle.
type SwapService struct {
	swaps      repository.SwapRequestRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	policy     config.SwapConfig
}

// SwapDependencies bundles requirements for the swap service.
type SwapDependencies struct {
	SwapRepo   repository.SwapRequestRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// SwapCreateInput describes the creation payload.
type SwapCreateInput struct {
	ReceiverID   string
	SkillOffered string
	SkillWanted  string
	Message      *string
}

// SwapListFilter narrows sent/received listings.
type SwapListFilter struct {
	Status *domain.SwapStatus
	Limit  int
	Offset int
}

// NewSwapService constructs the service.
func NewSwapService(policy config.SwapConfig, deps SwapDependencies) *SwapService {
	return &SwapService{
		swaps:      deps.SwapRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		policy:     policy,
	}
}

// Create opens a new request in PENDING state.
func (s *SwapService) Create(ctx context.Context, requesterID string, input SwapCreateInput) (*domain.SwapRequest, error) {
	offered := sanitize(input.SkillOffered, 100)
	wanted := sanitize(input.SkillWanted, 100)

	if input.ReceiverID == "" {
		return nil, apperrors.NewValidationError("receiver id is required", nil)
	}
	if offered == "" || wanted == "" {
		return nil, apperrors.NewValidationError("both offered and wanted skills are required", nil)
	}
	if input.ReceiverID == requesterID {
		return nil, apperrors.NewValidationError("you cannot send a swap request to yourself", nil)
	}

	receiver, err := s.users.GetByID(ctx, input.ReceiverID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("receiver", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if receiver.IsBanned {
		return nil, apperrors.NewNotFound("receiver", nil)
	}

	pending, err := s.swaps.HasPairWithStatus(ctx, requesterID, input.ReceiverID, offered, wanted, domain.SwapStatusPending)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if pending {
		return nil, apperrors.NewValidationError("you already have a pending request for these skills with this user", nil)
	}

	if !s.policy.AllowResendAfterRejection {
		rejected, err := s.swaps.HasPairWithStatus(ctx, requesterID, input.ReceiverID, offered, wanted, domain.SwapStatusRejected)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if rejected {
			return nil, apperrors.NewConflict("an identical request was already rejected by this user", nil)
		}
	}

	var message *string
	if input.Message != nil {
		trimmed := sanitize(*input.Message, 500)
		if trimmed != "" {
			message = &trimmed
		}
	}

	req := &domain.SwapRequest{
		RequesterID:  requesterID,
		ReceiverID:   input.ReceiverID,
		SkillOffered: offered,
		SkillWanted:  wanted,
		Message:      message,
		Status:       domain.SwapStatusPending,
	}
	if err := s.swaps.Create(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventSwapRequestCreated,
		ActorID: requesterID,
		Payload: events.SwapRequestCreatedPayload{
			RequestID:    req.ID,
			RequesterID:  req.RequesterID,
			ReceiverID:   req.ReceiverID,
			SkillOffered: req.SkillOffered,
			SkillWanted:  req.SkillWanted,
		},
	})
	return req, nil
}

// ListSent returns requests where the actor is the requester, newest first.
func (s *SwapService) ListSent(ctx context.Context, actorID string, filter SwapListFilter) ([]domain.SwapRequest, error) {
	reqs, err := s.swaps.List(ctx, repository.SwapRequestFilter{
		RequesterID: &actorID,
		Status:      filter.Status,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reqs, nil
}

// ListReceived returns requests where the actor is the receiver, newest first.
func (s *SwapService) ListReceived(ctx context.Context, actorID string, filter SwapListFilter) ([]domain.SwapRequest, error) {
	reqs, err := s.swaps.List(ctx, repository.SwapRequestFilter{
		ReceiverID: &actorID,
		Status:     filter.Status,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reqs, nil
}

// Get fetches a single request, participants only.
func (s *SwapService) Get(ctx context.Context, actorID, requestID string) (*domain.SwapRequest, error) {
	req, err := s.swaps.GetByID(ctx, requestID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("swap request", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !access.CanViewSwapRequest(actorID, req) {
		return nil, apperrors.NewForbidden("you are not authorized to view this request")
	}
	return req, nil
}

// UpdateStatus applies a status transition per the state-machine rules. The
// write is predicated on the row still being PENDING, so a concurrent winner
// causes the loser to fail with an invalid-transition conflict.
func (s *SwapService) UpdateStatus(ctx context.Context, actorID, requestID string, next domain.SwapStatus, acceptanceMessage *string) (*domain.SwapRequest, error) {
	req, err := s.swaps.GetByID(ctx, requestID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("swap request", nil)
		}
		return nil, apperrors.MapError(err)
	}

	if err := access.CanTransition(actorID, req, next); err != nil {
		return nil, err
	}

	var message *string
	if acceptanceMessage != nil && (next == domain.SwapStatusAccepted || next == domain.SwapStatusRejected) {
		trimmed := sanitize(*acceptanceMessage, 500)
		if trimmed != "" {
			message = &trimmed
		}
	}

	oldStatus := req.Status
	if err := s.swaps.TransitionStatus(ctx, req, next, message); err != nil {
		if err == pgx.ErrNoRows {
			// Row changed under us: either deleted or already terminal.
			current, getErr := s.swaps.GetByID(ctx, requestID)
			if getErr != nil {
				return nil, apperrors.NewNotFound("swap request", nil)
			}
			return nil, apperrors.NewInvalidTransition(string(current.Status), string(next))
		}
		return nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventSwapRequestStatusChanged,
		ActorID: actorID,
		Payload: events.SwapRequestStatusChangedPayload{
			RequestID:  req.ID,
			ReceiverID: req.ReceiverID,
			OldStatus:  oldStatus,
			NewStatus:  next,
		},
	})
	return req, nil
}

// Delete removes a request entirely; requester only.
func (s *SwapService) Delete(ctx context.Context, actorID, requestID string) error {
	req, err := s.swaps.GetByID(ctx, requestID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("swap request", nil)
		}
		return apperrors.MapError(err)
	}
	if !access.CanDeleteSwapRequest(actorID, req) {
		return apperrors.NewForbidden("only the requester can delete the request")
	}
	if err := s.swaps.Delete(ctx, requestID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Package access holds the pure decision rules for the swap-request state
// machine and for record visibility. Nothing in here touches storage; callers
// pass in already-loaded records and translate returned errors to transport.
package access

import (
	"github.com/spec-kit/skillswap-service/internal/domain"
	apperrors "github.com/spec-kit/skillswap-service/pkg/util/errorutil"
)

var allowedTransitions = map[domain.SwapStatus][]domain.SwapStatus{
	domain.SwapStatusPending:   {domain.SwapStatusAccepted, domain.SwapStatusRejected, domain.SwapStatusCancelled},
	domain.SwapStatusAccepted:  {},
	domain.SwapStatusRejected:  {},
	domain.SwapStatusCancelled: {},
}

// NextStatuses returns the statuses legally reachable from current.
func NextStatuses(current domain.SwapStatus) []domain.SwapStatus {
	next := allowedTransitions[current]
	out := make([]domain.SwapStatus, len(next))
	copy(out, next)
	return out
}

// IsTerminal reports whether no further transition is permitted from status.
func IsTerminal(status domain.SwapStatus) bool {
	return len(allowedTransitions[status]) == 0
}

// ValidStatus reports whether the value is a known swap status.
func ValidStatus(status domain.SwapStatus) bool {
	_, ok := allowedTransitions[status]
	return ok
}

// CanTransition decides whether actorID may move the request to next.
// Role is checked before state so a non-participant learns nothing about
// the request's current status.
func CanTransition(actorID string, req *domain.SwapRequest, next domain.SwapStatus) error {
	if !req.Participant(actorID) {
		return apperrors.NewForbidden("you are not a participant in this request")
	}
	switch next {
	case domain.SwapStatusAccepted, domain.SwapStatusRejected:
		if actorID != req.ReceiverID {
			return apperrors.NewForbidden("only the receiver can accept or reject requests")
		}
	case domain.SwapStatusCancelled:
		if actorID != req.RequesterID {
			return apperrors.NewForbidden("only the requester can cancel requests")
		}
	default:
		return apperrors.NewInvalidTransition(string(req.Status), string(next))
	}
	if req.Status != domain.SwapStatusPending {
		return apperrors.NewInvalidTransition(string(req.Status), string(next))
	}
	return nil
}

// CanViewProfile decides whether actorID may read the given user record.
func CanViewProfile(actorID string, user *domain.User) bool {
	if actorID == user.ID {
		return true
	}
	return user.Visible()
}

// CanMutateProfile decides whether actorID may change the given user record.
func CanMutateProfile(actorID string, user *domain.User) bool {
	return actorID == user.ID
}

// CanMutateSkill decides whether the actor may edit or delete a catalog
// entry. Only the creator and admins may.
func CanMutateSkill(actorID string, isAdmin bool, skill *domain.Skill) bool {
	if isAdmin {
		return true
	}
	return skill.CreatedBy != nil && *skill.CreatedBy == actorID
}

// CanViewSwapRequest decides whether actorID may read the request. Only the
// two participants ever see it.
func CanViewSwapRequest(actorID string, req *domain.SwapRequest) bool {
	return req.Participant(actorID)
}

// CanDeleteSwapRequest decides whether actorID may remove the request
// entirely. Only the requester may clean up their own sent requests.
func CanDeleteSwapRequest(actorID string, req *domain.SwapRequest) bool {
	return actorID == req.RequesterID
}

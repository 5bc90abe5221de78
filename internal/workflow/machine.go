// Package workflow owns the approval state machine, the audit trail builder
// and the request lifecycle guard. The transition function here is pure over
// the request record; persistence and notification are the caller's job.
package workflow

import (
	"fmt"
	"time"

	"github.com/Thintalltom/Paperless-Audit/internal/models"
)

// Clock returns the current time; overridable in tests.
var Clock = time.Now

// Apply runs one approver action against a request and returns the updated
// record. The input is not mutated.
//
// Preconditions: the request must be pending and the actor must be the
// approver at the request's current level of the resolved chain. An empty
// chain means the roster could not be resolved and blocks all actions.
//
// Every recorded entry is written both to ApprovalStatus[level] (last action
// at a level wins) and appended to ApprovalHistory (never overwritten, so
// repeated KIV holds at the same level all remain visible).
func Apply(req *models.Request, chain []models.User, actor *models.User, action models.Action, comments string) (*models.Request, error) {
	if !action.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("Unknown approval action %q", action))
	}
	if req.Status.Terminal() {
		return nil, models.NewNotActionableError(fmt.Sprintf("Request is already %s", req.Status))
	}
	if req.Status != models.StatusPending {
		return nil, models.NewNotActionableError("Request is not pending")
	}
	if len(chain) == 0 {
		return nil, models.NewChainResolutionError(fmt.Errorf("no approvers resolved for request %d", req.ID))
	}
	level := req.CurrentApprovalLevel
	if level < 0 || level >= len(chain) {
		return nil, models.NewChainResolutionError(fmt.Errorf("current level %d outside chain of length %d", level, len(chain)))
	}
	if actor == nil || chain[level].ID != actor.ID {
		return nil, models.NewUnauthorizedError("You are not the approver for this request's current level")
	}

	now := Clock()
	next := cloneRequest(req)

	next.ApprovalStatus[level] = models.ApprovalEntry{
		Status:     action,
		ApproverID: actor.ID,
		Timestamp:  now,
		Comments:   comments,
	}
	next.ApprovalHistory = append(next.ApprovalHistory, models.HistoryEntry{
		Level:      level,
		ApproverID: actor.ID,
		Action:     action,
		Comments:   comments,
		Timestamp:  now,
	})

	switch action {
	case models.ActionDeclined:
		next.Status = models.StatusDeclined
	case models.ActionApproved:
		if level < len(chain)-1 {
			next.CurrentApprovalLevel = level + 1
		} else {
			// Final approver: terminal, level stays at N-1.
			next.Status = models.StatusApproved
		}
	case models.ActionKIV:
		// Sticky hold: status and level unchanged, the same approver stays
		// responsible for the request.
	}

	next.UpdatedAt = now
	return next, nil
}

// NextApprover returns the approver who must act after the given transition,
// or nil when the request reached a terminal status.
func NextApprover(req *models.Request, chain []models.User) *models.User {
	if req.Status != models.StatusPending {
		return nil
	}
	if req.CurrentApprovalLevel < 0 || req.CurrentApprovalLevel >= len(chain) {
		return nil
	}
	next := chain[req.CurrentApprovalLevel]
	return &next
}

func cloneRequest(req *models.Request) *models.Request {
	next := *req
	next.ApprovalStatus = make(models.ApprovalStatusMap, len(req.ApprovalStatus)+1)
	for k, v := range req.ApprovalStatus {
		next.ApprovalStatus[k] = v
	}
	next.ApprovalHistory = make([]models.HistoryEntry, len(req.ApprovalHistory), len(req.ApprovalHistory)+1)
	copy(next.ApprovalHistory, req.ApprovalHistory)
	return &next
}

package workflow

import "github.com/Thintalltom/Paperless-Audit/internal/models"

// CanEdit reports whether the actor may still edit the request: the actor
// must be the creator, the request must be pending, and no approval action
// may have been recorded yet (level 0). The returned error is one of the
// distinct guard violations so callers can present a precise message.
func CanEdit(req *models.Request, actorID uint) error {
	if req.CreatedBy != actorID {
		return models.NewForbiddenError("You can only modify your own requests")
	}
	if req.Status != models.StatusPending {
		return models.NewNotPendingError()
	}
	if req.CurrentApprovalLevel > 0 {
		return models.NewAlreadyInProgressError()
	}
	return nil
}

// CanDelete uses the identical predicate as CanEdit: a request is never
// physically deleted once any approval has occurred.
func CanDelete(req *models.Request, actorID uint) error {
	return CanEdit(req, actorID)
}
